package scheduler

import (
	"fmt"

	"github.com/arnavshah/room-scheduler-api/pkg/models"
)

// Placements lists every committed session window of the day in room
// activation order, then slot order.
func (d *DayPlan) Placements(g Grid) []models.Placement {
	var out []models.Placement
	for _, room := range d.Rooms {
		for _, run := range sessionRuns(room.Schedule) {
			out = append(out, models.Placement{
				Day:               d.Day,
				RoomID:            room.ID,
				SessionID:         run.session.ID,
				Title:             run.session.Title,
				Format:            run.session.Format,
				Topic:             run.session.Topic,
				EstimatedCapacity: run.session.EstimatedCapacity,
				StartSlot:         run.start,
				EndSlot:           run.end,
				Start:             g.SlotStart(run.start),
				End:               g.SlotStart(run.end),
			})
		}
	}
	return out
}

// Placements lists the placements of every day in day order.
func (p *Plan) Placements(g Grid) []models.Placement {
	var out []models.Placement
	for _, d := range p.Days {
		out = append(out, d.Placements(g)...)
	}
	return out
}

type run struct {
	session    *models.Session
	start, end int
}

func sessionRuns(cells []models.Cell) []run {
	var runs []run
	for i := 0; i < len(cells); {
		if cells[i].Kind != models.CellSession {
			i++
			continue
		}
		j := i + 1
		for j < len(cells) && cells[j].Kind == models.CellSession && cells[j].Session == cells[i].Session {
			j++
		}
		runs = append(runs, run{session: cells[i].Session, start: i, end: j})
		i = j
	}
	return runs
}

// Verify checks a finished day against the scheduling guarantees: each
// session occupies exactly one run of SlotsNeeded cells at or after its
// room's opening slot, is followed by its buffer, and never runs alongside
// a session sharing a speaker or topic. It returns one message per
// violation.
func Verify(g Grid, rooms []*models.Room) []string {
	var problems []string
	seen := make(map[*models.Session]string)
	bufferSlots := g.BufferSlots()

	for _, room := range rooms {
		cells := room.Schedule
		for _, r := range sessionRuns(cells) {
			id := r.session.ID
			if where, dup := seen[r.session]; dup {
				problems = append(problems, fmt.Sprintf("session %s placed twice (rooms %s and %s)", id, where, room.ID))
			}
			seen[r.session] = room.ID

			if want := g.SlotsNeeded(r.session.Duration); r.end-r.start != want {
				problems = append(problems, fmt.Sprintf("session %s in room %s spans %d slots, want %d", id, room.ID, r.end-r.start, want))
			}
			if r.start < room.OpenSlot {
				problems = append(problems, fmt.Sprintf("session %s in room %s starts at slot %d before opening slot %d", id, room.ID, r.start, room.OpenSlot))
			}
			tail := min(bufferSlots, len(cells)-r.end)
			for i := r.end; i < r.end+tail; i++ {
				if cells[i].Kind != models.CellBuffer {
					problems = append(problems, fmt.Sprintf("session %s in room %s is missing buffer at slot %d", id, room.ID, i))
					break
				}
			}
		}
	}

	for a := 0; a < len(rooms); a++ {
		for b := a + 1; b < len(rooms); b++ {
			ca, cb := rooms[a].Schedule, rooms[b].Schedule
			for i := 0; i < min(len(ca), len(cb)); i++ {
				if ca[i].Kind != models.CellSession || cb[i].Kind != models.CellSession {
					continue
				}
				if clash(ca[i].Session, cb[i].Session) {
					problems = append(problems, fmt.Sprintf("sessions %s (room %s) and %s (room %s) clash at slot %d",
						ca[i].Session.ID, rooms[a].ID, cb[i].Session.ID, rooms[b].ID, i))
				}
			}
		}
	}
	return problems
}
