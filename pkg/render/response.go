package render

import (
	"github.com/arnavshah/room-scheduler-api/pkg/models"
	"github.com/arnavshah/room-scheduler-api/pkg/scheduler"
)

// Response builds the API payload for a finished plan.
func Response(g scheduler.Grid, plan *scheduler.Plan, runID string) models.ScheduleResponse {
	resp := models.ScheduleResponse{
		RunID:       runID,
		RoomsUsed:   plan.RoomsUsed(),
		Days:        make([]models.DaySchedule, 0, len(plan.Days)),
		Placements:  plan.Placements(g),
		Unscheduled: make([]models.UnscheduledSession, 0, len(plan.Unscheduled)),
		Diagnostics: plan.Diagnostics,
	}
	if resp.Placements == nil {
		resp.Placements = []models.Placement{}
	}

	for _, day := range plan.Days {
		ds := models.DaySchedule{Day: day.Day + 1, Rooms: make([]models.RoomSchedule, 0, len(day.Rooms))}
		for _, room := range day.Rooms {
			ds.Rooms = append(ds.Rooms, roomSchedule(g, room))
		}
		resp.Days = append(resp.Days, ds)
	}

	for _, r := range plan.Unscheduled {
		resp.Unscheduled = append(resp.Unscheduled, models.UnscheduledSession{
			SessionID: r.Session.ID,
			Title:     r.Session.Title,
			Reason:    string(r.Reason),
		})
	}
	return resp
}

func roomSchedule(g scheduler.Grid, room *models.Room) models.RoomSchedule {
	rs := models.RoomSchedule{
		RoomID:      room.ID,
		Name:        room.Name,
		MaxCapacity: room.MaxCapacity,
		OpenAt:      room.OpenAt,
		CloseAt:     room.CloseAt,
		Format:      room.Format,
		Equipment:   room.Equipment,
		Slots:       make([]models.SlotView, 0, len(room.Schedule)-room.OpenSlot),
	}
	if rs.Equipment == nil {
		rs.Equipment = []string{}
	}
	// closed cells before opening are left out
	for i := room.OpenSlot; i < len(room.Schedule); i++ {
		cell := room.Schedule[i]
		view := models.SlotView{
			Start: g.SlotStart(i),
			End:   g.SlotStart(i + 1),
			State: cell.Kind.String(),
		}
		if cell.Kind == models.CellSession {
			view.SessionID = cell.Session.ID
		}
		rs.Slots = append(rs.Slots, view)
	}
	return rs
}
