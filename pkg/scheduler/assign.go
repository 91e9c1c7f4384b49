package scheduler

import "github.com/arnavshah/room-scheduler-api/pkg/models"

// Assign places session into the earliest window of the room that has
// slots empty cells, leaves room for the trailing buffer, and does not clash
// with any session in the active rooms. On success the window is filled with
// the session followed by up to BufferSlots buffer cells (fewer when the
// schedule ends first). It reports whether the session was placed.
func (s *Scheduler) Assign(session *models.Session, room *models.Room, slots int, active []*models.Room) bool {
	if slots <= 0 {
		return false
	}

	cells := room.Schedule
	n := len(cells)
	bufferSlots := s.Grid.BufferSlots()

	left := room.OpenSlot
	for left+slots <= n {
		end := left + slots
		tail := min(bufferSlots, n-end)

		if k, busy := lastBusy(cells, left, end+tail); busy {
			left = k + 1
			continue
		}
		// every window starting at or before j would contain j again
		if j, found := firstConflict(session, left, slots, active); found {
			left = j + 1
			continue
		}

		for i := left; i < end; i++ {
			cells[i] = models.Cell{Kind: models.CellSession, Session: session}
		}
		for i := end; i < end+tail; i++ {
			cells[i] = models.Cell{Kind: models.CellBuffer}
		}
		return true
	}
	return false
}

// lastBusy returns the last non-empty cell in [from, to). Returning the
// last one lets the scan skip every window that would overlap it.
func lastBusy(cells []models.Cell, from, to int) (int, bool) {
	for i := to - 1; i >= from; i-- {
		if cells[i].Kind != models.CellEmpty {
			return i, true
		}
	}
	return 0, false
}
