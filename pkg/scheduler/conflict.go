package scheduler

import "github.com/arnavshah/room-scheduler-api/pkg/models"

// Conflicts reports whether placing session in the slot window
// [left, left+slots) would run it concurrently with a session in any
// active room that shares a speaker or its topic. Buffer cells never
// conflict.
func Conflicts(session *models.Session, left, slots int, active []*models.Room) bool {
	_, found := firstConflict(session, left, slots, active)
	return found
}

// firstConflict returns the slot index of the first clash found.
func firstConflict(session *models.Session, left, slots int, active []*models.Room) (int, bool) {
	for _, room := range active {
		end := left + slots
		if end > len(room.Schedule) {
			end = len(room.Schedule)
		}
		for j := left; j < end; j++ {
			cell := room.Schedule[j]
			if cell.Kind != models.CellSession {
				continue
			}
			if clash(session, cell.Session) {
				return j, true
			}
		}
	}
	return 0, false
}

// clash is true when two sessions cannot run at the same time. The topic is
// compared as a plain key, so two sessions without a topic share a track.
func clash(a, b *models.Session) bool {
	if a.Topic == b.Topic {
		return true
	}
	return intersects(a.Speakers, b.Speakers)
}
