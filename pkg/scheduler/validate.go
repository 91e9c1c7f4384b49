package scheduler

import (
	"fmt"

	"github.com/arnavshah/room-scheduler-api/pkg/models"
)

// Check inspects planning input without scheduling it and returns one
// message per problem: duplicate ids, sessions Plan would reject as
// invalid, rooms with malformed bounds and sessions no room could ever
// hold. An empty result means every record is usable.
func (g Grid) Check(sessions []models.Session, rooms []models.Room) []string {
	var problems []string

	roomIDs := make(map[string]bool, len(rooms))
	maxCapacity := -1
	longest := 0
	for _, room := range rooms {
		if roomIDs[room.ID] {
			problems = append(problems, "duplicate room id: "+room.ID)
		}
		roomIDs[room.ID] = true

		prepared := room.Clone()
		if err := g.Prepare(&prepared); err != nil {
			problems = append(problems, err.Error())
			continue
		}
		maxCapacity = max(maxCapacity, room.MaxCapacity)
		longest = max(longest, len(prepared.Schedule)-prepared.OpenSlot)
	}

	sessionIDs := make(map[string]bool, len(sessions))
	for _, s := range sessions {
		if s.ID != "" && sessionIDs[s.ID] {
			problems = append(problems, "duplicate session id: "+s.ID)
		}
		sessionIDs[s.ID] = true

		if err := validateSession(&s); err != nil {
			problems = append(problems, err.Error())
			continue
		}
		if maxCapacity >= 0 && s.EstimatedCapacity > maxCapacity {
			problems = append(problems, fmt.Sprintf("session %s needs capacity %d, largest room holds %d", s.ID, s.EstimatedCapacity, maxCapacity))
		}
		if maxCapacity >= 0 && g.SlotsNeeded(s.Duration) > longest {
			problems = append(problems, fmt.Sprintf("session %s lasts %d minutes, longer than any room is open", s.ID, s.Duration))
		}
	}
	return problems
}
