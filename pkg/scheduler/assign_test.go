package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/room-scheduler-api/pkg/models"
)

func preparedRoom(t *testing.T, g Grid, id string, open, close models.ClockTime) *models.Room {
	t.Helper()
	room := &models.Room{ID: id, MaxCapacity: 100, OpenAt: open, CloseAt: close}
	require.NoError(t, g.Prepare(room))
	room.Active = true
	return room
}

func kinds(room *models.Room) []models.CellKind {
	out := make([]models.CellKind, len(room.Schedule))
	for i, c := range room.Schedule {
		out[i] = c.Kind
	}
	return out
}

func TestAssignFirstSessionWithBuffer(t *testing.T) {
	s := NewScheduler(DefaultGrid())
	room := preparedRoom(t, s.Grid, "r1", models.Clock(8, 0), models.Clock(12, 0))
	session := &models.Session{ID: "s1", Duration: 90, Topic: "AI"}

	require.True(t, s.Assign(session, room, s.Grid.SlotsNeeded(session.Duration), []*models.Room{room}))

	for i, cell := range room.Schedule {
		switch {
		case i < 8:
			assert.Equal(t, models.CellClosed, cell.Kind, "slot %d", i)
		case i < 14:
			assert.Equal(t, models.CellSession, cell.Kind, "slot %d", i)
			assert.Same(t, session, cell.Session)
		case i < 16:
			assert.Equal(t, models.CellBuffer, cell.Kind, "slot %d", i)
			assert.Nil(t, cell.Session)
		default:
			assert.Equal(t, models.CellEmpty, cell.Kind, "slot %d", i)
		}
	}
}

func TestAssignBufferTruncatedAtScheduleEnd(t *testing.T) {
	s := NewScheduler(DefaultGrid())
	room := preparedRoom(t, s.Grid, "r1", models.Clock(8, 0), models.Clock(9, 45))
	session := &models.Session{ID: "s1", Duration: 90}

	require.True(t, s.Assign(session, room, 6, nil))

	require.Len(t, room.Schedule, 15)
	assert.Equal(t, models.CellSession, room.Schedule[13].Kind)
	assert.Equal(t, models.CellBuffer, room.Schedule[14].Kind)
}

func TestAssignExactFitHasNoBuffer(t *testing.T) {
	s := NewScheduler(DefaultGrid())
	room := preparedRoom(t, s.Grid, "r1", models.Clock(8, 0), models.Clock(9, 30))

	require.True(t, s.Assign(&models.Session{ID: "s1", Duration: 90}, room, 6, nil))

	require.Len(t, room.Schedule, 14)
	for i := 8; i < 14; i++ {
		assert.Equal(t, models.CellSession, room.Schedule[i].Kind)
	}
}

func TestAssignTooLongLeavesScheduleUntouched(t *testing.T) {
	s := NewScheduler(DefaultGrid())
	room := preparedRoom(t, s.Grid, "r1", models.Clock(8, 0), models.Clock(9, 0))
	before := kinds(room)

	assert.False(t, s.Assign(&models.Session{ID: "s1", Duration: 90}, room, 6, nil))
	assert.False(t, s.Assign(&models.Session{ID: "s2"}, room, 0, nil))
	assert.Equal(t, before, kinds(room))
}

func TestAssignNextSessionStartsAfterBuffer(t *testing.T) {
	s := NewScheduler(DefaultGrid())
	room := preparedRoom(t, s.Grid, "r1", models.Clock(8, 0), models.Clock(12, 0))
	active := []*models.Room{room}

	require.True(t, s.Assign(&models.Session{ID: "s1", Duration: 90, Topic: "A"}, room, 6, active))
	second := &models.Session{ID: "s2", Duration: 30, Topic: "B"}
	require.True(t, s.Assign(second, room, 2, active))

	assert.Same(t, second, room.Schedule[16].Session)
	assert.Same(t, second, room.Schedule[17].Session)
	assert.Equal(t, models.CellBuffer, room.Schedule[18].Kind)
	assert.Equal(t, models.CellBuffer, room.Schedule[19].Kind)
	assert.Equal(t, models.CellEmpty, room.Schedule[20].Kind)
}

func TestAssignKeepsBufferFreeBeforeLaterSession(t *testing.T) {
	s := NewScheduler(DefaultGrid())
	room := preparedRoom(t, s.Grid, "r1", models.Clock(8, 0), models.Clock(12, 0))
	later := &models.Session{ID: "later", Duration: 30}
	room.Schedule[16] = models.Cell{Kind: models.CellSession, Session: later}
	room.Schedule[17] = models.Cell{Kind: models.CellSession, Session: later}

	// 7 slots plus 2 buffer slots do not fit in the 8 free cells before slot 16
	assert.False(t, s.Assign(&models.Session{ID: "long", Duration: 105}, room, 7, nil))

	require.True(t, s.Assign(&models.Session{ID: "fits", Duration: 90}, room, 6, nil))
	assert.Equal(t, models.CellBuffer, room.Schedule[14].Kind)
	assert.Equal(t, models.CellBuffer, room.Schedule[15].Kind)
	assert.Same(t, later, room.Schedule[16].Session)
}

func TestAssignSharedSpeakerPushedPastConflict(t *testing.T) {
	s := NewScheduler(DefaultGrid())
	roomA := preparedRoom(t, s.Grid, "A", models.Clock(8, 0), models.Clock(12, 0))
	roomB := preparedRoom(t, s.Grid, "B", models.Clock(8, 0), models.Clock(12, 0))
	active := []*models.Room{roomA, roomB}

	first := &models.Session{ID: "s1", Duration: 90, Topic: "AI", Speakers: []string{"ada"}}
	second := &models.Session{ID: "s2", Duration: 60, Topic: "Bio", Speakers: []string{"ada", "bob"}}

	require.True(t, s.Assign(first, roomA, 6, active))
	require.True(t, s.Assign(second, roomB, 4, active))

	for i := 8; i < 14; i++ {
		assert.Equal(t, models.CellEmpty, roomB.Schedule[i].Kind, "slot %d", i)
	}
	for i := 14; i < 18; i++ {
		assert.Same(t, second, roomB.Schedule[i].Session, "slot %d", i)
	}
	assert.Empty(t, Verify(s.Grid, active))
}

func TestAssignRespectsLateOpening(t *testing.T) {
	s := NewScheduler(DefaultGrid())
	room := preparedRoom(t, s.Grid, "r1", models.Clock(10, 0), models.Clock(12, 0))

	require.True(t, s.Assign(&models.Session{ID: "s1", Duration: 15}, room, 1, nil))

	assert.Equal(t, 16, room.OpenSlot)
	assert.Equal(t, models.CellSession, room.Schedule[16].Kind)
	for i := 0; i < 16; i++ {
		assert.Equal(t, models.CellClosed, room.Schedule[i].Kind)
	}
}
