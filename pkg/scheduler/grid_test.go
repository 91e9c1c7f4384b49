package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/room-scheduler-api/pkg/models"
)

func TestGridConversionsRoundUp(t *testing.T) {
	g := DefaultGrid()

	assert.Equal(t, 6, g.SlotsNeeded(90))
	assert.Equal(t, 7, g.SlotsNeeded(91))
	assert.Equal(t, 1, g.SlotsNeeded(1))
	assert.Equal(t, 0, g.SlotsNeeded(0))
	assert.Equal(t, 2, g.BufferSlots())
	assert.Equal(t, 8, g.SlotOf(models.Clock(8, 0)))
	assert.Equal(t, 9, g.SlotOf(models.Clock(8, 7)))
	assert.Equal(t, models.Clock(8, 15), g.SlotStart(9))
	assert.Equal(t, 4, g.SlotsPerHour())
}

func TestGridBufferSlotsRoundsUp(t *testing.T) {
	g := Grid{DayStart: DefaultDayStart, Interval: 20, Buffer: 30}
	assert.Equal(t, 2, g.BufferSlots())

	g.Buffer = 0
	assert.Equal(t, 0, g.BufferSlots())
}

func TestGridValidate(t *testing.T) {
	tests := []struct {
		name    string
		grid    Grid
		wantErr bool
	}{
		{name: "default", grid: DefaultGrid()},
		{name: "zero interval", grid: Grid{DayStart: DefaultDayStart, Interval: 0, Buffer: 30}, wantErr: true},
		{name: "negative buffer", grid: Grid{DayStart: DefaultDayStart, Interval: 15, Buffer: -1}, wantErr: true},
		{name: "day start past midnight", grid: Grid{DayStart: models.Clock(24, 0), Interval: 15}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.grid.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidGrid)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPrepareBuildsScheduleFromDayStart(t *testing.T) {
	g := DefaultGrid()
	room := models.Room{
		ID:        "r1",
		OpenAt:    models.Clock(8, 0),
		CloseAt:   models.Clock(12, 0),
		Format:    "Panel",
		Equipment: []string{"Wifi"},
	}

	require.NoError(t, g.Prepare(&room))

	assert.Len(t, room.Schedule, 24)
	assert.Equal(t, 8, room.OpenSlot)
	assert.False(t, room.Active)
	assert.Empty(t, room.Format)
	assert.Empty(t, room.Equipment)
	for i, cell := range room.Schedule {
		if i < 8 {
			assert.Equal(t, models.CellClosed, cell.Kind, "slot %d", i)
		} else {
			assert.Equal(t, models.CellEmpty, cell.Kind, "slot %d", i)
		}
	}
}

func TestPrepareUnalignedBoundsRoundUp(t *testing.T) {
	g := DefaultGrid()
	room := models.Room{ID: "r1", OpenAt: models.Clock(8, 5), CloseAt: models.Clock(9, 10)}

	require.NoError(t, g.Prepare(&room))

	assert.Equal(t, 9, room.OpenSlot)
	assert.Len(t, room.Schedule, 13)
}

func TestPrepareMalformedRoom(t *testing.T) {
	g := DefaultGrid()

	tests := []struct {
		name string
		room models.Room
	}{
		{name: "opens before day start", room: models.Room{ID: "early", OpenAt: models.Clock(5, 0), CloseAt: models.Clock(10, 0)}},
		{name: "closes before opening", room: models.Room{ID: "inverted", OpenAt: models.Clock(10, 0), CloseAt: models.Clock(9, 0)}},
		{name: "zero length", room: models.Room{ID: "empty", OpenAt: models.Clock(10, 0), CloseAt: models.Clock(10, 0)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			room := tc.room
			err := g.Prepare(&room)
			assert.ErrorIs(t, err, ErrMalformedRoom)
			assert.Empty(t, room.Schedule)
		})
	}
}
