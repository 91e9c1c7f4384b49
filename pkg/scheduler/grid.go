package scheduler

import (
	"errors"
	"fmt"

	"github.com/arnavshah/room-scheduler-api/pkg/models"
)

const (
	DefaultDayStart = models.ClockTime(6 * 60)
	DefaultInterval = 15 // minutes
	DefaultBuffer   = 30 // minutes
)

var (
	ErrInvalidGrid   = errors.New("invalid time grid")
	ErrMalformedRoom = errors.New("malformed room bounds")
)

// Grid is the single quantized time axis shared by every room and day.
// All conversions round up, so a partial interval consumes a whole slot.
type Grid struct {
	DayStart models.ClockTime // earliest possible opening
	Interval int              // slot width in minutes
	Buffer   int              // turnover after each session in minutes
}

// DefaultGrid returns a 15 minute grid starting at 06:00 with a 30 minute buffer.
func DefaultGrid() Grid {
	return Grid{DayStart: DefaultDayStart, Interval: DefaultInterval, Buffer: DefaultBuffer}
}

// Validate reports whether the grid can be used for scheduling.
func (g Grid) Validate() error {
	if g.Interval <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %d", ErrInvalidGrid, g.Interval)
	}
	if g.Buffer < 0 {
		return fmt.Errorf("%w: buffer must not be negative, got %d", ErrInvalidGrid, g.Buffer)
	}
	if g.DayStart < 0 || g.DayStart >= models.Clock(24, 0) {
		return fmt.Errorf("%w: day start %s outside the day", ErrInvalidGrid, g.DayStart)
	}
	return nil
}

// SlotIndex converts minutes relative to DayStart into a slot index.
func (g Grid) SlotIndex(minutes int) int {
	return ceilDiv(minutes, g.Interval)
}

// SlotOf converts a wall-clock time into a slot index.
func (g Grid) SlotOf(t models.ClockTime) int {
	return g.SlotIndex(int(t - g.DayStart))
}

// SlotsNeeded is the number of slots a session of the given duration occupies.
func (g Grid) SlotsNeeded(durationMinutes int) int {
	return ceilDiv(durationMinutes, g.Interval)
}

// BufferSlots is the number of buffer cells written after a session.
func (g Grid) BufferSlots() int {
	return ceilDiv(g.Buffer, g.Interval)
}

// SlotStart is the wall-clock start of slot i.
func (g Grid) SlotStart(i int) models.ClockTime {
	return g.DayStart + models.ClockTime(i*g.Interval)
}

// SlotsPerHour is used by presenters to group cells.
func (g Grid) SlotsPerHour() int {
	if n := 60 / g.Interval; n > 0 {
		return n
	}
	return 1
}

// Prepare resets a room to its unopened state on this grid: the profile is
// cleared, the schedule spans DayStart to the closing time, and the cells
// before the opening time are closed. Rooms opening before DayStart or
// closing at or before their opening get an empty schedule and
// ErrMalformedRoom.
func (g Grid) Prepare(room *models.Room) error {
	room.Format = ""
	room.Equipment = nil
	room.Active = false
	room.OpenSlot = 0
	room.Schedule = nil

	if room.OpenAt < g.DayStart {
		return fmt.Errorf("%w: room %s opens at %s before day start %s", ErrMalformedRoom, room.ID, room.OpenAt, g.DayStart)
	}
	if room.CloseAt <= room.OpenAt {
		return fmt.Errorf("%w: room %s closes at %s, not after opening at %s", ErrMalformedRoom, room.ID, room.CloseAt, room.OpenAt)
	}

	size := g.SlotOf(room.CloseAt)
	open := g.SlotOf(room.OpenAt)
	if open > size {
		open = size
	}

	room.Schedule = make([]models.Cell, size)
	for i := 0; i < open; i++ {
		room.Schedule[i].Kind = models.CellClosed
	}
	room.OpenSlot = open
	return nil
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
