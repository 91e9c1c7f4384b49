package models

// ScheduleInput is the data structure for the scheduling endpoints
type ScheduleInput struct {
	Days            int       `json:"days" yaml:"days"`
	EquipmentPolicy string    `json:"equipment_policy,omitempty" yaml:"equipment_policy,omitempty"`
	Rooms           []Room    `json:"rooms" yaml:"rooms"`
	Sessions        []Session `json:"sessions" yaml:"sessions"`
}

// SlotView is one rendered schedule cell
type SlotView struct {
	Start     ClockTime `json:"start"`
	End       ClockTime `json:"end"`
	State     string    `json:"state"` // empty, session, buffer, closed
	SessionID string    `json:"session_id,omitempty"`
}

// RoomSchedule is an activated room and its day grid
type RoomSchedule struct {
	RoomID      string     `json:"room_id"`
	Name        string     `json:"name,omitempty"`
	MaxCapacity int        `json:"max_capacity"`
	OpenAt      ClockTime  `json:"open_at"`
	CloseAt     ClockTime  `json:"close_at"`
	Format      string     `json:"format"`
	Equipment   []string   `json:"equipment"`
	Slots       []SlotView `json:"slots"`
}

// DaySchedule groups the rooms opened on one day
type DaySchedule struct {
	Day   int            `json:"day"`
	Rooms []RoomSchedule `json:"rooms"`
}

// UnscheduledSession reports why a session was never placed
type UnscheduledSession struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
	Reason    string `json:"reason"`
}

// ScheduleResponse is the data structure for the scheduling result
type ScheduleResponse struct {
	RunID       string               `json:"run_id,omitempty"`
	RoomsUsed   int                  `json:"rooms_used"`
	Days        []DaySchedule        `json:"days"`
	Placements  []Placement          `json:"placements"`
	Unscheduled []UnscheduledSession `json:"unscheduled"`
	Diagnostics []string             `json:"diagnostics,omitempty"`
}
