package models

import (
	"sort"
	"strings"
)

// Session represents an activity that needs a room and a time window
type Session struct {
	ID                string   `json:"id" yaml:"id"`
	Title             string   `json:"title" yaml:"title"`
	Duration          int      `json:"duration" yaml:"duration"` // minutes
	EstimatedCapacity int      `json:"estimated_capacity" yaml:"estimated_capacity"`
	Format            string   `json:"format" yaml:"format"`
	Topic             string   `json:"topic" yaml:"topic"`
	Equipment         []string `json:"equipment,omitempty" yaml:"equipment,omitempty"`
	Speakers          []string `json:"speakers,omitempty" yaml:"speakers,omitempty"`
}

// Canonical returns a copy of the session with trimmed, sorted and
// deduplicated equipment and speaker sets. The receiver is left untouched.
func (s Session) Canonical() Session {
	s.Equipment = CanonicalSet(s.Equipment)
	s.Speakers = CanonicalSet(s.Speakers)
	return s
}

// Room represents a schedulable container. Format and Equipment form the
// room's profile: empty while the room sits in the pool, fixed to the first
// session's needs once the room is opened.
type Room struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name,omitempty" yaml:"name,omitempty"`
	MaxCapacity int       `json:"max_capacity" yaml:"max_capacity"`
	OpenAt      ClockTime `json:"open_at" yaml:"open_at"`
	CloseAt     ClockTime `json:"close_at" yaml:"close_at"`

	Format    string   `json:"format,omitempty" yaml:"-"`
	Equipment []string `json:"equipment,omitempty" yaml:"-"`
	Active    bool     `json:"-" yaml:"-"`
	OpenSlot  int      `json:"-" yaml:"-"`
	Schedule  []Cell   `json:"-" yaml:"-"`
}

// Clone returns a copy of the room record with its own slices.
func (r Room) Clone() Room {
	r.Equipment = append([]string(nil), r.Equipment...)
	r.Schedule = append([]Cell(nil), r.Schedule...)
	return r
}

// CellKind tags what a schedule cell holds
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellSession
	CellBuffer
	CellClosed // before the room's opening time
)

func (k CellKind) String() string {
	switch k {
	case CellSession:
		return "session"
	case CellBuffer:
		return "buffer"
	case CellClosed:
		return "closed"
	default:
		return "empty"
	}
}

// Cell is one time-grid unit of a room schedule. Session is set only when
// Kind is CellSession.
type Cell struct {
	Kind    CellKind
	Session *Session
}

// Placement is a session committed to a room window on a given day
type Placement struct {
	Day               int       `json:"day"`
	RoomID            string    `json:"room_id"`
	SessionID         string    `json:"session_id"`
	Title             string    `json:"title"`
	Format            string    `json:"format"`
	Topic             string    `json:"topic"`
	EstimatedCapacity int       `json:"estimated_capacity"`
	StartSlot         int       `json:"start_slot"`
	EndSlot           int       `json:"end_slot"` // exclusive
	Start             ClockTime `json:"start"`
	End               ClockTime `json:"end"`
}

// CanonicalSet trims, drops empty entries, sorts and deduplicates labels.
func CanonicalSet(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	sort.Strings(out)
	n := 0
	for i, it := range out {
		if i > 0 && it == out[n-1] {
			continue
		}
		out[n] = it
		n++
	}
	if n == 0 {
		return nil
	}
	return out[:n]
}
