package scheduler

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/arnavshah/room-scheduler-api/pkg/models"
)

var ErrInvalidSession = errors.New("invalid session")

// ResidualReason explains why a session was left unplaced
type ResidualReason string

const (
	ReasonPoolExhausted ResidualReason = "pool_exhausted"
	ReasonNoFit         ResidualReason = "no_fit"
	ReasonInvalid       ResidualReason = "invalid"
)

// Residual is a session that found no placement
type Residual struct {
	Session *models.Session
	Reason  ResidualReason
}

// DayPlan is the outcome of one day: the rooms opened, in activation order,
// and the sessions to carry over.
type DayPlan struct {
	Day      int
	Rooms    []*models.Room
	Residual []Residual
}

// Pending returns the residual sessions as the next day's input.
func (d *DayPlan) Pending() []*models.Session {
	pending := make([]*models.Session, 0, len(d.Residual))
	for _, r := range d.Residual {
		pending = append(pending, r.Session)
	}
	return pending
}

// Plan is the outcome of a multi-day run
type Plan struct {
	Days        []*DayPlan
	Unscheduled []Residual
	Diagnostics []string
}

// RoomsUsed counts room activations across all days.
func (p *Plan) RoomsUsed() int {
	n := 0
	for _, d := range p.Days {
		n += len(d.Rooms)
	}
	return n
}

// Scheduler assigns sessions to rooms on the time grid
type Scheduler struct {
	Grid   Grid
	Policy EquipmentPolicy
	logger zerolog.Logger
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithPolicy sets the equipment matching policy.
func WithPolicy(p EquipmentPolicy) Option {
	return func(s *Scheduler) { s.Policy = p }
}

// WithLogger sets the logger used for scheduling decisions.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scheduler) { s.logger = logger }
}

// NewScheduler creates a new scheduler instance
func NewScheduler(grid Grid, opts ...Option) *Scheduler {
	s := &Scheduler{
		Grid:   grid,
		Policy: EquipmentIntersect,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With().Str("component", "scheduler").Logger()
	return s
}

// ScheduleDay runs the greedy pass for one day. Sessions are tried in
// stable topic order; each goes to the first active room that accepts it,
// otherwise a room is opened from the pool. The pool is LIFO: its last
// element is tried first. Rooms must already be prepared on the grid. The
// caller's slices are not modified, but opened rooms are mutated in place.
func (s *Scheduler) ScheduleDay(day int, pending []*models.Session, pool []*models.Room) *DayPlan {
	ordered := append([]*models.Session(nil), pending...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Topic < ordered[j].Topic
	})
	pool = append([]*models.Room(nil), pool...)

	plan := &DayPlan{Day: day}
	for _, session := range ordered {
		slots := s.Grid.SlotsNeeded(session.Duration)

		if s.tryActive(session, slots, plan.Rooms) {
			continue
		}

		if len(pool) == 0 {
			s.logger.Debug().Int("day", day).Str("session_id", session.ID).Msg("room pool exhausted")
			plan.Residual = append(plan.Residual, Residual{Session: session, Reason: ReasonPoolExhausted})
			continue
		}

		idx := s.openRoom(session, slots, pool, plan.Rooms)
		if idx < 0 {
			s.logger.Debug().Int("day", day).Str("session_id", session.ID).Msg("no pool room fits session")
			plan.Residual = append(plan.Residual, Residual{Session: session, Reason: ReasonNoFit})
			continue
		}

		room := pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)
		plan.Rooms = append(plan.Rooms, room)
		s.logger.Debug().
			Int("day", day).
			Str("room_id", room.ID).
			Str("session_id", session.ID).
			Str("format", room.Format).
			Strs("equipment", room.Equipment).
			Msg("room opened")
	}
	return plan
}

// tryActive offers the session to each active room in activation order and
// stops at the first one that takes it.
func (s *Scheduler) tryActive(session *models.Session, slots int, active []*models.Room) bool {
	for _, room := range active {
		if !Compatible(session, room, s.Policy) {
			continue
		}
		if s.Assign(session, room, slots, active) {
			return true
		}
	}
	return false
}

// openRoom walks the pool from the top, configures each room for the
// session and keeps the first that accepts it. Rooms that do not are reset
// to an empty profile. It returns the pool index of the opened room or -1.
// Unlike a single pop, a room that cannot take the session does not end the
// attempt; the next room down the pool is tried.
func (s *Scheduler) openRoom(session *models.Session, slots int, pool, active []*models.Room) int {
	for i := len(pool) - 1; i >= 0; i-- {
		room := pool[i]
		room.Active = true
		room.Format = session.Format
		room.Equipment = append([]string(nil), session.Equipment...)

		if Compatible(session, room, s.Policy) && s.Assign(session, room, slots, active) {
			return i
		}

		room.Active = false
		room.Format = ""
		room.Equipment = nil
	}
	return -1
}

// Plan schedules sessions over up to days days. Every day gets a fresh,
// prepared copy of rooms; sessions left over from one day are the only input
// of the next. Rooms with malformed bounds are reported once in the
// diagnostics and left out of every pool. Invalid sessions are reported as
// unscheduled without being attempted.
func (s *Scheduler) Plan(sessions []models.Session, rooms []models.Room, days int) (*Plan, error) {
	if err := s.Grid.Validate(); err != nil {
		return nil, err
	}
	if days < 1 {
		return nil, fmt.Errorf("days must be at least 1, got %d", days)
	}

	plan := &Plan{}

	registry := make([]models.Session, len(sessions))
	pending := make([]*models.Session, 0, len(sessions))
	for i := range sessions {
		registry[i] = sessions[i].Canonical()
		if err := validateSession(&registry[i]); err != nil {
			plan.Unscheduled = append(plan.Unscheduled, Residual{Session: &registry[i], Reason: ReasonInvalid})
			plan.Diagnostics = append(plan.Diagnostics, err.Error())
			continue
		}
		pending = append(pending, &registry[i])
	}

	templates := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		prepared := room.Clone()
		if err := s.Grid.Prepare(&prepared); err != nil {
			s.logger.Warn().Err(err).Str("room_id", room.ID).Msg("room left out of the pool")
			plan.Diagnostics = append(plan.Diagnostics, err.Error())
			continue
		}
		templates = append(templates, room)
	}

	var last []Residual
	for day := 0; day < days && len(pending) > 0; day++ {
		dayPlan := s.ScheduleDay(day, pending, s.freshPool(templates))
		plan.Days = append(plan.Days, dayPlan)
		last = dayPlan.Residual
		pending = dayPlan.Pending()

		s.logger.Info().
			Int("day", day).
			Int("rooms_opened", len(dayPlan.Rooms)).
			Int("carried_over", len(pending)).
			Msg("day scheduled")
	}

	for _, r := range last {
		plan.Diagnostics = append(plan.Diagnostics,
			fmt.Sprintf("session %s unscheduled after %d day(s): %s", r.Session.ID, len(plan.Days), r.Reason))
	}
	plan.Unscheduled = append(plan.Unscheduled, last...)
	return plan, nil
}

func (s *Scheduler) freshPool(templates []models.Room) []*models.Room {
	pool := make([]*models.Room, 0, len(templates))
	for _, tmpl := range templates {
		room := tmpl.Clone()
		// bounds were checked when the templates were built
		_ = s.Grid.Prepare(&room)
		pool = append(pool, &room)
	}
	return pool
}

func validateSession(s *models.Session) error {
	switch {
	case s.ID == "":
		return fmt.Errorf("%w: missing id (title %q)", ErrInvalidSession, s.Title)
	case s.Duration <= 0:
		return fmt.Errorf("%w: session %s has non-positive duration %d", ErrInvalidSession, s.ID, s.Duration)
	case s.EstimatedCapacity < 0:
		return fmt.Errorf("%w: session %s has negative capacity %d", ErrInvalidSession, s.ID, s.EstimatedCapacity)
	}
	return nil
}
