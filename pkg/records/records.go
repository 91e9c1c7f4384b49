// Package records reads rooms and sessions from CSV files and YAML
// planning bundles.
package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arnavshah/room-scheduler-api/pkg/models"
)

var ErrMalformedRecord = errors.New("malformed record")

// ListSeparator splits multi-valued CSV cells such as equipment and speakers.
const ListSeparator = "|"

var (
	roomColumns    = []string{"id", "max_capacity", "open_at", "close_at"}
	sessionColumns = []string{"id", "duration"}
)

// RowError locates a malformed record by its 1-based input line; the
// header is line 1.
type RowError struct {
	Row    int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d, column %s: %v", e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ParseRooms reads rooms from CSV with a header naming the columns
// id, name, max_capacity, open_at and close_at. Times are "HH:MM" or a
// whole hour.
func ParseRooms(r io.Reader) ([]models.Room, error) {
	var rooms []models.Room
	err := readTable(r, roomColumns, func(rec *row) error {
		room := models.Room{
			ID:   rec.str("id"),
			Name: rec.str("name"),
		}
		var err error
		if room.MaxCapacity, err = rec.integer("max_capacity"); err != nil {
			return err
		}
		if room.OpenAt, err = rec.clock("open_at"); err != nil {
			return err
		}
		if room.CloseAt, err = rec.clock("close_at"); err != nil {
			return err
		}
		if room.ID == "" {
			return rec.fail("id", errors.New("missing id"))
		}
		rooms = append(rooms, room)
		return nil
	})
	return rooms, err
}

// ParseSessions reads sessions from CSV with a header naming the columns
// id, title, duration, estimated_capacity, format, topic, equipment and
// speakers. Equipment and speakers are separated by ListSeparator.
func ParseSessions(r io.Reader) ([]models.Session, error) {
	var sessions []models.Session
	err := readTable(r, sessionColumns, func(rec *row) error {
		s := models.Session{
			ID:        rec.str("id"),
			Title:     rec.str("title"),
			Format:    rec.str("format"),
			Topic:     rec.str("topic"),
			Equipment: rec.list("equipment"),
			Speakers:  rec.list("speakers"),
		}
		var err error
		if s.Duration, err = rec.integer("duration"); err != nil {
			return err
		}
		if s.EstimatedCapacity, err = rec.optionalInteger("estimated_capacity"); err != nil {
			return err
		}
		if s.ID == "" {
			return rec.fail("id", errors.New("missing id"))
		}
		sessions = append(sessions, s)
		return nil
	})
	return sessions, err
}

// DecodeBundle reads a YAML planning bundle with days, equipment_policy,
// rooms and sessions.
func DecodeBundle(r io.Reader) (models.ScheduleInput, error) {
	var input models.ScheduleInput
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&input); err != nil {
		if errors.Is(err, io.EOF) {
			return input, fmt.Errorf("%w: empty bundle", ErrMalformedRecord)
		}
		return input, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return input, nil
}

// EncodeBundle writes input as a YAML planning bundle.
func EncodeBundle(w io.Writer, input models.ScheduleInput) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(input); err != nil {
		return err
	}
	return enc.Close()
}

type row struct {
	number int
	cols   map[string]int
	record []string
}

func (r *row) str(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r *row) integer(name string) (int, error) {
	v := r.str(name)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, r.fail(name, fmt.Errorf("%q is not an integer", v))
	}
	return n, nil
}

func (r *row) optionalInteger(name string) (int, error) {
	if r.str(name) == "" {
		return 0, nil
	}
	return r.integer(name)
}

func (r *row) clock(name string) (models.ClockTime, error) {
	c, err := models.ParseClock(r.str(name))
	if err != nil {
		return 0, r.fail(name, err)
	}
	return c, nil
}

func (r *row) list(name string) []string {
	v := r.str(name)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ListSeparator) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (r *row) fail(column string, err error) error {
	return &RowError{Row: r.number, Column: column, Err: fmt.Errorf("%w: %v", ErrMalformedRecord, err)}
}

func readTable(r io.Reader, required []string, each func(*row) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return &RowError{Row: 1, Err: fmt.Errorf("%w: missing header", ErrMalformedRecord)}
	}
	if err != nil {
		return &RowError{Row: 1, Err: fmt.Errorf("%w: %v", ErrMalformedRecord, err)}
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return &RowError{Row: 1, Column: name, Err: fmt.Errorf("%w: missing column", ErrMalformedRecord)}
		}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return &RowError{Row: perr.StartLine, Err: fmt.Errorf("%w: %v", ErrMalformedRecord, perr.Err)}
			}
			return err
		}
		if blank(record) {
			continue
		}
		line, _ := reader.FieldPos(0)
		if err := each(&row{number: line, cols: cols, record: record}); err != nil {
			return err
		}
	}
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
