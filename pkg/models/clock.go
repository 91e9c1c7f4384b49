package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ClockTime is a wall-clock time of day in minutes after midnight.
//
// It decodes from "HH:MM" strings or from a bare integer, which is read as
// a whole hour ("8" and 8 both mean 08:00).
type ClockTime int

var ErrInvalidClock = errors.New("invalid clock time")

// Clock builds a ClockTime from an hour and minute.
func Clock(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// ParseClock parses "HH:MM" or a whole hour.
func ParseClock(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidClock)
	}

	hourPart, minutePart, hasMinutes := strings.Cut(s, ":")
	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	minute := 0
	if hasMinutes {
		if minute, err = strconv.Atoi(minutePart); err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
	}
	if hour < 0 || hour > 24 || minute < 0 || minute > 59 || (hour == 24 && minute > 0) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidClock, s)
	}
	return Clock(hour, minute), nil
}

func (c ClockTime) Hour() int   { return int(c) / 60 }
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var hour int
	if err := json.Unmarshal(data, &hour); err == nil {
		return c.set(strconv.Itoa(hour))
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidClock, string(data))
	}
	return c.set(s)
}

func (c ClockTime) MarshalYAML() (any, error) {
	return c.String(), nil
}

func (c *ClockTime) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d is not a scalar", ErrInvalidClock, value.Line)
	}
	return c.set(value.Value)
}

func (c *ClockTime) set(s string) error {
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
