package records

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/room-scheduler-api/pkg/models"
)

func TestParseRooms(t *testing.T) {
	in := "id,name,max_capacity,open_at,close_at\n" +
		"r1,Main Hall,120,08:00,17:30\n" +
		"r2,,20,9,12\n"

	rooms, err := ParseRooms(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []models.Room{
		{ID: "r1", Name: "Main Hall", MaxCapacity: 120, OpenAt: models.Clock(8, 0), CloseAt: models.Clock(17, 30)},
		{ID: "r2", MaxCapacity: 20, OpenAt: models.Clock(9, 0), CloseAt: models.Clock(12, 0)},
	}, rooms)
}

func TestParseRoomsColumnOrderFollowsHeader(t *testing.T) {
	in := "close_at,open_at,id,max_capacity\n" +
		"12:00,08:00,r1,10\n"

	rooms, err := ParseRooms(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, models.Clock(8, 0), rooms[0].OpenAt)
	assert.Equal(t, models.Clock(12, 0), rooms[0].CloseAt)
}

func TestParseSessions(t *testing.T) {
	in := "id,title,duration,estimated_capacity,format,topic,equipment,speakers\n" +
		"s1,Opening,90,40,Panel,AI,Projector|Wifi,ada| bob\n" +
		"\n" +
		"s2,Breakout,30,,Roundtable,,,\n"

	sessions, err := ParseSessions(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []models.Session{
		{ID: "s1", Title: "Opening", Duration: 90, EstimatedCapacity: 40, Format: "Panel", Topic: "AI",
			Equipment: []string{"Projector", "Wifi"}, Speakers: []string{"ada", "bob"}},
		{ID: "s2", Title: "Breakout", Duration: 30, Format: "Roundtable"},
	}, sessions)
}

func TestParseErrorsCarryRow(t *testing.T) {
	tests := []struct {
		name   string
		parse  func(string) error
		in     string
		row    int
		column string
	}{
		{
			name:   "bad capacity",
			parse:  func(s string) error { _, err := ParseRooms(strings.NewReader(s)); return err },
			in:     "id,max_capacity,open_at,close_at\nr1,10,8,12\nr2,many,8,12\n",
			row:    3,
			column: "max_capacity",
		},
		{
			name:   "bad clock",
			parse:  func(s string) error { _, err := ParseRooms(strings.NewReader(s)); return err },
			in:     "id,max_capacity,open_at,close_at\nr1,10,8:75,12\n",
			row:    2,
			column: "open_at",
		},
		{
			name:   "missing column",
			parse:  func(s string) error { _, err := ParseRooms(strings.NewReader(s)); return err },
			in:     "id,max_capacity,open_at\nr1,10,8\n",
			row:    1,
			column: "close_at",
		},
		{
			name:   "bad duration",
			parse:  func(s string) error { _, err := ParseSessions(strings.NewReader(s)); return err },
			in:     "id,duration\ns1,60\ns2,\n",
			row:    3,
			column: "duration",
		},
		{
			name:   "missing id",
			parse:  func(s string) error { _, err := ParseSessions(strings.NewReader(s)); return err },
			in:     "id,duration\n,60\n",
			row:    2,
			column: "id",
		},
		{
			name:  "empty input",
			parse: func(s string) error { _, err := ParseSessions(strings.NewReader(s)); return err },
			in:    "",
			row:   1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.parse(tc.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedRecord)

			var rowErr *RowError
			require.ErrorAs(t, err, &rowErr)
			assert.Equal(t, tc.row, rowErr.Row)
			assert.Equal(t, tc.column, rowErr.Column)
		})
	}
}

const bundle = `days: 2
equipment_policy: subset
rooms:
  - id: r1
    max_capacity: 50
    open_at: "08:00"
    close_at: 12
sessions:
  - id: s1
    title: Keynote
    duration: 60
    estimated_capacity: 40
    format: Panel
    topic: AI
    equipment: [Projector]
    speakers: [ada]
`

func TestDecodeBundle(t *testing.T) {
	input, err := DecodeBundle(strings.NewReader(bundle))
	require.NoError(t, err)

	assert.Equal(t, 2, input.Days)
	assert.Equal(t, "subset", input.EquipmentPolicy)
	require.Len(t, input.Rooms, 1)
	assert.Equal(t, models.Clock(8, 0), input.Rooms[0].OpenAt)
	assert.Equal(t, models.Clock(12, 0), input.Rooms[0].CloseAt)
	require.Len(t, input.Sessions, 1)
	assert.Equal(t, []string{"Projector"}, input.Sessions[0].Equipment)
}

func TestDecodeBundleRejectsUnknownFields(t *testing.T) {
	_, err := DecodeBundle(strings.NewReader("days: 1\nrooms: []\nvenue: x\n"))
	assert.ErrorIs(t, err, ErrMalformedRecord)

	_, err = DecodeBundle(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestEncodeBundleRoundTrip(t *testing.T) {
	input, err := DecodeBundle(strings.NewReader(bundle))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeBundle(&buf, input))
	assert.Contains(t, buf.String(), `open_at: "08:00"`)

	again, err := DecodeBundle(&buf)
	require.NoError(t, err)
	assert.Equal(t, input, again)
}
