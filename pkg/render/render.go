// Package render presents finished plans as a text grid, a CSV export or
// an API response.
package render

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arnavshah/room-scheduler-api/pkg/models"
	"github.com/arnavshah/room-scheduler-api/pkg/scheduler"
)

// CSVHeader is the first row written by CSV.
var CSVHeader = []string{"session_id", "title", "format", "topic", "estimated_capacity", "start", "end", "room_id", "day"}

// Cell glyphs used by Text.
const (
	GlyphEmpty  = "_"
	GlyphBuffer = "b"
	GlyphClosed = "."
)

// Text writes every opened room of every day as one line of cells, grouped
// per hour with "|". Session cells show the session id.
func Text(w io.Writer, g scheduler.Grid, plan *scheduler.Plan) error {
	bw := bufio.NewWriter(w)
	perHour := g.SlotsPerHour()

	for _, day := range plan.Days {
		fmt.Fprintf(bw, "Day %d\n", day.Day+1)
		for _, room := range day.Rooms {
			fmt.Fprintf(bw, "Room %s opens at %s (%s, %s):\n",
				room.ID, room.OpenAt, strings.Join(room.Equipment, " "), room.Format)
			for i, cell := range room.Schedule {
				if i%perHour == 0 {
					bw.WriteString("|  ")
				}
				bw.WriteString(glyph(cell))
				bw.WriteString("  ")
			}
			bw.WriteString("\n")
		}
		bw.WriteString("\n")
	}

	if len(plan.Unscheduled) > 0 {
		bw.WriteString("Unscheduled:\n")
		for _, r := range plan.Unscheduled {
			fmt.Fprintf(bw, "  %s (%s)\n", r.Session.ID, r.Reason)
		}
	}
	return bw.Flush()
}

func glyph(c models.Cell) string {
	switch c.Kind {
	case models.CellSession:
		return c.Session.ID
	case models.CellBuffer:
		return GlyphBuffer
	case models.CellClosed:
		return GlyphClosed
	default:
		return GlyphEmpty
	}
}

// CSV writes one row per placement.
func CSV(w io.Writer, g scheduler.Grid, plan *scheduler.Plan) error {
	return WritePlacements(w, plan.Placements(g))
}

// WritePlacements writes placements in the CSV export format.
func WritePlacements(w io.Writer, placements []models.Placement) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return err
	}
	for _, p := range placements {
		if err := writer.Write([]string{
			p.SessionID,
			p.Title,
			p.Format,
			p.Topic,
			strconv.Itoa(p.EstimatedCapacity),
			p.Start.String(),
			p.End.String(),
			p.RoomID,
			strconv.Itoa(p.Day + 1),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
