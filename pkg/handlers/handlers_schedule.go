package handlers

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/arnavshah/room-scheduler-api/pkg/database"
	"github.com/arnavshah/room-scheduler-api/pkg/models"
	"github.com/arnavshah/room-scheduler-api/pkg/records"
	"github.com/arnavshah/room-scheduler-api/pkg/render"
	"github.com/arnavshah/room-scheduler-api/pkg/scheduler"
)

// ScheduleJSON handles the JSON-based scheduling request
func (h *Handler) ScheduleJSON(c *gin.Context) {
	var input models.ScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, ok := h.runSchedule(c, input)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, render.Response(res.grid, res.plan, res.runID))
}

// ScheduleYAML handles a YAML planning bundle as the request body
func (h *Handler) ScheduleYAML(c *gin.Context) {
	input, err := records.DecodeBundle(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, ok := h.runSchedule(c, input)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, render.Response(res.grid, res.plan, res.runID))
}

// ScheduleCSV handles CSV file uploads for scheduling and answers with the
// CSV export of the placements.
func (h *Handler) ScheduleCSV(c *gin.Context) {
	roomsFile, _ := c.FormFile("rooms_file")
	sessionsFile, _ := c.FormFile("sessions_file")
	if roomsFile == nil || sessionsFile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rooms_file and sessions_file are required"})
		return
	}

	var input models.ScheduleInput
	var err error
	if input.Rooms, err = parseUpload(roomsFile, records.ParseRooms); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rooms_file: " + err.Error()})
		return
	}
	if input.Sessions, err = parseUpload(sessionsFile, records.ParseSessions); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessions_file: " + err.Error()})
		return
	}
	if days := c.PostForm("days"); days != "" {
		if input.Days, err = strconv.Atoi(days); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
			return
		}
	}
	input.EquipmentPolicy = c.PostForm("equipment_policy")

	res, ok := h.runSchedule(c, input)
	if !ok {
		return
	}

	var out bytes.Buffer
	if err := render.CSV(&out, res.grid, res.plan); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not write CSV"})
		return
	}
	resp := render.Response(res.grid, res.plan, res.runID)
	c.JSON(http.StatusOK, gin.H{
		"run_id":      res.runID,
		"rooms_used":  resp.RoomsUsed,
		"unscheduled": resp.Unscheduled,
		"csv":         out.String(),
	})
}

func parseUpload[T any](fh *multipart.FileHeader, parse func(r io.Reader) ([]T, error)) ([]T, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(f)
}

type scheduleResult struct {
	grid  scheduler.Grid
	plan  *scheduler.Plan
	runID string
}

// runSchedule plans the input, then records the run, the key's usage and
// the metrics. It writes the error response itself and reports false when
// the request cannot be served.
func (h *Handler) runSchedule(c *gin.Context, input models.ScheduleInput) (scheduleResult, bool) {
	days := input.Days
	if days == 0 {
		days = 1
	}
	if days < 1 || days > h.Config.MaxDays {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("days must be between 1 and %d", h.Config.MaxDays)})
		return scheduleResult{}, false
	}

	policy := h.Config.EquipmentPolicy
	if input.EquipmentPolicy != "" {
		var err error
		if policy, err = scheduler.ParseEquipmentPolicy(input.EquipmentPolicy); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return scheduleResult{}, false
		}
	}

	runID := uuid.NewString()
	grid := h.Config.Grid()
	s := scheduler.NewScheduler(grid,
		scheduler.WithPolicy(policy),
		scheduler.WithLogger(h.base.With().Str("run_id", runID).Logger()))

	start := time.Now()
	plan, err := s.Plan(input.Sessions, input.Rooms, days)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return scheduleResult{}, false
	}
	h.Metrics.ObserveRun(grid, plan, time.Since(start))

	var keyID uint
	if apiKey, ok := currentKey(c); ok {
		keyID = apiKey.ID
		if err := database.RecordUsage(h.DB, keyID, len(input.Sessions), len(input.Rooms), h.now()); err != nil {
			h.Logger.Error().Err(err).Uint("key_id", keyID).Msg("could not record usage")
		}
	}

	run := database.NewScheduleRun(runID, keyID, grid, policy, days, len(input.Sessions), len(input.Rooms), plan)
	if err := database.SaveRun(h.DB, run); err != nil {
		h.Logger.Error().Err(err).Str("run_id", runID).Msg("could not save run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not save schedule run"})
		return scheduleResult{}, false
	}

	h.Logger.Info().
		Str("run_id", runID).
		Int("sessions", len(input.Sessions)).
		Int("rooms", len(input.Rooms)).
		Int("rooms_used", run.RoomsUsed).
		Int("unscheduled", run.Unscheduled).
		Msg("schedule run finished")

	return scheduleResult{grid: grid, plan: plan, runID: runID}, true
}

// GetRun returns a stored run of the calling key
func (h *Handler) GetRun(c *gin.Context) {
	run, ok := h.loadRun(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, run)
}

// GetRunCSV returns the placements of a stored run as a CSV file
func (h *Handler) GetRunCSV(c *gin.Context) {
	run, ok := h.loadRun(c)
	if !ok {
		return
	}

	var out bytes.Buffer
	if err := render.WritePlacements(&out, run.ToPlacements()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not write CSV"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="schedule-%s.csv"`, run.ID))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", out.Bytes())
}

func (h *Handler) loadRun(c *gin.Context) (*database.ScheduleRun, bool) {
	apiKey, ok := currentKey(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API Key context missing"})
		return nil, false
	}

	run, err := database.LoadRun(h.DB, c.Param("id"), apiKey.ID)
	if err != nil {
		if database.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load run"})
		}
		return nil, false
	}
	return run, true
}
