package database

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/arnavshah/room-scheduler-api/pkg/config"
	"github.com/arnavshah/room-scheduler-api/pkg/models"
	"github.com/arnavshah/room-scheduler-api/pkg/scheduler"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(&config.Config{DataPath: ":memory:"}, zerolog.Nop())
	require.NoError(t, err)
	return db
}

func testPlan(t *testing.T) (scheduler.Grid, *scheduler.Plan) {
	t.Helper()
	s := scheduler.NewScheduler(scheduler.DefaultGrid())
	plan, err := s.Plan(
		[]models.Session{
			{ID: "s1", Title: "Keynote", Duration: 60, Format: "Panel", Topic: "a"},
			{ID: "s2", Title: "Q&A", Duration: 30, Format: "Panel", Topic: "b"},
			{ID: "s3", Title: "Lab", Duration: 30, Format: "Workshop", Topic: "c"},
		},
		[]models.Room{{ID: "r1", MaxCapacity: 50, OpenAt: models.Clock(8, 0), CloseAt: models.Clock(12, 0)}},
		1,
	)
	require.NoError(t, err)
	return s.Grid, plan
}

func TestSaveAndLoadRun(t *testing.T) {
	db := openTestDB(t)
	g, plan := testPlan(t)

	run := NewScheduleRun("run-1", 7, g, scheduler.EquipmentIntersect, 1, 3, 1, plan)
	assert.Equal(t, 2, run.Placed)
	assert.Equal(t, 1, run.Unscheduled)
	require.NoError(t, SaveRun(db, run))

	loaded, err := LoadRun(db, "run-1", 7)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.RoomsUsed)
	assert.Equal(t, "intersect", loaded.EquipmentPolicy)
	assert.Equal(t, plan.Placements(g), loaded.ToPlacements())
	require.Len(t, loaded.Residuals, 1)
	assert.Equal(t, "s3", loaded.Residuals[0].SessionID)
	assert.Equal(t, "pool_exhausted", loaded.Residuals[0].Reason)
}

func TestLoadRunScopedToKey(t *testing.T) {
	db := openTestDB(t)
	g, plan := testPlan(t)
	require.NoError(t, SaveRun(db, NewScheduleRun("run-1", 7, g, scheduler.EquipmentIntersect, 1, 3, 1, plan)))

	_, err := LoadRun(db, "run-1", 8)
	assert.True(t, IsNotFound(err))

	_, err = LoadRun(db, "missing", 0)
	assert.True(t, IsNotFound(err))

	_, err = LoadRun(db, "run-1", 0)
	assert.NoError(t, err)
}

func TestRecordUsageUpserts(t *testing.T) {
	db := openTestDB(t)
	day := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	require.NoError(t, RecordUsage(db, 1, 10, 2, day))
	require.NoError(t, RecordUsage(db, 1, 5, 3, day.Add(time.Hour)))
	require.NoError(t, RecordUsage(db, 1, 1, 1, day.AddDate(0, 0, 1)))
	require.NoError(t, RecordUsage(db, 2, 4, 4, day))

	usage, err := UsageHistory(db, 1)
	require.NoError(t, err)
	require.Len(t, usage, 2)

	assert.Equal(t, "2026-03-15", usage[0].Date)
	assert.Equal(t, "2026-03-14", usage[1].Date)
	assert.Equal(t, 2, usage[1].RequestCount)
	assert.Equal(t, 15, usage[1].TotalSessions)
	assert.Equal(t, 5, usage[1].TotalRooms)
}
