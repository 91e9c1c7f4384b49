package database

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arnavshah/room-scheduler-api/pkg/models"
	"github.com/arnavshah/room-scheduler-api/pkg/scheduler"
)

// ScheduleRun represents the schedule_runs table: one finished plan
type ScheduleRun struct {
	ID              string         `gorm:"primaryKey;size:36" json:"id"`
	KeyID           uint           `gorm:"index" json:"key_id"`
	Days            int            `json:"days"`
	EquipmentPolicy string         `json:"equipment_policy"`
	SessionCount    int            `json:"session_count"`
	RoomCount       int            `json:"room_count"`
	RoomsUsed       int            `json:"rooms_used"`
	Placed          int            `json:"placed"`
	Unscheduled     int            `json:"unscheduled"`
	CreatedAt       time.Time      `json:"created_at"`
	Placements      []RunPlacement `gorm:"constraint:OnDelete:CASCADE" json:"placements"`
	Residuals       []RunResidual  `gorm:"constraint:OnDelete:CASCADE" json:"residuals"`
}

// RunPlacement represents the run_placements table
type RunPlacement struct {
	ID                uint   `gorm:"primaryKey" json:"-"`
	ScheduleRunID     string `gorm:"index;size:36;not null" json:"-"`
	Day               int    `json:"day"`
	RoomID            string `json:"room_id"`
	SessionID         string `json:"session_id"`
	Title             string `json:"title"`
	Format            string `json:"format"`
	Topic             string `json:"topic"`
	EstimatedCapacity int    `json:"estimated_capacity"`
	StartSlot         int    `json:"start_slot"`
	EndSlot           int    `json:"end_slot"`
	StartMinute       int    `json:"start_minute"`
	EndMinute         int    `json:"end_minute"`
}

// RunResidual represents the run_residuals table
type RunResidual struct {
	ID            uint   `gorm:"primaryKey" json:"-"`
	ScheduleRunID string `gorm:"index;size:36;not null" json:"-"`
	SessionID     string `json:"session_id"`
	Title         string `json:"title"`
	Reason        string `json:"reason"`
}

// NewScheduleRun flattens a finished plan into a storable run.
func NewScheduleRun(id string, keyID uint, g scheduler.Grid, policy scheduler.EquipmentPolicy, days, sessions, rooms int, plan *scheduler.Plan) *ScheduleRun {
	run := &ScheduleRun{
		ID:              id,
		KeyID:           keyID,
		Days:            days,
		EquipmentPolicy: string(policy),
		SessionCount:    sessions,
		RoomCount:       rooms,
		RoomsUsed:       plan.RoomsUsed(),
		Unscheduled:     len(plan.Unscheduled),
	}
	for _, p := range plan.Placements(g) {
		run.Placements = append(run.Placements, RunPlacement{
			Day:               p.Day,
			RoomID:            p.RoomID,
			SessionID:         p.SessionID,
			Title:             p.Title,
			Format:            p.Format,
			Topic:             p.Topic,
			EstimatedCapacity: p.EstimatedCapacity,
			StartSlot:         p.StartSlot,
			EndSlot:           p.EndSlot,
			StartMinute:       int(p.Start),
			EndMinute:         int(p.End),
		})
	}
	run.Placed = len(run.Placements)
	for _, r := range plan.Unscheduled {
		run.Residuals = append(run.Residuals, RunResidual{
			SessionID: r.Session.ID,
			Title:     r.Session.Title,
			Reason:    string(r.Reason),
		})
	}
	return run
}

// ToPlacements converts stored rows back into placements.
func (r *ScheduleRun) ToPlacements() []models.Placement {
	out := make([]models.Placement, 0, len(r.Placements))
	for _, p := range r.Placements {
		out = append(out, models.Placement{
			Day:               p.Day,
			RoomID:            p.RoomID,
			SessionID:         p.SessionID,
			Title:             p.Title,
			Format:            p.Format,
			Topic:             p.Topic,
			EstimatedCapacity: p.EstimatedCapacity,
			StartSlot:         p.StartSlot,
			EndSlot:           p.EndSlot,
			Start:             models.ClockTime(p.StartMinute),
			End:               models.ClockTime(p.EndMinute),
		})
	}
	return out
}

// SaveRun stores a run with its placements and residuals in one transaction.
func SaveRun(db *gorm.DB, run *ScheduleRun) error {
	return db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(run).Error
	})
}

// LoadRun fetches a run with its rows. When keyID is non-zero the run must
// belong to that key.
func LoadRun(db *gorm.DB, id string, keyID uint) (*ScheduleRun, error) {
	var run ScheduleRun
	q := db.Preload("Placements", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).Preload("Residuals", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	}).Where("id = ?", id)
	if keyID != 0 {
		q = q.Where("key_id = ?", keyID)
	}
	if err := q.First(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

// RecordUsage adds one request and its workload to today's usage row for
// the key, using a single-query upsert.
func RecordUsage(db *gorm.DB, keyID uint, sessions, rooms int, now time.Time) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":  gorm.Expr("request_count + ?", 1),
			"total_sessions": gorm.Expr("total_sessions + ?", sessions),
			"total_rooms":    gorm.Expr("total_rooms + ?", rooms),
		}),
	}).Create(&APIUsage{
		KeyID:         keyID,
		Date:          now.Format("2006-01-02"),
		RequestCount:  1,
		TotalSessions: sessions,
		TotalRooms:    rooms,
	}).Error
}

// UsageHistory returns the last 30 usage rows of a key, newest first.
func UsageHistory(db *gorm.DB, keyID uint) ([]APIUsage, error) {
	var usage []APIUsage
	err := db.Where("key_id = ?", keyID).Order("date desc").Limit(30).Find(&usage).Error
	return usage, err
}
