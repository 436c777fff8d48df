package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SyncRun struct {
	ID          string        `json:"id" gorm:"type:varchar(36);primaryKey"`
	Kind        SyncKind      `json:"kind" gorm:"not null"`
	Status      SyncRunStatus `json:"status" gorm:"default:RUNNING"`
	Offset      int           `json:"offset"`
	Received    int           `json:"received"`
	Created     int           `json:"created"`
	Updated     int           `json:"updated"`
	Drafted     int           `json:"drafted"`
	Skipped     int           `json:"skipped"`
	Failed      int           `json:"failed"`
	Message     string        `json:"message,omitempty"`
	StartedAt   time.Time     `json:"started_at" gorm:"index"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type SyncKind string

const (
	SyncKindSync   SyncKind = "SYNC"
	SyncKindImport SyncKind = "IMPORT"
)

type SyncRunStatus string

const (
	SyncRunStatusRunning   SyncRunStatus = "RUNNING"
	SyncRunStatusCompleted SyncRunStatus = "COMPLETED"
	SyncRunStatusSkipped   SyncRunStatus = "SKIPPED"
	SyncRunStatusFailed    SyncRunStatus = "FAILED"
)

func (r *SyncRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
