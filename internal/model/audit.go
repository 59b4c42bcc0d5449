package model

import "time"

const (
	SyncOutcomeRemote   = "remote"
	SyncOutcomeFallback = "fallback"
)

// SyncAudit records one attempted sync operation and whether it was
// served by the upstream service or recovered from the local cache.
// This is the console's own data, kept in postgres.
type SyncAudit struct {
	ID        int       `json:"id" gorm:"primaryKey"`
	Kind      string    `json:"kind" gorm:"type:varchar(50);not null"`    // locations, zones, ...
	Op        string    `json:"op" gorm:"type:varchar(20);not null"`      // list, create, update, delete
	RecordID  int64     `json:"record_id" gorm:"column:record_id"`
	Outcome   string    `json:"outcome" gorm:"type:varchar(20);not null"` // remote, fallback
	ErrorMsg  string    `json:"error_msg,omitempty" gorm:"column:error_msg;type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:now()"`
}

func (SyncAudit) TableName() string {
	return "sync_audits"
}
