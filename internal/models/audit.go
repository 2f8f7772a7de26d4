package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions recorded by the sink.
const (
	AuditActionCreate = "CREATE"
	AuditActionUpdate = "UPDATE"
	AuditActionDelete = "DELETE"
	AuditActionLogin  = "LOGIN"
	AuditActionLogout = "LOGOUT"
)

// AuditLog is an append-only record of a mutating action. Rows are never
// updated or removed by the application.
type AuditLog struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	ActorID   uint              `gorm:"not null;index" json:"actor_id"`
	Action    string            `gorm:"size:16;not null" json:"action"`
	TableName string            `gorm:"size:64;not null;index" json:"table_name"`
	RecordID  uint              `gorm:"not null" json:"record_id"`
	OldValue  datatypes.JSONMap `gorm:"type:json" json:"old_value"`
	NewValue  datatypes.JSONMap `gorm:"type:json" json:"new_value"`
	IPAddress string            `gorm:"size:45" json:"ip_address"`
	CreatedAt time.Time         `json:"created_at"`
}
