package dto

import (
	"time"

	"github.com/campushub/campushub-api/internal/models"
)

// AuditListRequest filters the audit trail listing.
type AuditListRequest struct {
	Action    string
	TableName string
}

// AuditEntryResponse serializes one audit trail record.
type AuditEntryResponse struct {
	ID        uint                   `json:"id"`
	ActorID   uint                   `json:"actor_id"`
	Action    string                 `json:"action"`
	TableName string                 `json:"table_name"`
	RecordID  uint                   `json:"record_id"`
	OldValue  map[string]interface{} `json:"old_value"`
	NewValue  map[string]interface{} `json:"new_value"`
	IPAddress string                 `json:"ip_address"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewAuditEntryResponse converts an audit log model into its response shape.
func NewAuditEntryResponse(entry models.AuditLog) AuditEntryResponse {
	return AuditEntryResponse{
		ID:        entry.ID,
		ActorID:   entry.ActorID,
		Action:    entry.Action,
		TableName: entry.TableName,
		RecordID:  entry.RecordID,
		OldValue:  entry.OldValue,
		NewValue:  entry.NewValue,
		IPAddress: entry.IPAddress,
		CreatedAt: entry.CreatedAt,
	}
}

// NewAuditEntryResponseSlice converts a list of audit log models.
func NewAuditEntryResponseSlice(entries []models.AuditLog) []AuditEntryResponse {
	responses := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewAuditEntryResponse(entry))
	}
	return responses
}
