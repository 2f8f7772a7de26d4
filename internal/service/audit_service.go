package service

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/repository"
)

// AuditEntry captures the details of one mutating action.
type AuditEntry struct {
	ActorID   uint
	Action    string
	TableName string
	RecordID  uint
	OldValue  map[string]interface{}
	NewValue  map[string]interface{}
	IPAddress string
}

// AuditRecorder appends entries to the audit trail. Record is best-effort:
// a failing sink must never fail the business operation that triggered it.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry)
}

// AuditService exposes the audit trail to admin readers on top of the
// recorder contract.
type AuditService interface {
	AuditRecorder
	List(ctx context.Context, req dto.AuditListRequest) ([]dto.AuditEntryResponse, error)
}

type auditService struct {
	repo   repository.AuditLogRepository
	logger zerolog.Logger
}

// NewAuditService constructs the audit trail service.
func NewAuditService(repo repository.AuditLogRepository, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger.With().Str("component", "audit_service").Logger(),
	}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) {
	model := models.AuditLog{
		ActorID:   entry.ActorID,
		Action:    entry.Action,
		TableName: entry.TableName,
		RecordID:  entry.RecordID,
		OldValue:  toJSONMap(entry.OldValue),
		NewValue:  toJSONMap(entry.NewValue),
		IPAddress: entry.IPAddress,
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		// Swallowed on purpose: the trail is best-effort and the primary
		// mutation has already committed.
		s.logger.Error().Err(err).
			Str("action", entry.Action).
			Str("table", entry.TableName).
			Uint("record_id", entry.RecordID).
			Msg("failed to persist audit entry")
	}
}

func (s *auditService) List(ctx context.Context, req dto.AuditListRequest) ([]dto.AuditEntryResponse, error) {
	entries, err := s.repo.List(ctx, repository.AuditLogFilter{
		Action:    req.Action,
		TableName: req.TableName,
		Limit:     100,
	})
	if err != nil {
		return nil, err
	}
	return dto.NewAuditEntryResponseSlice(entries), nil
}

func toJSONMap(value map[string]interface{}) datatypes.JSONMap {
	if value == nil {
		return nil
	}
	return datatypes.JSONMap(value)
}
