package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/campushub/campushub-api/internal/models"
)

func TestAuditLogRepositoryListOrdersAndLimits(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditLogRepository(db)

	older := models.AuditLog{ActorID: 1, Action: models.AuditActionCreate, TableName: "courses", RecordID: 1, CreatedAt: time.Now().Add(-time.Hour)}
	newer := models.AuditLog{ActorID: 1, Action: models.AuditActionUpdate, TableName: "courses", RecordID: 1, NewValue: datatypes.JSONMap{"credits": 4}, CreatedAt: time.Now()}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	entries, err := repo.List(context.Background(), AuditLogFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, models.AuditActionUpdate, entries[0].Action, "expected newest entry first")

	entries, err = repo.List(context.Background(), AuditLogFilter{Action: models.AuditActionCreate})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(context.Background(), AuditLogFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
