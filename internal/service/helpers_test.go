package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func ptrUint(v uint) *uint {
	return &v
}

func ptrString(v string) *string {
	return &v
}

func ptrInt(v int) *int {
	return &v
}

// memoryAuditRecorder captures audit entries for assertions.
type memoryAuditRecorder struct {
	entries []AuditEntry
}

func (m *memoryAuditRecorder) Record(_ context.Context, entry AuditEntry) {
	m.entries = append(m.entries, entry)
}

// memoryUserRepo is an in-memory UserRepository backing identity tests.
type memoryUserRepo struct {
	users  map[uint]models.User
	nextID uint
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uint]models.User), nextID: 1}
}

func (m *memoryUserRepo) GetByID(_ context.Context, id uint) (models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) GetByUsername(_ context.Context, username string) (models.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (m *memoryUserRepo) GetByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (m *memoryUserRepo) ExistsByUsernameOrEmail(_ context.Context, username, email string) (bool, error) {
	for _, user := range m.users {
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryUserRepo) List(_ context.Context, filter repository.UserFilter) ([]models.User, error) {
	results := make([]models.User, 0, len(m.users))
	for _, user := range m.users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		results = append(results, user)
	}
	return results, nil
}

func (m *memoryUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = m.nextID
	user.CreatedAt = time.Now()
	m.users[m.nextID] = *user
	m.nextID++
	return nil
}

func (m *memoryUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.users[user.ID] = *user
	return nil
}

func (m *memoryUserRepo) CountActive(_ context.Context) (int64, error) {
	var count int64
	for _, user := range m.users {
		if user.IsActive {
			count++
		}
	}
	return count, nil
}
