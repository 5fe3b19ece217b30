package audit

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditdb "github.com/taskdesk/taskdesk/internal/database/audit"
	"github.com/taskdesk/taskdesk/internal/entities"
)

func setupService(t *testing.T) *Service {
	t.Helper()

	dbPath := "./test_audit_service_" + t.Name() + ".db"
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.AuditEvent{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	})

	return NewService(auditdb.NewRepository(db))
}

// waitForEvents polls until the async writers have landed the expected
// number of events.
func waitForEvents(t *testing.T, svc *Service, want int64) []entities.AuditEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		events, total, err := svc.GetEvents(0, 50, 0)
		require.NoError(t, err)
		if total >= want {
			return events
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d audit events", want)
	return nil
}

func TestService_LogAuth(t *testing.T) {
	svc := setupService(t)

	svc.LogAuth(1, "login", "10.0.0.1", "curl/8.0", true)
	svc.LogAuth(0, "login", "10.0.0.2", "curl/8.0", false)

	events := waitForEvents(t, svc, 2)

	byStatus := map[entities.AuditStatus]int{}
	for _, e := range events {
		assert.Equal(t, entities.AuditEventAuth, e.EventType)
		assert.Equal(t, "login", e.Action)
		byStatus[e.Status]++
	}
	assert.Equal(t, 1, byStatus[entities.AuditStatusSuccess])
	assert.Equal(t, 1, byStatus[entities.AuditStatusFailed])
}

func TestService_LogTask(t *testing.T) {
	svc := setupService(t)

	svc.LogTask(1, "task_create", "Created task: Prepare report", 42)

	events := waitForEvents(t, svc, 1)
	require.Len(t, events, 1)
	assert.Equal(t, entities.AuditEventTask, events[0].EventType)
	require.NotNil(t, events[0].EntityID)
	assert.Equal(t, uint(42), *events[0].EntityID)
}

func TestService_LogUser_TruncatesDescription(t *testing.T) {
	svc := setupService(t)

	svc.LogUser(1, "user_update", strings.Repeat("x", 600), 7)

	events := waitForEvents(t, svc, 1)
	require.Len(t, events, 1)
	assert.Len(t, events[0].Description, 500)
	assert.True(t, strings.HasSuffix(events[0].Description, "..."))
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc := setupService(t)

	require.NoError(t, svc.Log(&entities.AuditEvent{
		UserID:    1,
		EventType: entities.AuditEventAuth,
		Action:    "login",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now().Add(-45 * 24 * time.Hour),
	}))
	require.NoError(t, svc.Log(&entities.AuditEvent{
		UserID:    1,
		EventType: entities.AuditEventAuth,
		Action:    "login",
		Status:    entities.AuditStatusSuccess,
	}))

	deleted, err := svc.DeleteOldEvents(30 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
