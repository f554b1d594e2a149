package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/campusprint/campusprint-backend/pkg/db/models"
	"github.com/campusprint/campusprint-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOutboxTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT,
  published_at DATETIME,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func insertEvent(t *testing.T, db *gorm.DB, eventType enums.OutboxEventType) models.OutboxEvent {
	t.Helper()

	event := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     eventType,
		AggregateType: enums.OutboxAggregatePrintOrder,
		AggregateID:   uuid.New(),
		Payload:       json.RawMessage(`{"version":1}`),
	}
	require.NoError(t, db.Create(&event).Error)
	return event
}

func TestRepositoryFetchPublishable(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewRepository(db)

	first := insertEvent(t, db, enums.OutboxEventOrderCreated)
	second := insertEvent(t, db, enums.OutboxEventOrderStatusChanged)

	rows, err := repo.FetchPublishable(10, 5)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.NoError(t, repo.MarkPublished(first.ID))

	rows, err = repo.FetchPublishable(10, 5)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, second.ID, rows[0].ID)
}

func TestRepositoryFetchPublishableSkipsExhaustedAttempts(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewRepository(db)

	stuck := insertEvent(t, db, enums.OutboxEventOrderCreated)
	fresh := insertEvent(t, db, enums.OutboxEventOrderStatusChanged)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.MarkFailed(stuck.ID, errors.New("publish timeout")))
	}

	rows, err := repo.FetchPublishable(10, 3)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, fresh.ID, rows[0].ID)
}

func TestRepositoryMarkFailed(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewRepository(db)

	event := insertEvent(t, db, enums.OutboxEventOrderCreated)
	require.NoError(t, repo.MarkFailed(event.ID, errors.New("publish timeout")))
	require.NoError(t, repo.MarkFailed(event.ID, errors.New("publish timeout")))

	var row models.OutboxEvent
	require.NoError(t, db.First(&row, "id = ?", event.ID).Error)
	assert.Equal(t, 2, row.AttemptCount)
	require.NotNil(t, row.LastError)
	assert.Equal(t, "publish timeout", *row.LastError)
	assert.Nil(t, row.PublishedAt)
}

func TestServiceEmitWrapsPayload(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewRepository(db)
	service := NewService(repo, nil)

	aggregateID := uuid.New()
	actorID := uuid.New()

	err := db.Transaction(func(tx *gorm.DB) error {
		return service.Emit(context.Background(), tx, DomainEvent{
			EventType:     enums.OutboxEventOrderCreated,
			AggregateType: enums.OutboxAggregatePrintOrder,
			AggregateID:   aggregateID,
			Actor:         &ActorRef{ProfileID: actorID, Role: "user"},
			Data:          map[string]any{"status": "pending"},
			Version:       1,
		})
	})
	require.NoError(t, err)

	var row models.OutboxEvent
	require.NoError(t, db.First(&row, "aggregate_id = ?", aggregateID).Error)
	assert.Equal(t, enums.OutboxEventOrderCreated, row.EventType)

	var envelope PayloadEnvelope
	require.NoError(t, json.Unmarshal(row.Payload, &envelope))
	assert.Equal(t, 1, envelope.Version)
	assert.NotEmpty(t, envelope.EventID)
	require.NotNil(t, envelope.Actor)
	assert.Equal(t, actorID, envelope.Actor.ProfileID)

	var data map[string]any
	require.NoError(t, json.Unmarshal(envelope.Data, &data))
	assert.Equal(t, "pending", data["status"])
}

func TestServiceEmitRequiresTransaction(t *testing.T) {
	service := NewService(NewRepository(nil), nil)
	err := service.Emit(context.Background(), nil, DomainEvent{})
	require.Error(t, err)
}
