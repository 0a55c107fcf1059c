package kafka_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"ecovale-hr/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func pendingEvent() kafka.OutboxEvent {
	return kafka.OutboxEvent{
		ID:            uuid.NewString(),
		AggregateType: "payrun",
		AggregateID:   uuid.NewString(),
		EventType:     "payrun_completed",
		Topic:         "hr.payrun.completed.v1",
		Payload:       []byte(`{"month":3}`),
		Status:        kafka.OutboxStatusPending,
	}
}

func TestOutboxRepository_Create_RejectsIncompleteEvent(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := kafka.NewOutboxRepository(db)

	event := pendingEvent()
	event.Topic = ""

	// Nothing reaches the database when validation fails.
	assert.Error(t, repo.Create(ctx, event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_Create_UsesBoundTx(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO outbox_events`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	assert.NoError(t, err)

	repo := kafka.NewOutboxRepository(db).WithTx(tx)
	assert.NoError(t, repo.Create(ctx, pendingEvent()))
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_ListPending(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "aggregate_type", "aggregate_id", "event_type", "topic",
		"payload", "status", "retry_count", "next_retry_at",
	}).AddRow(
		"e1", "payrun", "a1", "payrun_completed", "hr.payrun.completed.v1",
		[]byte(`{}`), kafka.OutboxStatusFailed, 2, now,
	)

	// Failed events only come back once their backoff window has passed.
	mock.ExpectQuery(regexp.QuoteMeta(`next_retry_at IS NULL OR next_retry_at <= NOW()`)).
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 50).
		WillReturnRows(rows)

	events, err := kafka.NewOutboxRepository(db).ListPending(ctx, 50)
	assert.NoError(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, "hr.payrun.completed.v1", events[0].Topic)
	assert.Equal(t, 2, events[0].RetryCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_MarkFailed_SchedulesRetry(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`next_retry_at = NOW() + (LEAST(retry_count + 1, 10) * INTERVAL '15 seconds')`)).
		WithArgs("e1", kafka.OutboxStatusFailed, "broker unreachable").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, kafka.NewOutboxRepository(db).MarkFailed(ctx, "e1", "broker unreachable"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateOutboxEvent(t *testing.T) {
	assert.NoError(t, kafka.ValidateOutboxEvent(pendingEvent()))

	event := pendingEvent()
	event.Status = "queued"
	assert.Error(t, kafka.ValidateOutboxEvent(event))

	event = pendingEvent()
	event.Payload = nil
	assert.Error(t, kafka.ValidateOutboxEvent(event))
}
