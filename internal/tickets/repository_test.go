package tickets

import (
	"context"
	"testing"

	"campusevents/internal/shared/apperrors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return gormDB, mock
}

// Registration must hold a row lock on the event while it counts and
// inserts. The query expectation only matches when the locking clause is
// actually emitted, so losing it fails this test.
func TestRegisterLocksEventRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)
	eventID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, total_seats, status FROM "events" .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "total_seats", "status"}).
			AddRow(eventID.String(), 100, "CLOSED"))
	mock.ExpectRollback()

	err := repo.Register(context.Background(), &Ticket{EventID: eventID, UserID: uuid.New()})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindCapacity, apperrors.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelLocksTicketRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)
	ticketID := uuid.New()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "tickets" .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "event_id", "status"}).
			AddRow(ticketID.String(), userID.String(), uuid.New().String(), string(StatusCancelled)))
	mock.ExpectRollback()

	err := repo.Cancel(context.Background(), ticketID, userID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
