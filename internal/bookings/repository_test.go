package bookings

import (
	"context"
	"testing"
	"time"

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

// Submission must serialize on the venue day before it reads the schedule:
// an advisory lock first (two submissions into an empty day have no rows to
// lock), then row locks on whatever events exist. Both expectations are
// ordered, so dropping either lock fails the test.
func TestSubmitSerializesVenueDay(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	booking := &AuditoriumBooking{
		Purpose:          "Department Freshers Welcome",
		Department:       "Computer Science",
		EventDate:        date,
		StartTime:        "10:00",
		EndTime:          "12:00",
		ExpectedAudience: 200,
		RequestedBy:      uuid.New(),
	}

	mock.ExpectBegin()
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "events" WHERE venue = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_date", "start_time", "end_time"}).
			AddRow(uuid.New().String(), date, "11:00", "13:00"))
	mock.ExpectRollback()

	err := repo.SubmitWithConflictCheck(context.Background(), booking, "Auditorium", "Rohan Mehta", 500)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPromoteLocksScheduleAndForcesRejection(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepository(db)

	bookingID := uuid.New()
	reviewerID := uuid.New()
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "auditorium_bookings" .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "purpose", "event_date", "start_time", "end_time", "status", "requested_by"}).
			AddRow(bookingID.String(), "Department Freshers Welcome", date, "10:00", "12:00", "PENDING", uuid.New().String()))
	mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "events" WHERE venue = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_date", "start_time", "end_time", "status"}).
			AddRow(uuid.New().String(), date, "11:00", "13:00", "OPEN"))
	mock.ExpectExec(`UPDATE "auditorium_bookings" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rejected, promoted, err := repo.Promote(context.Background(), bookingID, reviewerID, "", "Auditorium", 500)
	require.ErrorIs(t, err, ErrPromotionConflict)
	assert.Nil(t, promoted)
	require.NotNil(t, rejected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
