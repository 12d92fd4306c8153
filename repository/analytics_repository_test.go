package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/Ryan-gomezzz/Hush-gentle/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsCreate(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormAnalyticsRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "analytics_events"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), &models.AnalyticsEvent{
		EventName: models.EventPageView,
		SessionID: "sid-1",
		Path:      "/products",
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDailyCounts(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormAnalyticsRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day`)).
		WillReturnRows(sqlmock.NewRows([]string{"day", "event_name", "count"}).
			AddRow("2026-10-01", "page_view", 12).
			AddRow("2026-10-01", "payment_success", 2))

	rows, err := repo.DailyCounts(context.Background(), time.Now().AddDate(0, 0, -29), []models.EventName{models.EventPageView})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2026-10-01", rows[0].Day)
	assert.Equal(t, models.EventPageView, rows[0].EventName)
	assert.Equal(t, int64(12), rows[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
