package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Ryan-gomezzz/Hush-gentle/models"
	"github.com/Ryan-gomezzz/Hush-gentle/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePayment(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormPaymentRepo(gormDB)

	paymentID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "payments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(paymentID))
	mock.ExpectCommit()

	payment := &models.Payment{
		OrderID:   uuid.New(),
		UserID:    uuid.New(),
		Provider:  "stub",
		Status:    models.PaymentStatusCreated,
		AmountINR: 500,
	}
	require.NoError(t, repo.Create(context.Background(), payment))
	assert.Equal(t, paymentID, payment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcile_SucceededPaysOrderInSameTransaction(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormPaymentRepo(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET "status"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ref := "stub_abc"
	payment := &models.Payment{ID: uuid.New(), OrderID: uuid.New(), Status: models.PaymentStatusCreated}
	paid, err := repo.Reconcile(context.Background(), payment, repository.PaymentUpdate{
		Status:            models.PaymentStatusSucceeded,
		ProviderReference: &ref,
		Meta:              map[string]interface{}{"mode": "demo"},
	})
	require.NoError(t, err)
	assert.True(t, paid)
	assert.Equal(t, models.PaymentStatusSucceeded, payment.Status)
	assert.Equal(t, "stub_abc", *payment.ProviderReference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcile_AlreadyPaidOrderIsNotTransitionedAgain(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormPaymentRepo(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET "status"=$1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	payment := &models.Payment{ID: uuid.New(), OrderID: uuid.New()}
	paid, err := repo.Reconcile(context.Background(), payment, repository.PaymentUpdate{Status: models.PaymentStatusSucceeded})
	require.NoError(t, err)
	assert.False(t, paid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcile_FailedLeavesOrderAlone(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormPaymentRepo(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payment := &models.Payment{ID: uuid.New(), OrderID: uuid.New()}
	paid, err := repo.Reconcile(context.Background(), payment, repository.PaymentUpdate{Status: models.PaymentStatusFailed})
	require.NoError(t, err)
	assert.False(t, paid)
	assert.Equal(t, models.PaymentStatusFailed, payment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcile_RollsBackOnOrderUpdateError(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormPaymentRepo(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "payments" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET`)).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	payment := &models.Payment{ID: uuid.New(), OrderID: uuid.New(), Status: models.PaymentStatusCreated}
	_, err := repo.Reconcile(context.Background(), payment, repository.PaymentUpdate{Status: models.PaymentStatusSucceeded})
	assert.Error(t, err)
	assert.Equal(t, models.PaymentStatusCreated, payment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
