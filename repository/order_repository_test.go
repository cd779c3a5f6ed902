package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Phaham/BoogieBites/models"
	"github.com/Phaham/BoogieBites/repository"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)
	return gormDB, mock
}

func orderRows(orderID, userID uuid.UUID) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "user_id", "paid", "created_at", "updated_at"}).
		AddRow(orderID, userID, true, now, now)
}

func TestAppendFulfillment_NewOrder(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepo(gormDB)

	userID := uuid.New()
	orderID := uuid.New()
	lines := []models.OrderLine{{Name: "Pizza", Image: "/pizza.png", Price: 2400, Quantity: 2}}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "paid"}).AddRow(orderID, true))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(orderRows(orderID, userID))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "fulfilled_sessions"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_lines"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	gotID, err := repo.AppendFulfillment(context.Background(), userID, "cs_123", lines)
	assert.NoError(t, err)
	assert.Equal(t, orderID, gotID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendFulfillment_DuplicateSession(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepo(gormDB)

	userID := uuid.New()
	orderID := uuid.New()
	lines := []models.OrderLine{{Name: "Pizza", Image: "/pizza.png", Price: 2400, Quantity: 2}}

	mock.ExpectBegin()
	// conflicting insert is a no-op; the existing order row is re-read
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "paid"}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(orderRows(orderID, userID))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "fulfilled_sessions"`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	_, err := repo.AppendFulfillment(context.Background(), userID, "cs_123", lines)
	assert.ErrorIs(t, err, repository.ErrSessionAlreadyFulfilled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByUserID_Found(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepo(gormDB)

	userID := uuid.New()
	orderID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(orderRows(orderID, userID))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_lines"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "name", "image", "price", "quantity"}).
			AddRow(uuid.New(), orderID, "Pizza", "/pizza.png", int64(2400), int64(2)))

	order, err := repo.FindByUserID(context.Background(), userID)
	assert.NoError(t, err)
	assert.Equal(t, orderID, order.ID)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, int64(2400), order.Items[0].Price)
}

func TestFindByUserID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepo(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByUserID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}
