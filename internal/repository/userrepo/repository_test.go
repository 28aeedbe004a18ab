package userrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitrine/internal/domain"
	apperror "vitrine/internal/errors"
	"vitrine/internal/pkg/logger"
	"vitrine/internal/repository/userrepo"
)

func newRepo(t *testing.T) (*userrepo.UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return userrepo.NewUserRepository(sqlx.NewDb(db, "postgres"), time.Second, logger.NewNopLogger()), sqlMock
}

func TestSave_AssignsIDAndTimestamps(t *testing.T) {
	repo, sqlMock := newRepo(t)

	sqlMock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "ana@example.com", "hash", "user", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user, err := repo.Save(context.Background(), domain.User{Email: "ana@example.com", PasswordHash: "hash", Role: domain.RoleUser})

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestSave_UniqueViolationIsConflict(t *testing.T) {
	repo, sqlMock := newRepo(t)

	sqlMock.ExpectExec("INSERT INTO users").WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Save(context.Background(), domain.User{Email: "ana@example.com", PasswordHash: "hash"})

	assert.IsType(t, &apperror.ConflictError{}, err)
}

func TestSave_OtherFailureIsInternal(t *testing.T) {
	repo, sqlMock := newRepo(t)

	sqlMock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("conexão recusada"))

	_, err := repo.Save(context.Background(), domain.User{Email: "ana@example.com"})

	require.Error(t, err)
	assert.NotEqual(t, &apperror.ConflictError{}, err)
	assert.False(t, apperror.IsNotFound(err))
}

func TestFindByEmail(t *testing.T) {
	repo, sqlMock := newRepo(t)
	created := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	sqlMock.ExpectQuery("SELECT (.+) FROM users WHERE email = ").
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at", "updated_at"}).
			AddRow("u1", "ana@example.com", "hash", "admin", created, created))
	sqlMock.ExpectQuery("SELECT (.+) FROM users WHERE email = ").
		WithArgs("ninguem@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at", "updated_at"}))

	user, err := repo.FindByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.Equal(t, "hash", user.PasswordHash)

	_, err = repo.FindByEmail(context.Background(), "ninguem@example.com")
	assert.True(t, apperror.IsNotFound(err))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
