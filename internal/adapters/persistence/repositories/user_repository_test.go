package repositories

import (
	"context"
	"errors"
	"testing"

	"bankhub/internal/adapters/persistence/models"
	"bankhub/internal/core/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTranslatingDB opens gorm the way ConnectDatabase does, with driver
// errors translated into gorm sentinels.
func newTranslatingDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	return db, sqlMock
}

func TestCreateTranslatesDuplicateKey(t *testing.T) {
	// A username or email race that slips past the existence pre-checks
	// hits the unique index. The driver's 1062 error must surface as
	// gorm.ErrDuplicatedKey so the service can report a conflict.
	db, sqlMock := newTranslatingDB(t)
	repo := NewUserRepository(db)

	sqlMock.ExpectBegin()
	sqlMock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice' for key 'users.username'"})
	sqlMock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "hashed",
		Role:     domain.RoleCustomer,
		IsActive: true,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}
