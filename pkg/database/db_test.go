package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
)

func TestBuildDialector(t *testing.T) {
	for _, driver := range []string{"sqlite", "postgres", "mysql", "sqlserver"} {
		d, err := buildDialector(driver, "dsn")
		require.NoError(t, err, driver)
		assert.Equal(t, driver, d.Name())
	}

	_, err := buildDialector("oracle", "dsn")
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestConnect_UnknownDriver(t *testing.T) {
	db, err := Connect("oracle", "dsn")
	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestOpenAndClose(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := Open(postgres.New(postgres.Config{Conn: sqlDB}))
	require.NoError(t, err)

	mock.ExpectClose()
	require.NoError(t, Close(db))
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.NoError(t, Close(nil))
}
