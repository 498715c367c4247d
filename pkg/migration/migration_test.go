package migration

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type noop struct{}

func (noop) Up(*gorm.DB) error   { return nil }
func (noop) Down(*gorm.DB) error { return nil }

func withRegistry(t *testing.T, names ...string) {
	t.Helper()
	registryMu.Lock()
	saved := registry
	registry = nil
	registryMu.Unlock()

	for _, n := range names {
		Register(n, noop{})
	}

	t.Cleanup(func() {
		registryMu.Lock()
		registry = saved
		registryMu.Unlock()
	})
}

func TestRegistered_SortsByName(t *testing.T) {
	withRegistry(t, "20240102_b", "20240101_a")

	got := registered()
	require.Len(t, got, 2)
	assert.Equal(t, "20240101_a", got[0].name)
	assert.Equal(t, "20240102_b", got[1].name)
}

func TestPending_SkipsRecorded(t *testing.T) {
	withRegistry(t, "20240101_a", "20240102_b", "20240103_c")

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "lojinha_migrations"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "batch"}).AddRow(1, "20240102_b", 1))

	names, err := New(db, nil).Pending()
	require.NoError(t, err)
	assert.Equal(t, []string{"20240101_a", "20240103_c"}, names)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_NoMigrations(t *testing.T) {
	withRegistry(t)

	err := New(nil, nil).Run()
	assert.ErrorIs(t, err, ErrNoMigrations)
}
