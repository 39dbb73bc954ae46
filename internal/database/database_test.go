package database

import (
	"testing"

	"vibeconnect/internal/config"
	"vibeconnect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}

	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections, "sqlite is pinned to a single connection")
}

func TestDialector(t *testing.T) {
	d, err := Dialector(&config.Config{DBDriver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = Dialector(&config.Config{DBDriver: config.DriverPostgres, DBHost: "localhost", DBPort: "5432"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = Dialector(&config.Config{DBDriver: config.DriverMongo})
	assert.Error(t, err)
}

func TestOpen_MigratesSchema(t *testing.T) {
	db, err := Open(sqlite.Open(":memory:"), &config.Config{})
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&models.ConnectionRequest{}))
	assert.True(t, db.Migrator().HasTable(&models.Profile{}))
	assert.True(t, db.Migrator().HasIndex(&models.ConnectionRequest{}, PendingPairIndex))
	require.NoError(t, Migrate(db), "migration is idempotent")
}

func TestPendingPairIndex_AllowsOnePendingPerPair(t *testing.T) {
	db, err := Open(sqlite.Open(":memory:"), &config.Config{})
	require.NoError(t, err)

	first := &models.ConnectionRequest{InitiatorID: 1, RecipientID: 2, Status: models.ConnectionStatusPending}
	require.NoError(t, db.Create(first).Error)

	reverse := &models.ConnectionRequest{InitiatorID: 2, RecipientID: 1, Status: models.ConnectionStatusPending}
	err = db.Create(reverse).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	require.NoError(t, db.Model(first).Update("status", models.ConnectionStatusDeclined).Error)

	again := &models.ConnectionRequest{InitiatorID: 2, RecipientID: 1, Status: models.ConnectionStatusPending}
	assert.NoError(t, db.Create(again).Error, "a resolved request frees the pair")
}
