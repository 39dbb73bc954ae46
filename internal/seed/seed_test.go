package seed

import (
	"context"
	"testing"

	"vibeconnect/internal/config"
	"vibeconnect/internal/database"
	"vibeconnect/internal/models"
	"vibeconnect/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func newSeeder(t *testing.T) (*Seeder, repository.ConnectionRepository, repository.ProfileRepository) {
	t.Helper()
	db, err := database.Open(sqlite.Open(":memory:"), &config.Config{Env: "test"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	conns := repository.NewConnectionRepository(db)
	profiles := repository.NewProfileRepository(db)
	return NewSeeder(conns, profiles), conns, profiles
}

func TestFactory_Deterministic(t *testing.T) {
	a := NewFactory(42).BuildProfile(7)
	b := NewFactory(42).BuildProfile(7)
	assert.Equal(t, a, b)
	assert.Equal(t, uint(7), a.UserID)
	assert.NotEmpty(t, a.DisplayName)
	assert.Len(t, a.InterestList(), 3)
}

func TestFactory_Overrides(t *testing.T) {
	p := NewFactory(1).BuildProfile(3, func(p *models.Profile) { p.DisplayName = "Ava" })
	assert.Equal(t, "Ava", p.DisplayName)
}

func TestFactory_MessageWithinLimit(t *testing.T) {
	f := NewFactory(9)
	for i := 0; i < 50; i++ {
		assert.NoError(t, models.ValidateMessage(f.BuildMessage()))
	}
}

func TestSeeder_Run(t *testing.T) {
	s, conns, profiles := newSeeder(t)
	ctx := context.Background()

	res, err := s.Run(ctx, Options{NumProfiles: 6, RecipientID: 1, NumRequests: 3, Seed: 5})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Profiles)
	assert.Equal(t, 3, res.Requests)

	list, err := profiles.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 6)

	pending, err := conns.ListPendingForRecipient(ctx, 1)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	for _, r := range pending {
		assert.NotEqual(t, uint(1), r.InitiatorID)
	}

	// A second run skips the pairs already pending and fills up from the rest.
	res, err = s.Run(ctx, Options{NumProfiles: 6, RecipientID: 1, NumRequests: 3, Seed: 5})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Skipped)
	assert.Equal(t, 2, res.Requests)
}

func TestSeeder_RunCreatesMissingRecipient(t *testing.T) {
	s, _, profiles := newSeeder(t)
	ctx := context.Background()

	res, err := s.Run(ctx, Options{NumProfiles: 2, RecipientID: 50, NumRequests: 2, Seed: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Profiles)
	assert.Equal(t, 2, res.Requests)

	_, err = profiles.GetByUserID(ctx, 50)
	assert.NoError(t, err)
}

const fixtureYAML = `
profiles:
  - user_id: 1
    display_name: Ava
    interests: [hiking, jazz]
  - user_id: 2
    display_name: Ben
  - user_id: 3
    display_name: Cleo
requests:
  - from: 2
    to: 1
  - from: 3
    to: 1
    message: ""
  - from: 1
    to: 1
`

func TestParseFixture(t *testing.T) {
	fx, err := ParseFixture([]byte(fixtureYAML))
	require.NoError(t, err)
	require.Len(t, fx.Profiles, 3)
	require.Len(t, fx.Requests, 3)
	assert.Nil(t, fx.Requests[0].Message)
	require.NotNil(t, fx.Requests[1].Message)
	assert.Empty(t, *fx.Requests[1].Message)
}

func TestParseFixture_Invalid(t *testing.T) {
	_, err := ParseFixture([]byte("profiles:\n  - display_name: NoID\n"))
	assert.ErrorContains(t, err, "user_id")

	_, err = ParseFixture([]byte("requests:\n  - from: 1\n"))
	assert.ErrorContains(t, err, "from and to")

	_, err = ParseFixture([]byte("profiles: [oops"))
	assert.Error(t, err)
}

func TestSeeder_Apply(t *testing.T) {
	s, conns, profiles := newSeeder(t)
	ctx := context.Background()

	fx, err := ParseFixture([]byte(fixtureYAML))
	require.NoError(t, err)

	res, err := s.Apply(ctx, fx)
	require.NoError(t, err)
	assert.Equal(t, Result{Profiles: 3, Requests: 2, Skipped: 1}, res)

	ava, err := profiles.GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"hiking", "jazz"}, ava.InterestList())

	pending, err := conns.ListPendingForRecipient(ctx, 1)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, models.DefaultConnectMessage, pending[0].Message)
	assert.Empty(t, pending[1].Message)
}
