package service

import (
	"context"
	"sync"
	"testing"

	"vibeconnect/internal/config"
	"vibeconnect/internal/database"
	"vibeconnect/internal/models"
	"vibeconnect/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

func newSQLiteService(t *testing.T) *ConnectionService {
	t.Helper()
	db, err := database.Open(sqlite.Open(":memory:"), &config.Config{Env: "test"})
	require.NoError(t, err)

	profiles := repository.NewProfileRepository(db)
	for id, name := range map[uint]string{1: "Ada", 2: "Bea", 3: "Cy"} {
		require.NoError(t, profiles.Upsert(context.Background(), &models.Profile{UserID: id, DisplayName: name}))
	}
	return NewConnectionService(repository.NewConnectionRepository(db), profiles)
}

func TestConnectionLifecycle_SQLite(t *testing.T) {
	svc := newSQLiteService(t)
	ctx := context.Background()

	req, err := svc.CreateRequest(ctx, 1, 2, "hey")
	require.NoError(t, err)

	_, err = svc.CreateRequest(ctx, 2, 1, "me too")
	assert.ErrorIs(t, err, models.ErrDuplicateRequest, "pair uniqueness ignores direction")

	_, err = svc.ResolveRequest(ctx, 2, req.ID, models.ConnectionStatusDeclined)
	require.NoError(t, err)

	_, err = svc.ResolveRequest(ctx, 2, req.ID, models.ConnectionStatusAccepted)
	assert.ErrorIs(t, err, models.ErrAlreadyResolved)

	again, err := svc.CreateRequest(ctx, 2, 1, "second try")
	require.NoError(t, err, "either party may ask again after a decline")

	inbound, err := svc.PendingInbound(ctx, 1)
	require.NoError(t, err)
	require.Len(t, inbound, 1)
	assert.Equal(t, again.ID, inbound[0].ID)

	_, err = svc.ResolveRequest(ctx, 1, again.ID, models.ConnectionStatusAccepted)
	require.NoError(t, err)

	rel, err := svc.Status(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusConnected, rel.Status)

	conns, err := svc.Connections(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, conns, 1)

	_, err = svc.CreateRequest(ctx, 1, 2, "")
	assert.ErrorIs(t, err, models.ErrDuplicateRequest)
}

func TestResolveRequest_ConcurrentDecisionsOneWinner(t *testing.T) {
	svc := newSQLiteService(t)
	ctx := context.Background()

	req, err := svc.CreateRequest(ctx, 3, 2, "")
	require.NoError(t, err)

	decisions := []models.ConnectionStatus{models.ConnectionStatusAccepted, models.ConnectionStatusDeclined}
	errs := make([]error, len(decisions))

	var wg sync.WaitGroup
	for i, d := range decisions {
		wg.Add(1)
		go func(i int, d models.ConnectionStatus) {
			defer wg.Done()
			_, errs[i] = svc.ResolveRequest(ctx, 2, req.ID, d)
		}(i, d)
	}
	wg.Wait()

	var winner models.ConnectionStatus
	successes := 0
	for i, err := range errs {
		if err == nil {
			successes++
			winner = decisions[i]
			continue
		}
		assert.ErrorIs(t, err, models.ErrAlreadyResolved)
	}
	require.Equal(t, 1, successes)

	sent, err := svc.SentRequests(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, sent)

	rel, err := svc.Status(ctx, 3, 2)
	require.NoError(t, err)
	if winner == models.ConnectionStatusAccepted {
		assert.Equal(t, StatusConnected, rel.Status)
	} else {
		assert.Equal(t, StatusNone, rel.Status)
	}
}
