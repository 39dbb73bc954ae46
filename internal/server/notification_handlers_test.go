package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNotifications(t *testing.T) {
	env := newTestEnv(t)
	env.seedProfile(t, 1, "Ava")
	env.seedProfile(t, 2, "Ben")
	env.seedProfile(t, 3, "Cleo")

	var resp NotificationsResponse
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/notifications", 3, nil, &resp))
	assert.Equal(t, 0, resp.Count)
	assert.NotNil(t, resp.Notifications)

	var first, second sendResponse
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/connections/requests/3", 1, nil, &first))
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/connections/requests/3", 2, nil, &second))

	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/notifications", 3, nil, &resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, first.Request.ID, resp.Notifications[0].SourceRequestID)
	assert.Equal(t, "Ava", resp.Notifications[0].SenderDisplayName)
	assert.Equal(t, second.Request.ID, resp.Notifications[1].SourceRequestID)

	// The sender sees nothing in their own inbox.
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/notifications", 1, nil, &resp))
	assert.Equal(t, 0, resp.Count)

	path := fmt.Sprintf("/api/connections/requests/%d/accept", first.Request.ID)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, path, 3, nil, nil))

	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/notifications", 3, nil, &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, second.Request.ID, resp.Notifications[0].SourceRequestID)
}

func TestGetNotifications_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/notifications", 0, nil, nil))
}
