package database

import (
	"testing"

	"vibeconnect/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesConnectionRequest(t *testing.T) {
	found := false
	for _, model := range PersistentModels() {
		if _, ok := model.(*models.ConnectionRequest); ok {
			found = true
			break
		}
	}
	require.True(t, found, "PersistentModels should include ConnectionRequest")
}
