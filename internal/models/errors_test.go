package models

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorIsMatchesOnCode(t *testing.T) {
	err := fmt.Errorf("resolve: %w", NewAlreadyResolvedError(7, ConnectionStatusAccepted))

	assert.True(t, errors.Is(err, ErrAlreadyResolved))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "already accepted")
}

func TestTransientStoreErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewTransientStoreError(cause)

	assert.True(t, errors.Is(err, ErrTransientStore))
	assert.True(t, errors.Is(err, cause))
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NewDuplicateRequestError(1, 2), fiber.StatusConflict},
		{NewAlreadyResolvedError(1, ""), fiber.StatusConflict},
		{NewInvalidTargetError(), fiber.StatusBadRequest},
		{NewValidationError("bad"), fiber.StatusBadRequest},
		{NewNotFoundError("ConnectionRequest", 3), fiber.StatusNotFound},
		{NewUnauthorizedError("nope"), fiber.StatusForbidden},
		{NewTransientStoreError(errors.New("down")), fiber.StatusServiceUnavailable},
		{NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{errors.New("plain"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusCode(tt.err), tt.err.Error())
	}
}

func TestRespondWithErrorHidesInternalDetails(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return RespondWithError(c, fiber.StatusInternalServerError, NewInternalError(errors.New("secret dsn")))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	buf := make([]byte, 512)
	n, _ := resp.Body.Read(buf)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, string(buf[:n]), "secret dsn")
	assert.Contains(t, string(buf[:n]), CodeInternal)
}
