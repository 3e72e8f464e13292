package loader_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"permit-sync/core/loader"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
}

func (s *stubFeature) Name() string    { return s.name }
func (s *stubFeature) IsEnabled() bool { return s.enabled }
func (s *stubFeature) Load(app fiber.Router) error {
	if s.err != nil {
		return s.err
	}
	app.Get("/"+s.name, func(c *fiber.Ctx) error { return c.SendString(s.name) })
	return nil
}

func TestManager_LoadAll(t *testing.T) {
	t.Run("SkipsDisabled", func(t *testing.T) {
		mgr := loader.NewManager()
		mgr.Register(&stubFeature{name: "sync", enabled: true})
		mgr.Register(&stubFeature{name: "off", enabled: false})

		app := fiber.New()
		loaded, err := mgr.LoadAll(app)
		require.NoError(t, err)
		assert.Equal(t, []string{"sync"}, loaded)
		assert.Len(t, mgr.Features(), 2)

		resp, err := app.Test(httptest.NewRequest("GET", "/sync", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp, err = app.Test(httptest.NewRequest("GET", "/off", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("StopsOnError", func(t *testing.T) {
		boom := errors.New("boom")
		mgr := loader.NewManager()
		mgr.Register(&stubFeature{name: "broken", enabled: true, err: boom})
		mgr.Register(&stubFeature{name: "sync", enabled: true})

		loaded, err := mgr.LoadAll(fiber.New())
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, loaded)
	})
}
