package log

import (
	"bytes"
	"encoding/json"
	"errors"
	stdlog "log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	oldW, oldFlags := stdlog.Writer(), stdlog.Flags()
	stdlog.SetOutput(&buf)
	stdlog.SetFlags(0)
	t.Cleanup(func() {
		stdlog.SetOutput(oldW)
		stdlog.SetFlags(oldFlags)
	})
	return &buf
}

func TestRequestEntryCarriesContext(t *testing.T) {
	buf := capture(t)
	app := fiber.New()
	app.Use(requestid.New())
	app.Post("/items", func(c *fiber.Ctx) error {
		c.Status(fiber.StatusCreated)
		Audit(c, "item.create", map[string]any{"item_id": "abc"})
		return nil
	})
	_, err := app.Test(httptest.NewRequest("POST", "/items", nil))
	require.NoError(t, err)

	var e entry
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &e))
	require.Equal(t, "audit", e.Level)
	require.Equal(t, "item.create", e.Action)
	require.Equal(t, "POST", e.Method)
	require.Equal(t, "/items", e.Path)
	require.Equal(t, fiber.StatusCreated, e.Status)
	require.NotEmpty(t, e.ReqID)
	require.Equal(t, "abc", e.Fields["item_id"])
}

func TestBackgroundEntry(t *testing.T) {
	buf := capture(t)
	Background("warn", "image.cache.get.fail", errors.New("conn refused"), nil)

	var e entry
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &e))
	require.Equal(t, "warn", e.Level)
	require.Equal(t, "conn refused", e.Err)
	require.Empty(t, e.Path)
}

func TestTeeToFile(t *testing.T) {
	oldW := stdlog.Writer()
	t.Cleanup(func() { stdlog.SetOutput(oldW) })

	path := filepath.Join(t.TempDir(), "app.log")
	f, err := TeeToFile(path)
	require.NoError(t, err)
	Info(nil, "startup", nil)
	require.NoError(t, f.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(b), `"action":"startup"`))

	_, err = TeeToFile(filepath.Join(t.TempDir(), "missing", "app.log"))
	require.Error(t, err)
}
