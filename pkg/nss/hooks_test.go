package nss

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/sysauth/pkg/config"
)

func TestHooks(t *testing.T) {
	server := httptest.NewServer(respondJSON(http.StatusOK, foundBody(t, alice)))
	defer server.Close()

	hooks := NewHooksWithConfig(
		writeConfig(t, server.URL, "logging:\n  level: error\n"),
		WithHostnameFunc(testHostnameFunc),
	)

	t.Run("ByUID", func(t *testing.T) {
		result := hooks.GetEntryByUID(1001)
		require.True(t, result.Found())
		assert.Equal(t, StatusSuccess, result.Outcome.Status())
	})

	t.Run("ByName", func(t *testing.T) {
		result := hooks.GetEntryByName("alice")
		require.True(t, result.Found())
		assert.Equal(t, "/home/alice", result.Record.Dir)
	})

	t.Run("All", func(t *testing.T) {
		result := hooks.GetAllEntries()
		assert.Equal(t, OutcomeNotFound, result.Outcome)
		assert.Equal(t, StatusNotFound, result.Outcome.Status())
	})
}

func TestHooksMissingConfig(t *testing.T) {
	hooks := NewHooksWithConfig(filepath.Join(t.TempDir(), "absent.yaml"), WithHostnameFunc(testHostnameFunc))

	result := hooks.GetEntryByUID(1001)

	assert.Equal(t, OutcomeUnavailable, result.Outcome)
	assert.Equal(t, StatusUnavail, result.Outcome.Status())
}

func TestNewHooksDefaultPath(t *testing.T) {
	hooks := NewHooks()
	assert.Equal(t, config.DefaultPath, hooks.client.ConfigPath())
}
