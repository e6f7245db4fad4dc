package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redirects logger output to a buffer for testing.
// Returns the buffer and a cleanup function to restore original output.
func captureOutput() (*bytes.Buffer, func()) {
	buf := new(bytes.Buffer)

	mu.Lock()
	originalOutput := output
	originalColor := useColor
	output = buf
	useColor = false
	mu.Unlock()

	originalLevel := currentLevel.Load()
	SetFormat("text")
	reconfigure()

	cleanup := func() {
		mu.Lock()
		output = originalOutput
		useColor = originalColor
		mu.Unlock()
		currentLevel.Store(originalLevel)
		SetFormat("text")
		reconfigure()
	}

	return buf, cleanup
}

func TestLevelFiltering(t *testing.T) {
	t.Run("DebugLevelShowsAllMessages", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("DEBUG")

		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")

		output := buf.String()
		assert.Contains(t, output, "[DEBUG]")
		assert.Contains(t, output, "[INFO]")
		assert.Contains(t, output, "[WARN]")
		assert.Contains(t, output, "[ERROR]")
	})

	t.Run("WarnLevelFiltersDebugAndInfo", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("WARN")

		Debug("debug message")
		Info("info message")
		Warn("warn message")
		Error("error message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warn message")
		assert.Contains(t, output, "error message")
	})

	t.Run("ErrorLevelShowsOnlyErrors", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("ERROR")

		Info("info message")
		Warn("warn message")
		Error("error message")

		output := buf.String()
		assert.NotContains(t, output, "warn message")
		assert.Contains(t, output, "error message")
	})
}

func TestSetLevel(t *testing.T) {
	t.Run("SetLevelIsCaseInsensitive", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("debug")
		Debug("test message")
		assert.Contains(t, buf.String(), "test message")
		assert.Equal(t, LevelDebug, GetLevel())
	})

	t.Run("SetLevelIgnoresInvalidValues", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		SetLevel("INVALID")
		Debug("debug message")
		Info("info message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.Contains(t, output, "info message")
	})
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "INFO", LevelInfo.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestTextFormat(t *testing.T) {
	t.Run("QuotesStringsWithSpaces", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		Info("lookup failed", KeyError, "connection refused", KeyUsername, "alice")

		output := buf.String()
		assert.Contains(t, output, `error="connection refused"`)
		assert.Contains(t, output, "username=alice")
		assert.Contains(t, output, "sysauth: lookup failed")
	})

	t.Run("FlattensGroups", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		With("component", "resolver").WithGroup("override").Info("entry skipped", "to", "bogus")
		Info("grouped", slog.Group("record", slog.String("name", "alice"), slog.Int("uid", 1000)))

		output := buf.String()
		assert.Contains(t, output, "component=resolver")
		assert.Contains(t, output, "override.to=bogus")
		assert.Contains(t, output, "record.name=alice")
		assert.Contains(t, output, "record.uid=1000")
	})
}

func TestJSONFormat(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("INFO")
	SetFormat("json")

	Info("test message", "key1", "value1", "key2", 42)

	var entry map[string]any
	err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry)
	require.NoError(t, err, "Output should be valid JSON: %s", buf.String())

	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value1", entry["key1"])
	assert.Equal(t, float64(42), entry["key2"])
	assert.Contains(t, entry, "time")
}

func TestContextLogging(t *testing.T) {
	t.Run("LogContextInjectsFields", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		SetFormat("json")

		lc := NewLogContext("uid", "1000").WithHostname("host-a").WithRequestID("req-1")
		ctx := WithContext(context.Background(), lc)

		InfoCtx(ctx, "lookup completed", KeyOutcome, "found")

		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))

		assert.Equal(t, "req-1", entry[KeyRequestID])
		assert.Equal(t, "uid", entry[KeyMethod])
		assert.Equal(t, "1000", entry[KeyQuery])
		assert.Equal(t, "host-a", entry[KeyHostname])
		assert.Equal(t, "found", entry[KeyOutcome])
	})

	t.Run("ContextWithoutLogContextHandled", func(t *testing.T) {
		buf, cleanup := captureOutput()
		defer cleanup()

		SetLevel("INFO")
		require.NotPanics(t, func() {
			InfoCtx(context.Background(), "test message")
		})
		assert.Contains(t, buf.String(), "test message")
	})
}

func TestLogContext(t *testing.T) {
	lc := NewLogContext("name", "alice")
	clone := lc.WithRequestID("abc")

	assert.Empty(t, lc.RequestID, "original must not be mutated")
	assert.Equal(t, "abc", clone.RequestID)
	assert.Equal(t, "alice", clone.Key)
	assert.GreaterOrEqual(t, clone.DurationMs(), 0.0)

	var nilCtx *LogContext
	assert.Nil(t, nilCtx.Clone())
	assert.Zero(t, nilCtx.DurationMs())
}

func TestConcurrentLogging(t *testing.T) {
	buf, cleanup := captureOutput()
	defer cleanup()

	SetLevel("INFO")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				Info("concurrent", "worker", n, "iteration", j)
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 200)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "["), "line should not be interleaved: %q", line)
	}
}

func TestInit(t *testing.T) {
	t.Run("InitWithWriter", func(t *testing.T) {
		_, cleanup := captureOutput()
		defer cleanup()

		buf := new(bytes.Buffer)
		InitWithWriter(buf, "DEBUG", "text", false)

		Debug("test message")
		assert.Contains(t, buf.String(), "test message")
	})

	t.Run("InitWithFileOutput", func(t *testing.T) {
		_, cleanup := captureOutput()
		defer cleanup()

		path := filepath.Join(t.TempDir(), "sysauth.log")
		require.NoError(t, Init(Config{Level: "INFO", Format: "json", Output: path}))

		Info("to file")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"to file"`)
	})

	t.Run("InitWithUnwritableFile", func(t *testing.T) {
		_, cleanup := captureOutput()
		defer cleanup()

		err := Init(Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "log")})
		assert.Error(t, err)
	})

	t.Run("InitOnceRunsOnlyOnce", func(t *testing.T) {
		_, cleanup := captureOutput()
		defer cleanup()

		require.NoError(t, InitOnce(Config{Level: "ERROR"}))
		assert.Equal(t, LevelError, GetLevel())

		SetLevel("INFO")
		require.NoError(t, InitOnce(Config{Level: "DEBUG"}))
		assert.Equal(t, LevelInfo, GetLevel(), "second InitOnce must be a no-op")
	})
}

func BenchmarkLogDisabled(b *testing.B) {
	buf := new(bytes.Buffer)
	InitWithWriter(buf, "ERROR", "text", false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Debug("test message", "key", "value")
	}
}

func BenchmarkLogCtx(b *testing.B) {
	buf := new(bytes.Buffer)
	InitWithWriter(buf, "DEBUG", "json", false)

	ctx := WithContext(context.Background(), NewLogContext("uid", "1000").WithRequestID("req"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		InfoCtx(ctx, "test message", "count", i)
	}
}
