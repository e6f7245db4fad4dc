package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/sysauth/cmd/sysauth/cmdutil"
	"github.com/marmos91/sysauth/pkg/apiclient"
	"github.com/marmos91/sysauth/pkg/identity"
	"github.com/marmos91/sysauth/pkg/metrics"
)

var bob = identity.Passwd{
	Name:   "bob",
	Passwd: "x",
	UID:    1002,
	GID:    100,
	Gecos:  "Bob",
	Dir:    "/home/bob",
	Shell:  "/bin/zsh",
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := GetRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	t.Cleanup(func() {
		root.SetOut(nil)
		root.SetErr(nil)
		root.SetArgs(nil)
	})

	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func writeClientConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sysauth-client.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func identityServer(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return writeClientConfig(t, fmt.Sprintf("baseUrls:\n  - %q\ntimeout: 2s\n", srv.URL))
}

func foundHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(apiclient.FoundEnvelope(&bob))
	}
}

func TestLookupFound(t *testing.T) {
	path := identityServer(t, foundHandler(t))

	tests := []struct {
		name   string
		args   []string
		expect func(t *testing.T, out string)
	}{
		{
			name: "ByUIDPasswd",
			args: []string{"lookup", "uid", "1002", "--config", path, "-o", "passwd"},
			expect: func(t *testing.T, out string) {
				assert.Equal(t, bob.String()+"\n", out)
			},
		},
		{
			name: "ByNameJSON",
			args: []string{"lookup", "name", "bob", "--config", path, "-o", "json"},
			expect: func(t *testing.T, out string) {
				var got identity.Passwd
				require.NoError(t, json.Unmarshal([]byte(out), &got))
				assert.Equal(t, bob, got)
			},
		},
		{
			name: "ByNameTable",
			args: []string{"lookup", "name", "bob", "--config", path, "-o", "table", "--no-color"},
			expect: func(t *testing.T, out string) {
				assert.Contains(t, out, "/home/bob")
				assert.Contains(t, out, "1002")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, context.Background(), tt.args...)
			require.NoError(t, err)
			tt.expect(t, out)
		})
	}
}

func TestLookupExitCodes(t *testing.T) {
	notFound := identityServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"resultCode":1,"errorMessage":"no such user"}`))
	})
	serverError := identityServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	tests := []struct {
		name   string
		config string
		want   int
	}{
		{"NotFound", notFound, cmdutil.ExitNotFound},
		{"TemporaryFailure", serverError, cmdutil.ExitTemporaryFailure},
		{"Unavailable", missing, cmdutil.ExitUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, context.Background(), "lookup", "uid", "1002", "--config", tt.config, "-o", "passwd")
			require.Error(t, err)
			assert.Equal(t, tt.want, cmdutil.ExitCode(err))
			assert.Empty(t, out)
		})
	}
}

func TestLookupNotFoundIsSilent(t *testing.T) {
	path := identityServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"resultCode":1}`))
	})

	_, err := execute(t, context.Background(), "lookup", "name", "nobody", "--config", path, "-o", "passwd")
	require.Error(t, err)
	assert.Empty(t, err.Error(), "getent prints nothing for a missing user")
}

func TestLookupMetricsTextfile(t *testing.T) {
	path := identityServer(t, foundHandler(t))
	textfile := filepath.Join(t.TempDir(), "sysauth.prom")
	t.Cleanup(func() { lookupTextfile = "" })

	_, err := execute(t, context.Background(), "lookup", "name", "bob", "--config", path, "-o", "passwd", "--metrics-textfile", textfile)
	require.NoError(t, err)

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sysauth_lookups_total{method="name",outcome="found",reason="none"} 1`)
	assert.NotContains(t, string(data), "go_goroutines")
}

func TestLookupInvalidUID(t *testing.T) {
	for _, arg := range []string{"abc", "-1", "4294967296"} {
		t.Run(arg, func(t *testing.T) {
			_, err := execute(t, context.Background(), "lookup", "uid", "--", arg)
			require.Error(t, err)
			assert.Equal(t, cmdutil.ExitError, cmdutil.ExitCode(err))
		})
	}
}

func TestResolve(t *testing.T) {
	path := writeClientConfig(t, `baseUrls:
  - https://sysauth.example.com
nssSocketAddresses:
  - from: sysauth.example.com:443
    to: 10.0.0.5:8443
  - from: sysauth.example.com:443
    to: not-an-address
  - from: sysauth.example.com:443
    to: "[fd00::5]:443"
`)

	t.Run("JSON", func(t *testing.T) {
		out, err := execute(t, context.Background(), "resolve", "sysauth.example.com:443", "--config", path, "-o", "json")
		require.NoError(t, err)

		var got resolution
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "sysauth.example.com:443", got.Netloc)
		assert.Equal(t, []string{"10.0.0.5:8443", "[fd00::5]:443"}, got.Addresses)
	})

	t.Run("NoOverride", func(t *testing.T) {
		out, err := execute(t, context.Background(), "resolve", "other.example.com:443", "--config", path, "-o", "table", "--no-color")
		require.NoError(t, err)
		assert.Contains(t, out, "system resolver")
	})

	t.Run("BadConfig", func(t *testing.T) {
		_, err := execute(t, context.Background(), "resolve", "x:1", "--config", filepath.Join(t.TempDir(), "none.yaml"))
		require.Error(t, err)
	})
}

func TestConfigInitValidateShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "sysauth-client.yaml")

	out, err := execute(t, context.Background(), "config", "init", "--config", path, "--no-color", "--force=false")
	require.NoError(t, err)
	assert.Contains(t, out, path)
	require.FileExists(t, path)

	_, err = execute(t, context.Background(), "config", "init", "--config", path, "--force=false")
	require.Error(t, err, "existing file is kept without --force")
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, context.Background(), "config", "init", "--config", path, "--force")
	require.NoError(t, err)

	out, err = execute(t, context.Background(), "config", "validate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Validation: OK")
	assert.Contains(t, out, "https://sysauth.example.com")

	out, err = execute(t, context.Background(), "config", "show", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "baseUrls:")
	assert.Contains(t, out, "timeout: 5s")
}

func TestConfigValidateWarnings(t *testing.T) {
	path := writeClientConfig(t, `baseUrls:
  - http://sysauth.internal
  - http://sysauth-backup.internal
nssSocketAddresses:
  - from: sysauth.internal:80
    to: sysauth-backend:80
`)

	out, err := execute(t, context.Background(), "config", "validate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "only the first is used")
	assert.Contains(t, out, "plain HTTP")
	assert.Contains(t, out, "will be skipped")
}

func TestConfigValidateInvalid(t *testing.T) {
	path := writeClientConfig(t, "baseUrls: []\n")

	_, err := execute(t, context.Background(), "config", "validate", "--config", path)
	require.Error(t, err)
}

func TestServe(t *testing.T) {
	t.Cleanup(metrics.Reset)

	records := filepath.Join(t.TempDir(), "records.yaml")
	require.NoError(t, os.WriteFile(records, []byte("users:\n  - name: bob\n    uid: 1002\n    gid: 100\n"), 0644))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := execute(t, ctx, "serve", "--records", records, "--listen", "127.0.0.1:0")
	require.NoError(t, err, "cancelling the context shuts the server down cleanly")
	assert.Less(t, time.Since(start), 10*time.Second)
}

func TestServeMissingRecords(t *testing.T) {
	_, err := execute(t, context.Background(), "serve", "--records", filepath.Join(t.TempDir(), "none.yaml"), "--metrics=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load records")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, context.Background(), "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)

	out, err = execute(t, context.Background(), "version", "--short=false")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "sysauth "+Version))
	assert.Contains(t, out, "Go version:")
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, context.Background(), "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "sysauth")

	_, err = execute(t, context.Background(), "completion", "tcsh")
	require.Error(t, err)
}
