package cmdutil

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/sysauth/internal/cli/output"
	"github.com/marmos91/sysauth/pkg/config"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"Nil", nil, ExitOK},
		{"Plain", errors.New("boom"), ExitError},
		{"ExitCodeError", &ExitCodeError{Code: ExitNotFound}, ExitNotFound},
		{"Wrapped", fmt.Errorf("lookup: %w", &ExitCodeError{Code: ExitUnavailable}), ExitUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestConfigPath(t *testing.T) {
	defer func(old string) { Flags.ConfigPath = old }(Flags.ConfigPath)

	Flags.ConfigPath = ""
	assert.Equal(t, config.DefaultPath, ConfigPath())

	Flags.ConfigPath = "/tmp/custom.yaml"
	assert.Equal(t, "/tmp/custom.yaml", ConfigPath())
}

func TestGetPrinter(t *testing.T) {
	defer func(old string) { Flags.Output = old }(Flags.Output)

	Flags.Output = "passwd"
	p, err := GetPrinter(&bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, output.FormatPasswd, p.Format())

	Flags.Output = "xml"
	_, err = GetPrinter(&bytes.Buffer{})
	assert.Error(t, err)
}
