package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type overrideRow struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, []overrideRow{
		{From: "svc.local:443", To: "10.0.0.5:443"},
		{From: "svc.local:443", To: "[fd00::5]:443"},
	}))

	assert.Equal(t, `[
  {
    "from": "svc.local:443",
    "to": "10.0.0.5:443"
  },
  {
    "from": "svc.local:443",
    "to": "[fd00::5]:443"
  }
]
`, buf.String())
}

func TestPrintYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintYAML(&buf, []overrideRow{{From: "alpha", To: "beta"}}))

	assert.Equal(t, "- from: alpha\n  to: beta\n", buf.String())
}
