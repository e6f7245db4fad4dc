package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintTable(t *testing.T) {
	table := NewTableData("Netloc", "Address")
	table.AddRow("svc.local:443", "10.0.0.5:443")
	table.AddRow("svc.local:443", "10.0.0.6:443")

	var buf bytes.Buffer
	require.NoError(t, PrintTable(&buf, table))

	out := buf.String()
	assert.Contains(t, out, "NETLOC")
	assert.Contains(t, out, "ADDRESS")
	assert.Less(t, strings.Index(out, "NETLOC"), strings.Index(out, "10.0.0.5:443"))
	assert.Less(t, strings.Index(out, "10.0.0.5:443"), strings.Index(out, "10.0.0.6:443"), "rows keep their order")
}

func TestPrintTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintTable(&buf, NewTableData("Netloc", "Address")))

	assert.Contains(t, buf.String(), "NETLOC")
	assert.Empty(t, NewTableData("A").Rows())
}
