package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, []string{"NAME", "LOGO"}, [][]string{{"Acme", ""}, {"Globex", "https://cdn/x.png"}})

	out := buf.String()
	assert.Contains(t, out, "NAME    LOGO")
	assert.Contains(t, out, "----    ----")
	assert.Contains(t, out, "Acme    -")
	assert.Contains(t, out, "Globex  https://cdn/x.png")
}

func TestWriteTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, []string{"NAME"}, nil)
	assert.Contains(t, buf.String(), "No results")
}

func TestEncode(t *testing.T) {
	v := map[string]any{"name": "Acme"}

	var js bytes.Buffer
	require.NoError(t, Encode(&js, FormatJSON, v))
	assert.JSONEq(t, `{"name":"Acme"}`, js.String())

	var ym bytes.Buffer
	require.NoError(t, Encode(&ym, FormatYAML, v))
	assert.YAMLEq(t, "name: Acme\n", ym.String())

	assert.Error(t, Encode(&js, "xml", v))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}
