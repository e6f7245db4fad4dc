package config

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sysconfig "github.com/marmos91/sysauth/pkg/config"
)

func TestGenerateSchema(t *testing.T) {
	data, err := generateSchema()
	require.NoError(t, err)

	var schema struct {
		Title      string                     `json:"title"`
		Properties map[string]json.RawMessage `json:"properties"`
	}
	require.NoError(t, json.Unmarshal(data, &schema))

	assert.Equal(t, "sysauth client configuration", schema.Title)
	assert.Contains(t, schema.Properties, "baseUrls")
	assert.Contains(t, schema.Properties, "nssSocketAddresses")
	assert.Contains(t, schema.Properties, "timeout")
}

func TestValidateBaseURL(t *testing.T) {
	assert.NoError(t, validateBaseURL("https://sysauth.example.com"))
	assert.NoError(t, validateBaseURL("http://10.0.0.5:8080"))
	assert.Error(t, validateBaseURL("sysauth.example.com"))
	assert.Error(t, validateBaseURL("ftp://sysauth.example.com"))
	assert.Error(t, validateBaseURL(""))
}

func TestValidateOverride(t *testing.T) {
	assert.NoError(t, validateOverride(""))
	assert.NoError(t, validateOverride("10.0.0.5:8443"))
	assert.NoError(t, validateOverride("[fd00::5]:443"))
	assert.Error(t, validateOverride("backend:443"))
	assert.Error(t, validateOverride("10.0.0.5"))
}

func TestConfigWarningsClean(t *testing.T) {
	assert.Empty(t, configWarnings(defaultConfigForTest()))
}

func defaultConfigForTest() *sysconfig.Config {
	return sysconfig.GetDefaultConfig()
}
