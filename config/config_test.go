package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndParseConfig(t *testing.T) {
	v, err := LoadConfig("config")
	require.NoError(t, err)

	c, err := ParseConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "8080", c.Server.APIPort)
	assert.Equal(t, "8081", c.Server.WSPort)
	assert.Equal(t, "concord", c.Mongo.Database)
}

func TestResolveURIDirect(t *testing.T) {
	m := Mongo{URI: "mongodb://localhost:27017"}
	uri, err := m.ResolveURI()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017", uri)
}

func TestResolveURIMissing(t *testing.T) {
	_, err := Mongo{}.ResolveURI()
	assert.Error(t, err)
}

func TestResolveURIFromCredentialsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds")
	require.NoError(t, os.WriteFile(path, []byte("mongodb://user:pass@db:27017\n"), 0o600))

	m := Mongo{URI: "mongodb://ignored", CredentialsFile: path}
	uri, err := m.ResolveURI()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://user:pass@db:27017", uri)
}

func TestResolveURIEmptyCredentialsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	_, err := Mongo{CredentialsFile: path}.ResolveURI()
	assert.Error(t, err)
}
