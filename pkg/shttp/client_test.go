package shttp

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/galdor/go-log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientHeader(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	var userAgent string

	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, req *http.Request) {
			userAgent = req.Header.Get("User-Agent")
			w.WriteHeader(http.StatusNoContent)
		}))
	defer server.Close()

	header := http.Header{}
	header.Set("User-Agent", "go-influx")

	client, err := NewClient(ClientCfg{
		Log:         log.DefaultLogger("test"),
		LogRequests: true,
		Header:      header,
	})
	require.NoError(err)
	defer client.CloseConnections()

	req, err := http.NewRequest("GET", server.URL+"/ping", nil)
	require.NoError(err)

	res, err := client.Do(req)
	require.NoError(err)
	res.Body.Close()

	assert.Equal(http.StatusNoContent, res.StatusCode)
	assert.Equal("go-influx", userAgent)

	// The request passed by the caller is left untouched
	assert.Empty(req.Header.Get("User-Agent"))
}

func TestClientTimeout(t *testing.T) {
	assert := assert.New(t)

	client, err := NewClient(ClientCfg{Timeout: 5})
	if assert.NoError(err) {
		assert.Equal(int64(5e9), int64(client.Client.Timeout))
	}

	_, err = NewClient(ClientCfg{Timeout: -1})
	assert.Error(err)
}

func TestLoadCertificates(t *testing.T) {
	assert := assert.New(t)

	dirPath := t.TempDir()

	_, err := LoadCertificates([]string{filepath.Join(dirPath, "missing.pem")})
	assert.Error(err)

	invalidPath := filepath.Join(dirPath, "invalid.pem")
	require.NoError(t, os.WriteFile(invalidPath, []byte("foo"), 0600))

	_, err = LoadCertificates([]string{invalidPath})
	assert.Error(err)

	pool, err := LoadCertificates(nil)
	if assert.NoError(err) {
		assert.NotNil(pool)
	}

	_, err = NewClient(ClientCfg{
		TLS: &TLSClientCfg{CACertificates: []string{invalidPath}},
	})
	assert.Error(err)
}
