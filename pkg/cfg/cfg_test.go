package cfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/galdor/go-influx/pkg/influx"
	"github.com/galdor/go-influx/pkg/influxtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCfgFile(t *testing.T, content string) string {
	t.Helper()

	filePath := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(filePath, []byte(content), 0600))

	return filePath
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("INFLUX_PASSWORD", "s3cr3t")

	filePath := writeCfgFile(t, `
uri: "http://influx.example.com:8086"
username: "admin"
password: {{ env "INFLUX_PASSWORD" | quote }}
log_requests: true
`)

	var clientCfg influx.ClientCfg
	if assert.NoError(Load(filePath, nil, &clientCfg)) {
		assert.Equal("http://influx.example.com:8086", clientCfg.URI)
		assert.Equal("admin", clientCfg.Username)
		assert.Equal("s3cr3t", clientCfg.Password)
		assert.True(clientCfg.LogRequests)
	}
}

func TestLoadInvalid(t *testing.T) {
	assert := assert.New(t)

	var clientCfg influx.ClientCfg

	err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil, &clientCfg)
	assert.Error(err)

	filePath := writeCfgFile(t, `password: "s3cr3t"`)
	assert.Error(Load(filePath, nil, &clientCfg))

	filePath = writeCfgFile(t, `uri: {{ .Missing }}`)
	assert.Error(Load(filePath, map[string]string{}, &clientCfg))

	filePath = writeCfgFile(t, "uri: [\n")
	assert.Error(Load(filePath, nil, &clientCfg))
}

func TestYAMLValueToJSONValue(t *testing.T) {
	assert := assert.New(t)

	value, err := YAMLValueToJSONValue(map[interface{}]interface{}{
		"a": []interface{}{1, map[interface{}]interface{}{"b": true}},
	})
	if assert.NoError(err) {
		assert.Equal(map[string]interface{}{
			"a": []interface{}{1, map[string]interface{}{"b": true}},
		}, value)
	}

	_, err = YAMLValueToJSONValue(map[interface{}]interface{}{42: "x"})
	assert.Error(err)
}

func TestRender(t *testing.T) {
	assert := assert.New(t)

	data, err := Render("test.yaml",
		[]byte(`tags: {{ range split "," .Tags }}[{{ . }}]{{ end }}`),
		map[string]string{"Tags": "a,b"})
	if assert.NoError(err) {
		assert.Equal("tags: [a][b]", string(data))
	}
}

func TestLoadHTTPCfg(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	server := influxtest.NewServer(influxtest.ServerCfg{TLS: true})
	defer server.Close()

	caFilePath := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(os.WriteFile(caFilePath, server.CertificatePEM(), 0600))

	filePath := writeCfgFile(t, `
uri: {{ .URI | quote }}
http:
  timeout: 5
  tls:
    ca_certificates:
      - {{ .CACertificate | quote }}
`)

	templateData := map[string]string{
		"URI":           server.URI,
		"CACertificate": caFilePath,
	}

	var clientCfg influx.ClientCfg
	require.NoError(Load(filePath, templateData, &clientCfg))

	require.NotNil(clientCfg.HTTP)
	assert.Equal(5, clientCfg.HTTP.Timeout)
	if assert.NotNil(clientCfg.HTTP.TLS) {
		assert.Equal([]string{caFilePath}, clientCfg.HTTP.TLS.CACertificates)
	}

	client, err := influx.NewHTTPClient(clientCfg)
	require.NoError(err)
	defer client.Close()

	assert.Equal(5*time.Second, client.HTTPClient.Timeout)
	assert.True(client.Ping())

	// Without the CA certificate, the server certificate cannot be verified
	untrustedClient, err := influx.NewHTTPClient(influx.ClientCfg{
		URI: server.URI,
	})
	require.NoError(err)
	defer untrustedClient.Close()

	assert.False(untrustedClient.Ping())
	assert.Len(server.Requests(), 1)
}

func TestLoadHTTPCfgInvalid(t *testing.T) {
	assert := assert.New(t)

	var clientCfg influx.ClientCfg

	filePath := writeCfgFile(t, `
http:
  tls:
    ca_certificates: [""]
`)
	assert.Error(Load(filePath, nil, &clientCfg))

	filePath = writeCfgFile(t, `
http:
  tls:
    ca_certificates: ["/does/not/exist.pem"]
`)
	if assert.NoError(Load(filePath, nil, &clientCfg)) {
		_, err := influx.NewHTTPClient(clientCfg)
		assert.Error(err)
	}
}
