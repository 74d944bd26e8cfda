package shttp

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/galdor/go-ejson"
	"github.com/galdor/go-log"
)

type ClientCfg struct {
	Log *log.Logger `json:"-"`

	LogRequests bool `json:"log_requests,omitempty"`

	// Seconds; zero means 30 seconds.
	Timeout int `json:"timeout,omitempty"`

	TLS *TLSClientCfg `json:"tls,omitempty"`

	Header http.Header `json:"-"`
}

type TLSClientCfg struct {
	CACertificates []string `json:"ca_certificates"`
}

type Client struct {
	Cfg ClientCfg
	Log *log.Logger

	Client *http.Client
}

func (cfg *ClientCfg) ValidateJSON(v *ejson.Validator) {
	v.CheckOptionalObject("tls", cfg.TLS)
}

func (cfg *TLSClientCfg) ValidateJSON(v *ejson.Validator) {
	v.Push("ca_certificates")
	for i, certificate := range cfg.CACertificates {
		v.CheckStringNotEmpty(strconv.Itoa(i), certificate)
	}
	v.Pop()
}

func NewClient(cfg ClientCfg) (*Client, error) {
	if cfg.Log == nil {
		cfg.Log = log.DefaultLogger("http_client")
	}

	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("invalid negative timeout")
	}

	timeout := 30 * time.Second
	if cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}

	tlsCfg := &tls.Config{}

	if cfg.TLS != nil {
		caCertificatePool, err := LoadCertificates(cfg.TLS.CACertificates)
		if err != nil {
			return nil, err
		}

		tlsCfg.RootCAs = caCertificatePool
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,

		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,

		TLSClientConfig: tlsCfg,

		MaxIdleConns: 100,

		IdleConnTimeout:       60 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	c := &Client{
		Cfg: cfg,
		Log: cfg.Log,

		Client: &http.Client{
			Timeout:   timeout,
			Transport: NewRoundTripper(transport, &cfg),
		},
	}

	return c, nil
}

func (c *Client) CloseConnections() {
	c.Client.CloseIdleConnections()
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.Client.Do(req)
}

func LoadCertificates(certificates []string) (*x509.CertPool, error) {
	pool := x509.NewCertPool()

	for _, certificate := range certificates {
		data, err := os.ReadFile(certificate)
		if err != nil {
			return nil, fmt.Errorf("cannot read %q: %w", certificate, err)
		}

		if pool.AppendCertsFromPEM(data) == false {
			return nil, fmt.Errorf("cannot load certificates from %q",
				certificate)
		}
	}

	return pool, nil
}
