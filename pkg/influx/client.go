package influx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/galdor/go-ejson"
	"github.com/galdor/go-influx/pkg/shttp"
	"github.com/galdor/go-influx/pkg/utils"
	"github.com/galdor/go-log"
)

const DefaultURI = "http://localhost:8086"

var errMissingBatch = errors.New("missing batch")

type Client interface {
	Ping() bool
	Write(*BatchPoints) bool
	Query(query, database string) string
}

type ClientCfg struct {
	Log        *log.Logger  `json:"-"`
	HTTPClient *http.Client `json:"-"`

	URI         string `json:"uri"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
	LogRequests bool   `json:"log_requests,omitempty"`

	// Ignored when HTTPClient is set.
	HTTP *shttp.ClientCfg `json:"http,omitempty"`
}

// HTTPClient talks to the HTTP API of the database. It only holds immutable
// configuration and can be shared between goroutines.
type HTTPClient struct {
	Cfg        ClientCfg
	Log        *log.Logger
	HTTPClient *http.Client

	uri         *url.URL
	credentials *credentials
}

type credentials struct {
	username string
	password string
}

var _ Client = (*HTTPClient)(nil)

// StatusError is returned when the server answers with an unexpected status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (err *StatusError) Error() string {
	body := err.Body

	// Error responses sometimes include the entire payload received.
	if len(body) > 200 {
		body = body[:200] + " [truncated]"
	}

	if body == "" {
		return fmt.Sprintf("request failed with status %d", err.StatusCode)
	}

	return fmt.Sprintf("request failed with status %d (%s)",
		err.StatusCode, body)
}

func (cfg *ClientCfg) ValidateJSON(v *ejson.Validator) {
	if cfg.URI != "" {
		v.CheckStringURI("uri", cfg.URI)
	}

	if cfg.Password != "" {
		v.CheckStringNotEmpty("username", cfg.Username)
	}

	v.CheckOptionalObject("http", cfg.HTTP)
}

func NewHTTPClient(cfg ClientCfg) (*HTTPClient, error) {
	if cfg.Log == nil {
		cfg.Log = log.DefaultLogger("influx")
	}

	if cfg.URI == "" {
		cfg.URI = DefaultURI
	}

	uri, err := url.Parse(cfg.URI)
	if err != nil {
		return nil, fmt.Errorf("invalid uri: %w", err)
	}

	if uri.Scheme != "http" && uri.Scheme != "https" {
		return nil, fmt.Errorf("invalid uri %q: unsupported scheme %q",
			cfg.URI, uri.Scheme)
	}

	if cfg.HTTPClient == nil {
		var httpClientCfg shttp.ClientCfg
		if cfg.HTTP != nil {
			httpClientCfg = *cfg.HTTP
		}

		if httpClientCfg.Log == nil {
			httpClientCfg.Log = cfg.Log.Child("http", log.Data{})
		}

		httpClientCfg.LogRequests =
			httpClientCfg.LogRequests || cfg.LogRequests

		httpClient, err := shttp.NewClient(httpClientCfg)
		if err != nil {
			return nil, fmt.Errorf("cannot create http client: %w", err)
		}

		cfg.HTTPClient = httpClient.Client
	}

	c := &HTTPClient{
		Cfg:        cfg,
		Log:        cfg.Log,
		HTTPClient: cfg.HTTPClient,

		uri: uri,
	}

	if cfg.Username != "" {
		c.credentials = &credentials{
			username: cfg.Username,
			password: cfg.Password,
		}
	}

	return c, nil
}

// WithCredentials returns a copy of the client which sends HTTP basic
// credentials with every request.
func (c *HTTPClient) WithCredentials(username, password string) *HTTPClient {
	c2 := *c

	c2.Cfg.Username = username
	c2.Cfg.Password = password

	c2.credentials = &credentials{
		username: username,
		password: password,
	}

	return &c2
}

func (c *HTTPClient) Close() {
	c.HTTPClient.CloseIdleConnections()
}

// Ping returns true if the server answered the ping request with a 204
// status.
func (c *HTTPClient) Ping() bool {
	if err := c.SendPing(context.Background()); err != nil {
		c.Log.Error("cannot ping server: %v", err)
		return false
	}

	return true
}

// Write returns true if all points were accepted by the server.
func (c *HTTPClient) Write(bp *BatchPoints) bool {
	if bp == nil {
		c.Log.Error("cannot write points: %v", errMissingBatch)
		return false
	}

	if err := c.SendBatch(context.Background(), bp); err != nil {
		c.Log.Error("cannot write %d points to database %q: %v",
			len(bp.Points), bp.Database, err)
		return false
	}

	return true
}

// Query returns the response body of the query whatever the response status
// is. It panics if the request cannot be sent or if the response cannot be
// read; use SendQuery to get an error instead.
func (c *HTTPClient) Query(query, database string) string {
	body, err := c.SendQuery(context.Background(), query, database)
	if err != nil {
		utils.Panicf("cannot execute query: %v", err)
	}

	return body
}

func (c *HTTPClient) SendPing(ctx context.Context) error {
	res, err := c.sendRequest(ctx, http.MethodGet, "ping", nil, nil)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	return checkNoContent(res)
}

func (c *HTTPClient) SendBatch(ctx context.Context, bp *BatchPoints) error {
	if bp == nil {
		return errMissingBatch
	}

	var buf bytes.Buffer
	EncodePoints(bp.Points, &buf)

	query := url.Values{}
	query.Set("db", bp.Database)

	res, err := c.sendRequest(ctx, http.MethodPost, "write", query, &buf)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	return checkNoContent(res)
}

func (c *HTTPClient) SendQuery(ctx context.Context, query, database string) (string, error) {
	params := url.Values{}
	params.Set("db", database)
	params.Set("q", query)

	res, err := c.sendRequest(ctx, http.MethodGet, "query", params, nil)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("cannot read response body: %w", err)
	}

	return string(data), nil
}

func (c *HTTPClient) sendRequest(ctx context.Context, method, endpoint string, query url.Values, body *bytes.Buffer) (*http.Response, error) {
	var uri *url.URL
	if query == nil {
		uri = utils.URIJoinPath(c.uri, endpoint)
	} else {
		uri = utils.URIJoin(c.uri, endpoint, query)
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = body
	}

	req, err := http.NewRequestWithContext(ctx, method, uri.String(),
		bodyReader)
	if err != nil {
		return nil, fmt.Errorf("cannot create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	}

	if c.credentials != nil {
		req.SetBasicAuth(c.credentials.username, c.credentials.password)
	}

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot send request: %w", err)
	}

	return res, nil
}

func checkNoContent(res *http.Response) error {
	if res.StatusCode == http.StatusNoContent {
		return nil
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("cannot read response body: %w", err)
	}

	return &StatusError{
		StatusCode: res.StatusCode,
		Body:       string(data),
	}
}
