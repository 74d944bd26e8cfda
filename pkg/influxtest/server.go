// Package influxtest provides an in-process HTTP server implementing the
// ping, write and query endpoints of the database API, for use in tests.
package influxtest

import (
	"crypto/subtle"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/julienschmidt/httprouter"
)

type ServerCfg struct {
	// Zero values mean 204 for ping and write, and 200 for query.
	PingStatus  int
	WriteStatus int
	QueryStatus int

	QueryBody string

	// When set, requests without these basic credentials are rejected with
	// a 401 status.
	Username string
	Password string

	// Serve HTTPS with a self-signed certificate.
	TLS bool
}

type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   string

	Username string
	Password string
	HasAuth  bool
}

type Server struct {
	Cfg ServerCfg

	URI string

	server *httptest.Server

	requests []Request
	lock     sync.Mutex
}

func NewServer(cfg ServerCfg) *Server {
	if cfg.PingStatus == 0 {
		cfg.PingStatus = http.StatusNoContent
	}

	if cfg.WriteStatus == 0 {
		cfg.WriteStatus = http.StatusNoContent
	}

	if cfg.QueryStatus == 0 {
		cfg.QueryStatus = http.StatusOK
	}

	s := &Server{
		Cfg: cfg,
	}

	router := httprouter.New()
	router.GET("/ping", s.hPing)
	router.POST("/write", s.hWrite)
	router.GET("/query", s.hQuery)

	if cfg.TLS {
		s.server = httptest.NewTLSServer(router)
	} else {
		s.server = httptest.NewServer(router)
	}
	s.URI = s.server.URL

	return s
}

func (s *Server) Close() {
	s.server.Close()
}

// CertificatePEM returns the PEM encoding of the certificate used by a TLS
// server.
func (s *Server) CertificatePEM() []byte {
	certificate := s.server.Certificate()
	if certificate == nil {
		return nil
	}

	block := pem.Block{
		Type:  "CERTIFICATE",
		Bytes: certificate.Raw,
	}

	return pem.EncodeToMemory(&block)
}

// Requests returns a copy of all the requests received so far.
func (s *Server) Requests() []Request {
	s.lock.Lock()
	defer s.lock.Unlock()

	requests := make([]Request, len(s.requests))
	copy(requests, s.requests)

	return requests
}

// LastRequest returns the last request received. The second return value is
// false if no request was received.
func (s *Server) LastRequest() (Request, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if len(s.requests) == 0 {
		return Request{}, false
	}

	return s.requests[len(s.requests)-1], true
}

func (s *Server) hPing(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	if !s.handleRequest(w, req) {
		return
	}

	w.WriteHeader(s.Cfg.PingStatus)
}

func (s *Server) hWrite(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	if !s.handleRequest(w, req) {
		return
	}

	if !req.URL.Query().Has("db") {
		s.replyError(w, http.StatusBadRequest, "database is required")
		return
	}

	if s.Cfg.WriteStatus != http.StatusNoContent {
		s.replyError(w, s.Cfg.WriteStatus, "unable to parse points")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) hQuery(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	if !s.handleRequest(w, req) {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(s.Cfg.QueryStatus)
	io.WriteString(w, s.Cfg.QueryBody)
}

func (s *Server) handleRequest(w http.ResponseWriter, req *http.Request) bool {
	s.recordRequest(req)

	if s.Cfg.Username == "" {
		return true
	}

	username, password, _ := req.BasicAuth()

	if !equalStrings(username, s.Cfg.Username) ||
		!equalStrings(password, s.Cfg.Password) {
		s.replyError(w, http.StatusUnauthorized, "authorization failed")
		return false
	}

	return true
}

func (s *Server) replyError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, `{"error":"`+message+`"}`)
}

func (s *Server) recordRequest(req *http.Request) {
	body, _ := io.ReadAll(req.Body)

	r := Request{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.Query(),
		Header: req.Header.Clone(),
		Body:   string(body),
	}

	r.Username, r.Password, r.HasAuth = req.BasicAuth()

	s.lock.Lock()
	s.requests = append(s.requests, r)
	s.lock.Unlock()
}

func equalStrings(s1, s2 string) bool {
	return subtle.ConstantTimeCompare([]byte(s1), []byte(s2)) == 1
}
