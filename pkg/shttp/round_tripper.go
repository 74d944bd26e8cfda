package shttp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/galdor/go-influx/pkg/utils"
	"github.com/galdor/go-log"
)

type RoundTripper struct {
	Cfg *ClientCfg
	Log *log.Logger

	http.RoundTripper
}

func NewRoundTripper(rt http.RoundTripper, cfg *ClientCfg) *RoundTripper {
	return &RoundTripper{
		Cfg: cfg,
		Log: cfg.Log,

		RoundTripper: rt,
	}
}

func (rt *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	req = rt.finalizeReq(req)

	res, err := rt.RoundTripper.RoundTrip(req)

	if rt.Cfg.LogRequests {
		rt.logRequest(req, res, err, time.Since(start).Seconds())
	}

	return res, err
}

func (rt *RoundTripper) finalizeReq(req *http.Request) *http.Request {
	if len(rt.Cfg.Header) == 0 {
		return req
	}

	// Round trippers must not modify the request they receive.
	req2 := req.Clone(req.Context())

	for name, values := range rt.Cfg.Header {
		for _, value := range values {
			req2.Header.Add(name, value)
		}
	}

	return req2
}

func (rt *RoundTripper) logRequest(req *http.Request, res *http.Response, err error, seconds float64) {
	statusString := "-"
	if res != nil {
		statusString = strconv.Itoa(res.StatusCode)
	}

	// The URI is logged without its user info so that credentials never end
	// up in logs.
	uri := *req.URL
	uri.User = nil

	if err != nil {
		rt.Log.Error("%s %s %s %s: %v", req.Method, uri.String(),
			statusString, utils.FormatSeconds(seconds, 1), err)
		return
	}

	rt.Log.Info("%s %s %s %s", req.Method, uri.String(), statusString,
		utils.FormatSeconds(seconds, 1))
}
