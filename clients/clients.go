// Package clients holds the network clients this tool talks to; today
// that is the hosted chat-completion gateway used for qualitative
// evaluation. Nothing here is on any scoring path.
package clients

import (
	"net/http"
	"time"
)

// defaultTimeout bounds one gateway round trip; large transcripts make
// for slow completions.
const defaultTimeout = 120 * time.Second

type HTTP struct{ c *http.Client }

func NewHTTP() *HTTP { return NewHTTPWithTimeout(defaultTimeout) }

func NewHTTPWithTimeout(d time.Duration) *HTTP {
	return &HTTP{c: &http.Client{Timeout: d}}
}

// Do executes the request with the client's timeout applied.
func (h *HTTP) Do(req *http.Request) (*http.Response, error) { return h.c.Do(req) }
