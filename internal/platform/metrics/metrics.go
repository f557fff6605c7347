package metrics

import (
	"sync/atomic"
	"time"
)

// Collector keeps process-local HTTP counters for the /metrics endpoint.
type Collector struct {
	requests     atomic.Uint64
	clientErrors atomic.Uint64
	serverErrors atomic.Uint64
	rateLimited  atomic.Uint64
	unauthorized atomic.Uint64
	durationMs   atomic.Uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.requests.Add(1)
	switch {
	case status >= 500:
		c.serverErrors.Add(1)
	case status >= 400:
		c.clientErrors.Add(1)
	}
	switch status {
	case 429:
		c.rateLimited.Add(1)
	case 401:
		c.unauthorized.Add(1)
	}
	c.durationMs.Add(uint64(duration.Milliseconds()))
}

type Snapshot struct {
	RequestsTotal     uint64  `json:"requests_total"`
	ClientErrorsTotal uint64  `json:"client_errors_total"`
	ServerErrorsTotal uint64  `json:"server_errors_total"`
	RateLimitedTotal  uint64  `json:"rate_limited_total"`
	UnauthorizedTotal uint64  `json:"unauthorized_total"`
	AvgDurationMs     float64 `json:"avg_duration_ms"`
}

func (c *Collector) Snapshot() Snapshot {
	total := c.requests.Load()
	totalMs := c.durationMs.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return Snapshot{
		RequestsTotal:     total,
		ClientErrorsTotal: c.clientErrors.Load(),
		ServerErrorsTotal: c.serverErrors.Load(),
		RateLimitedTotal:  c.rateLimited.Load(),
		UnauthorizedTotal: c.unauthorized.Load(),
		AvgDurationMs:     avg,
	}
}
