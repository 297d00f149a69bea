package middleware

import (
	"errors"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Metrics stores process-wide request counters.
type Metrics struct {
	requestsTotal      atomic.Uint64
	requestsInProgress atomic.Int64
	requestsSuccess    atomic.Uint64
	requestsFailed     atomic.Uint64
	rateLimited        atomic.Uint64
	analysesTotal      atomic.Uint64
	analysesFailed     atomic.Uint64
	providerRetries    atomic.Uint64
	extractionsTotal   atomic.Uint64
	startTime          time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

func (m *Metrics) IncrementRateLimited()     { m.rateLimited.Add(1) }
func (m *Metrics) IncrementAnalyses()        { m.analysesTotal.Add(1) }
func (m *Metrics) IncrementAnalysesFailed()  { m.analysesFailed.Add(1) }
func (m *Metrics) IncrementProviderRetries() { m.providerRetries.Add(1) }
func (m *Metrics) IncrementExtractions()     { m.extractionsTotal.Add(1) }

// Snapshot returns the current counters plus runtime figures.
func (m *Metrics) Snapshot() map[string]interface{} {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return map[string]interface{}{
		"requests_total":       m.requestsTotal.Load(),
		"requests_in_progress": m.requestsInProgress.Load(),
		"requests_success":     m.requestsSuccess.Load(),
		"requests_failed":      m.requestsFailed.Load(),
		"rate_limited_total":   m.rateLimited.Load(),
		"analyses_total":       m.analysesTotal.Load(),
		"analyses_failed":      m.analysesFailed.Load(),
		"provider_retries":     m.providerRetries.Load(),
		"extractions_total":    m.extractionsTotal.Load(),
		"uptime_seconds":       time.Since(m.startTime).Seconds(),
		"memory": map[string]interface{}{
			"alloc_bytes": mem.Alloc,
			"sys_bytes":   mem.Sys,
			"num_gc":      mem.NumGC,
		},
		"goroutines": runtime.NumGoroutine(),
	}
}

// Track counts every request and classifies it by final status code.
func (m *Metrics) Track() fiber.Handler {
	return func(c *fiber.Ctx) error {
		m.requestsTotal.Add(1)
		m.requestsInProgress.Add(1)
		defer m.requestsInProgress.Add(-1)

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError

			var statusErr interface{ Status() int }
			var fiberErr *fiber.Error
			switch {
			case errors.As(err, &statusErr):
				status = statusErr.Status()
			case errors.As(err, &fiberErr):
				status = fiberErr.Code
			}
		}

		if status >= 200 && status < 400 {
			m.requestsSuccess.Add(1)
		} else {
			m.requestsFailed.Add(1)
		}

		return err
	}
}
