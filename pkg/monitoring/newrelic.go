package monitoring

import (
	"fmt"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// Config holds New Relic configuration
type Config struct {
	LicenseKey string
	AppName    string
	Enabled    bool
}

// NewRelicApp wraps the New Relic application. A disabled app turns every call into a no-op.
type NewRelicApp struct {
	*newrelic.Application
	enabled bool
}

// New creates a new New Relic application
func New(cfg Config) (*NewRelicApp, error) {
	if !cfg.Enabled || cfg.LicenseKey == "" {
		return Disabled(), nil
	}

	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigAppLogForwardingEnabled(true),
		newrelic.ConfigDistributedTracerEnabled(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create New Relic application: %w", err)
	}

	return &NewRelicApp{app, true}, nil
}

// Disabled returns an app that records nothing
func Disabled() *NewRelicApp {
	return &NewRelicApp{nil, false}
}

// IsEnabled returns whether New Relic is enabled
func (nr *NewRelicApp) IsEnabled() bool {
	return nr != nil && nr.enabled && nr.Application != nil
}

// RecordCustomEvent records a custom event
func (nr *NewRelicApp) RecordCustomEvent(eventType string, params map[string]interface{}) {
	if !nr.IsEnabled() {
		return
	}
	nr.Application.RecordCustomEvent(eventType, params)
}

// RecordCustomMetric records a custom metric
func (nr *NewRelicApp) RecordCustomMetric(name string, value float64) {
	if !nr.IsEnabled() {
		return
	}
	nr.Application.RecordCustomMetric(name, value)
}

// Shutdown flushes pending data and stops the agent
func (nr *NewRelicApp) Shutdown(timeout time.Duration) {
	if !nr.IsEnabled() {
		return
	}
	nr.Application.Shutdown(timeout)
}

// Ledger metrics

// RecordQuery records the latency of a reporting query
func (nr *NewRelicApp) RecordQuery(op string, elapsed time.Duration) {
	nr.RecordCustomMetric(fmt.Sprintf("custom/ledger/query/%s_ms", op), float64(elapsed.Milliseconds()))
}

// RecordMutation records a Record Store write
func (nr *NewRelicApp) RecordMutation(op string, err error) {
	nr.RecordCustomEvent("LedgerMutation", map[string]interface{}{
		"op":      op,
		"success": err == nil,
	})
}

// RecordExport records a finished export run
func (nr *NewRelicApp) RecordExport(runID string, rides int, formats []string, elapsed time.Duration) {
	nr.RecordCustomEvent("LedgerExport", map[string]interface{}{
		"run_id":     runID,
		"rides":      rides,
		"formats":    len(formats),
		"elapsed_ms": elapsed.Milliseconds(),
	})
	nr.RecordCustomMetric("custom/ledger/export/rides", float64(rides))
}

// RecordDatabasePoolStats records database/sql pool statistics
func (nr *NewRelicApp) RecordDatabasePoolStats(open, inUse, idle int) {
	nr.RecordCustomMetric("custom/db/open_connections", float64(open))
	nr.RecordCustomMetric("custom/db/in_use_connections", float64(inUse))
	nr.RecordCustomMetric("custom/db/idle_connections", float64(idle))
}
