// Package errors collects the non-fatal problems the asset pipeline runs
// into. Nothing in the pipeline aborts a request: a missing source is
// omitted, a failed cache read is a miss. The collector exists so batch
// runs can still report what was skipped.
package errors

import (
	"fmt"
	"sync"
	"time"
)

// AssetError describes one degraded item in a pipeline run.
type AssetError struct {
	Asset     string
	Path      string
	Message   string
	Severity  Severity
	Timestamp time.Time
}

// Severity represents the severity of an asset error
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Error implements the error interface
func (ae *AssetError) Error() string {
	return fmt.Sprintf("%s (%s): %s: %s", ae.Asset, ae.Path, ae.Severity, ae.Message)
}

// Collector accumulates asset errors across a pipeline run.
type Collector struct {
	errors []AssetError
	mutex  sync.RWMutex
}

// NewCollector creates a new error collector
func NewCollector() *Collector {
	return &Collector{
		errors: make([]AssetError, 0),
	}
}

// Add records an asset error.
func (c *Collector) Add(err AssetError) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	err.Timestamp = time.Now()
	c.errors = append(c.errors, err)
}

// Skipped is shorthand for recording a silently omitted asset.
func (c *Collector) Skipped(asset, path, reason string) {
	c.Add(AssetError{
		Asset:    asset,
		Path:     path,
		Message:  reason,
		Severity: SeverityWarning,
	})
}

// Errors returns a copy of all collected errors.
func (c *Collector) Errors() []AssetError {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	result := make([]AssetError, len(c.errors))
	copy(result, c.errors)
	return result
}

// HasErrors returns true if anything was collected.
func (c *Collector) HasErrors() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.errors) > 0
}

// Clear resets the collector.
func (c *Collector) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.errors = c.errors[:0]
}
