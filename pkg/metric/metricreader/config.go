package metricreader

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/relaycore/metrickit/pkg/config/xconf"
)

// readerConfig mirrors the "reader" key of a loaded xconf.Config for
// koanf/mapstructure unmarshaling.
type readerConfig struct {
	IntervalSeconds int `koanf:"interval_seconds"`
	TimeoutSeconds  int `koanf:"timeout_seconds"`
}

// LoadInterval reads the reader.interval_seconds / reader.timeout_seconds
// keys from cfg, returning zero durations for any key absent from the
// config (callers should fall back to their own defaults in that case).
func LoadInterval(cfg xconf.Config) (interval, timeout time.Duration, err error) {
	var rc readerConfig
	if err := cfg.Unmarshal("reader", &rc); err != nil {
		return 0, 0, fmt.Errorf("metricreader: unmarshal reader config: %w", err)
	}
	return time.Duration(rc.IntervalSeconds) * time.Second, time.Duration(rc.TimeoutSeconds) * time.Second, nil
}

// WatchInterval installs an xconf.Watch callback that reloads
// reader.interval_seconds / reader.timeout_seconds on every config file
// change and applies them to reader via SetInterval/SetTimeout,
// without restarting the collection loop (§4.9 hot reload, Testable
// Properties scenario 7).
func WatchInterval(cfg xconf.Config, reader *PeriodicExportingMetricReader) (*xconf.Watcher, error) {
	return xconf.Watch(cfg, func(c xconf.Config, reloadErr error) {
		if reloadErr != nil {
			reader.log.Warn("metricreader: config reload failed", slog.Any("error", reloadErr))
			return
		}
		interval, timeout, err := LoadInterval(c)
		if err != nil {
			reader.log.Warn("metricreader: invalid reader config after reload", slog.Any("error", err))
			return
		}
		if interval > 0 {
			reader.SetInterval(interval)
		}
		if timeout > 0 {
			reader.SetTimeout(timeout)
		}
	})
}
