package metricreader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaycore/metrickit/pkg/config/xconf"
	"github.com/relaycore/metrickit/pkg/metric/metricsdk"
)

func writeReaderConfig(t *testing.T, path string, intervalSeconds, timeoutSeconds int) {
	t.Helper()
	content := []byte(
		"reader:\n" +
			"  interval_seconds: " + itoa(intervalSeconds) + "\n" +
			"  timeout_seconds: " + itoa(timeoutSeconds) + "\n",
	)
	require.NoError(t, os.WriteFile(path, content, 0o644))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := ""
	for n > 0 {
		digits = string(rune('0'+n%10)) + digits
		n /= 10
	}
	return digits
}

func TestLoadInterval_ReadsReaderSection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeReaderConfig(t, path, 30, 5)

	cfg, err := xconf.New(path)
	require.NoError(t, err)

	interval, timeout, err := LoadInterval(cfg)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, interval)
	assert.Equal(t, 5*time.Second, timeout)
}

func TestWatchInterval_AppliesHotReloadWithoutRestart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeReaderConfig(t, path, 1, 1)

	cfg, err := xconf.New(path)
	require.NoError(t, err)

	manual, err := NewManualMetricReader(metricsdk.NewMeterProviderBuilder().Build(), &captureExporter{})
	require.NoError(t, err)
	reader := NewPeriodicExportingMetricReader(manual, time.Hour, time.Hour)

	watcher, err := WatchInterval(cfg, reader)
	require.NoError(t, err)
	watcher.StartAsync()
	t.Cleanup(func() { _ = watcher.Stop() })

	writeReaderConfig(t, path, 2, 3)

	assert.Eventually(t, func() bool {
		return reader.currentInterval() == 2*time.Second && reader.currentTimeout() == 3*time.Second
	}, 2*time.Second, 20*time.Millisecond)
}

func TestWatchInterval_RejectsBytesBackedConfig(t *testing.T) {
	cfg, err := xconf.NewFromBytes([]byte("reader:\n  interval_seconds: 1\n"), xconf.FormatYAML)
	require.NoError(t, err)

	manual, err := NewManualMetricReader(metricsdk.NewMeterProviderBuilder().Build(), &captureExporter{})
	require.NoError(t, err)
	reader := NewPeriodicExportingMetricReader(manual, time.Hour, time.Hour)

	_, err = WatchInterval(cfg, reader)
	require.Error(t, err)
}
