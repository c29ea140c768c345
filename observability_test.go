package karabo

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func gatherNames(t *testing.T, reg *prometheus.Registry) map[string]bool {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}

	return names
}

func TestNewPrometheusMetrics(t *testing.T) {
	t.Run("campaign run populates all metric families", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		collector := NewPrometheusMetrics(reg, "")

		cfg := campaignConfig(t, 2)
		campaign, err := NewCampaign(&cfg, newTestSky(), &recordingSimulator{}, WithMetrics(collector))
		require.NoError(t, err)

		_, err = campaign.Run(t.Context())
		require.NoError(t, err)

		names := gatherNames(t, reg)
		require.True(t, names["karabo_partition_chunks"])
		require.True(t, names["karabo_partition_chunk_bytes"])
		require.True(t, names["karabo_dispatch_duration_seconds"])
		require.True(t, names["karabo_dispatch_items"])
		require.True(t, names["karabo_dispatch_workers"])
		require.True(t, names["karabo_campaign_day_duration_seconds"])
		require.True(t, names["karabo_campaign_runs_total"])
	})

	t.Run("custom namespace", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		collector := NewPrometheusMetrics(reg, "astro")

		collector.RecordWorkerCount(3)

		names := gatherNames(t, reg)
		require.True(t, names["astro_dispatch_workers"])
		require.False(t, names["karabo_dispatch_workers"])
	})

	t.Run("shared registry is safe", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		first := NewPrometheusMetrics(reg, "")
		second := NewPrometheusMetrics(reg, "")

		require.NotPanics(t, func() {
			first.RecordSplit(4, 1)
			second.RecordSplit(2, 0)
		})
	})
}

func TestNewSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	cfg := campaignConfig(t, 1)
	campaign, err := NewCampaign(&cfg, newTestSky(), &recordingSimulator{}, WithLogger(logger))
	require.NoError(t, err)

	_, err = campaign.Run(t.Context())
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "campaign starting")
	require.Contains(t, out, "day complete")
}

func TestNewDefaultLogger(t *testing.T) {
	logger := NewDefaultLogger()
	require.NotNil(t, logger)
	require.NotPanics(t, func() {
		logger.Info("default logger ready", "component", "campaign")
	})
}
