package metrics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/quest-forge/internal/metrics"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.ChoiceResolved("ok")
		m.LevelsGained(2)
		m.SessionCreated("mage")
		m.GenerationAttempt("model", "success", time.Second)
		m.WatcherOpened()
		m.WatcherClosed()
	})
	assert.Nil(t, m.Registry())
}

func TestCounters(t *testing.T) {
	m := metrics.New()
	m.ChoiceResolved("ok")
	m.ChoiceResolved("ok")
	m.LevelsGained(2)
	m.LevelsGained(0)

	expected := `
# HELP questforge_level_ups_total Levels gained across all sessions.
# TYPE questforge_level_ups_total counter
questforge_level_ups_total 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"questforge_level_ups_total"))

	expected = `
# HELP questforge_choices_total Player choices submitted, partitioned by outcome.
# TYPE questforge_choices_total counter
questforge_choices_total{outcome="ok"} 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"questforge_choices_total"))
}
