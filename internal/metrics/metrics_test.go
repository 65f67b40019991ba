package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zalathar/gecode/pkg/search"
)

func TestCollectorExportsStatistics(t *testing.T) {
	c := NewCollector(func() search.Statistics {
		return search.Statistics{Node: 42, Fail: 7, Propagate: 99, Depth: 5, Memory: 3, Restart: 2}
	})

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	expected := `
# HELP gecode_search_nodes_total Number of search nodes expanded.
# TYPE gecode_search_nodes_total counter
gecode_search_nodes_total 42
# HELP gecode_search_failures_total Number of failed search nodes.
# TYPE gecode_search_failures_total counter
gecode_search_failures_total 7
# HELP gecode_search_peak_depth Peak depth of any worker's path.
# TYPE gecode_search_peak_depth gauge
gecode_search_peak_depth 5
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"gecode_search_nodes_total",
		"gecode_search_failures_total",
		"gecode_search_peak_depth"))

	assert.Equal(t, 6, testutil.CollectAndCount(c))
}
