package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccollicutt/mipscan/pkg/progress"
)

func table(t *testing.T, rows ...[]string) *progress.Table {
	t.Helper()
	tb := progress.NewTable(progress.Node, progress.NodesLeft, progress.BestInteger, progress.CutsBestBound)
	for _, r := range rows {
		require.NoError(t, tb.Append(r...))
	}
	return tb
}

func TestFirstRelaxation(t *testing.T) {
	tb := table(t,
		[]string{"0", "0", "", "Cuts: 12"},
		[]string{"0", "0", "", "105.5"},
		[]string{"0", "2", "90", "104"},
	)
	got := FirstRelaxation(tb)
	require.NotNil(t, got)
	assert.Equal(t, 105.5, *got)

	assert.Nil(t, FirstRelaxation(table(t, []string{"0", "0", "", "Cuts: 3"})))
	assert.Nil(t, FirstRelaxation(progress.NewTable(progress.CutsBestBound)))
}

func TestFirstSolution_SkipsSentinel(t *testing.T) {
	tb := table(t,
		[]string{"0", "1", "1e+50", "12.5"},
		[]string{"100", "40", "1e+50", "13"},
		[]string{"200", "35", "20", "13.5"},
	)
	got := FirstSolution(tb)
	require.NotNil(t, got)
	assert.Equal(t, 200.0, *got.Node)
	assert.Equal(t, 35.0, *got.NodesLeft)
	assert.Equal(t, 20.0, *got.BestInteger)
	assert.Equal(t, 13.5, *got.CutsBestBound)
}

func TestFirstSolution_OnlySentinel(t *testing.T) {
	tb := table(t,
		[]string{"0", "1", "1e+50", "12.5"},
		[]string{"100", "40", "1e+50", "13"},
	)
	assert.Nil(t, FirstSolution(tb))
}

func TestFirstSolution_TextualBound(t *testing.T) {
	tb := table(t, []string{"0", "0", "42", "Cuts: 4"})
	got := FirstSolution(tb)
	require.NotNil(t, got)
	assert.Equal(t, 42.0, *got.BestInteger)
	assert.Nil(t, got.CutsBestBound)
}

func TestResultsAfterCuts(t *testing.T) {
	tb := table(t,
		[]string{"0", "0", "", "100"},
		[]string{"0", "0", "50", "Cuts: 10"},
		[]string{"0", "2", "48", "96.5"},
		[]string{"10", "8", "47", "95"},
	)
	got, ok := ResultsAfterCuts(tb)
	require.True(t, ok)
	require.NotNil(t, got.Bound)
	require.NotNil(t, got.Solution)
	assert.Equal(t, 96.5, *got.Bound)
	assert.Equal(t, 48.0, *got.Solution)
}

func TestResultsAfterCuts_Sentinel(t *testing.T) {
	tb := table(t, []string{"0", "1", "1e+50", "12"})
	got, ok := ResultsAfterCuts(tb)
	require.True(t, ok)
	assert.Nil(t, got.Solution)
	require.NotNil(t, got.Bound)
	assert.Equal(t, 12.0, *got.Bound)
}

func TestResultsAfterCuts_NoBoundary(t *testing.T) {
	tb := table(t, []string{"100", "40", "20", "13"})
	_, ok := ResultsAfterCuts(tb)
	assert.False(t, ok)
}

func TestCutsEndRow(t *testing.T) {
	tb := table(t,
		[]string{"0", "0", "", "100"},
		[]string{"0", "2", "48", "96.5"},
	)
	row, ok := CutsEndRow(tb)
	require.True(t, ok)
	assert.Equal(t, 1, row)

	row, ok = CutsEndRow(table(t, []string{"5", "3", "1", "1"}))
	require.True(t, ok)
	assert.Equal(t, 0, row)

	_, ok = CutsEndRow(progress.NewTable(progress.Node))
	assert.False(t, ok)
}
