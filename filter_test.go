package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var filterRecords = []profileRecord{
	{name: "hotPath(void)", timePct: 50, calls: 100, selfSeconds: 0.5},
	{name: "Physics::integrate(double)", timePct: 20, calls: 50000, selfSeconds: 0.2},
	{name: "render_frame", timePct: 10, calls: 5, selfSeconds: 0.1},
}

func names(records []profileRecord) []string {
	var out []string
	for _, r := range records {
		out = append(out, r.name)
	}
	return out
}

func TestRecordFilterInactive(t *testing.T) {
	f, err := newRecordFilter("", "")
	require.NoError(t, err)
	assert.False(t, f.active())
	got, err := f.apply(filterRecords)
	require.NoError(t, err)
	assert.Equal(t, filterRecords, got)

	var nilFilter *recordFilter
	got, err = nilFilter.apply(filterRecords)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestRecordFilterMethod(t *testing.T) {
	f, err := newRecordFilter("Physics", "")
	require.NoError(t, err)
	got, err := f.apply(filterRecords)
	require.NoError(t, err)
	assert.Equal(t, []string{"Physics::integrate(double)"}, names(got))
}

func TestRecordFilterWhere(t *testing.T) {
	tests := []struct {
		expr string
		want []string
	}{
		{"calls > 50", []string{"hotPath(void)", "Physics::integrate(double)"}},
		{"pct >= 20 and calls < 1000", []string{"hotPath(void)"}},
		{`"render" in name`, []string{"render_frame"}},
		{"self > 0.15", []string{"hotPath(void)", "Physics::integrate(double)"}},
		{"False", nil},
	}
	for _, tt := range tests {
		f, err := newRecordFilter("", tt.expr)
		require.NoError(t, err, tt.expr)
		got, err := f.apply(filterRecords)
		require.NoError(t, err, tt.expr)
		assert.Equal(t, tt.want, names(got), tt.expr)
	}
}

func TestRecordFilterCombined(t *testing.T) {
	f, err := newRecordFilter("a", "calls > 10")
	require.NoError(t, err)
	got, err := f.apply(filterRecords)
	require.NoError(t, err)
	assert.Equal(t, []string{"hotPath(void)", "Physics::integrate(double)"}, names(got))
}

func TestRecordFilterBadExpression(t *testing.T) {
	for _, expr := range []string{"calls >", "unknown_name > 1", "1 +"} {
		_, err := newRecordFilter("", expr)
		assert.Error(t, err, expr)
	}
}

func TestRecordFilterDividesByColumn(t *testing.T) {
	f, err := newRecordFilter("", "self / calls > 0.001")
	require.NoError(t, err)
	got, err := f.apply(filterRecords)
	require.NoError(t, err)
	assert.Equal(t, []string{"hotPath(void)", "render_frame"}, names(got))

	_, err = f.apply([]profileRecord{{name: "never_called", calls: 0, selfSeconds: 0.1}})
	assert.Error(t, err)
}

func TestRunWhereFiltersEverything(t *testing.T) {
	report := writeReport(t, sampleReport)
	code := run([]string{"--where", "calls > 1000000", "hot", report})
	assert.Equal(t, 1, code)
}
