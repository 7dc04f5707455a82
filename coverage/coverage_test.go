package coverage

import (
	"math"
	"testing"

	"github.com/bitrise-steplib/steps-xcresult-report/model"
	"github.com/bitrise-steplib/steps-xcresult-report/xcresult"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawCoverage(executableLines, coveredLines int, lineCoverage float64, executionCounts ...int) *xcresult.CodeCoverage {
	var functions []xcresult.CoverageFunction
	for _, count := range executionCounts {
		functions = append(functions, xcresult.CoverageFunction{ExecutionCount: count})
	}

	return &xcresult.CodeCoverage{
		ExecutableLines: executableLines,
		CoveredLines:    coveredLines,
		LineCoverage:    lineCoverage,
		Targets: []xcresult.CoverageTarget{
			{
				Name: "Sample.app",
				Files: []xcresult.CoverageFile{
					{Name: "A.swift", Functions: functions},
					{Name: "B.swift", Functions: []xcresult.CoverageFunction{{ExecutionCount: 1}}},
				},
			},
		},
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(*rawCoverage(100, 80, 0.8, 3, 0, 0))

	require.Equal(t, model.CoverageSummary{
		LineCoverage:        0.8,
		FunctionCoverage:    0.5,
		ExecutableLines:     100,
		CoveredLines:        80,
		ExecutableFunctions: 4,
		CoveredFunctions:    2,
	}, summary)
}

func TestSummarize_NoFunctions(t *testing.T) {
	summary := Summarize(xcresult.CodeCoverage{ExecutableLines: 0, CoveredLines: 0, LineCoverage: 0})

	require.Equal(t, 0.0, summary.FunctionCoverage)
	require.Equal(t, 0, summary.ExecutableFunctions)
	require.Nil(t, summary.BranchCoverage)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		targetNames []string
		hasTests    bool
		want        []Class
	}{
		{name: "UI target", targetNames: []string{"SampleUITests"}, hasTests: true, want: []Class{ClassUI}},
		{name: "unit target", targetNames: []string{"SampleUnitTests"}, hasTests: true, want: []Class{ClassUnit}},
		{name: "unit and UI targets", targetNames: []string{"SampleUnitTests", "SampleUITests"}, hasTests: true, want: []Class{ClassUnit, ClassUI}},
		{name: "no matching target", targetNames: []string{"SampleTests"}, hasTests: true, want: []Class{ClassUnit}},
		{name: "no tests", targetNames: nil, hasTests: false, want: []Class{ClassUnknown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.targetNames, tt.hasTests))
		})
	}
}

func TestMerge(t *testing.T) {
	require.Nil(t, Merge())

	single := model.CoverageSummary{LineCoverage: 0.7999, ExecutableLines: 100, CoveredLines: 80}
	require.Equal(t, &single, Merge(single))

	merged := Merge(
		model.CoverageSummary{LineCoverage: 0.8, ExecutableLines: 100, CoveredLines: 80, ExecutableFunctions: 10, CoveredFunctions: 5},
		model.CoverageSummary{LineCoverage: 0.9, ExecutableLines: 50, CoveredLines: 45, ExecutableFunctions: 0, CoveredFunctions: 0},
	)
	require.NotNil(t, merged)
	assert.Equal(t, 150, merged.ExecutableLines)
	assert.Equal(t, 125, merged.CoveredLines)
	assert.InDelta(t, 125.0/150.0, merged.LineCoverage, 1e-12)
	assert.Equal(t, 10, merged.ExecutableFunctions)
	assert.Equal(t, 5, merged.CoveredFunctions)
	assert.Equal(t, 0.5, merged.FunctionCoverage)

	empty := Merge(model.CoverageSummary{}, model.CoverageSummary{})
	assert.Equal(t, 0.0, empty.LineCoverage)
	assert.Equal(t, 0.0, empty.FunctionCoverage)
}

func TestReconcile(t *testing.T) {
	t.Run("no coverage", func(t *testing.T) {
		result := Reconcile([]ActionCoverage{
			{Raw: nil, TargetNames: []string{"SampleTests"}, HasTests: true},
		})
		require.Equal(t, Result{}, result)
		require.Equal(t, Result{}, Reconcile(nil))
	})

	t.Run("unit and UI actions are summed", func(t *testing.T) {
		result := Reconcile([]ActionCoverage{
			{Raw: rawCoverage(100, 80, 0.8), TargetNames: []string{"SampleTests"}, HasTests: true},
			{Raw: rawCoverage(50, 45, 0.9), TargetNames: []string{"SampleUITests"}, HasTests: true},
		})

		require.NotNil(t, result.Unit)
		require.NotNil(t, result.UI)
		require.NotNil(t, result.Overall)
		assert.Equal(t, 0.8, result.Unit.LineCoverage)
		assert.Equal(t, 0.9, result.UI.LineCoverage)
		assert.Equal(t, 150, result.Overall.ExecutableLines)
		assert.Equal(t, 125, result.Overall.CoveredLines)
		assert.InDelta(t, 0.8333, result.Overall.LineCoverage, 1e-4)
		assert.False(t, math.Abs(result.Overall.LineCoverage-0.875) < 1e-4, "overall line coverage must not be the average of the buckets")
	})

	t.Run("single test action", func(t *testing.T) {
		result := Reconcile([]ActionCoverage{
			{Raw: rawCoverage(100, 80, 0.8, 1, 0), TargetNames: []string{"SampleTests"}, HasTests: true},
		})

		require.NotNil(t, result.Unit)
		require.Nil(t, result.UI)
		assert.Equal(t, result.Unit, result.Overall)
	})

	t.Run("action with unit and UI targets", func(t *testing.T) {
		result := Reconcile([]ActionCoverage{
			{Raw: rawCoverage(100, 80, 0.8), TargetNames: []string{"SampleUnitTests", "SampleUITests"}, HasTests: true},
		})

		require.NotNil(t, result.Unit)
		require.NotNil(t, result.UI)
		assert.Equal(t, result.Unit, result.UI)
		assert.Equal(t, 80, result.Unit.CoveredLines)
		assert.Equal(t, 200, result.Overall.ExecutableLines)
		assert.Equal(t, 160, result.Overall.CoveredLines)
		assert.Equal(t, 0.8, result.Overall.LineCoverage)
	})

	t.Run("coverage without tests", func(t *testing.T) {
		result := Reconcile([]ActionCoverage{
			{Raw: rawCoverage(10, 5, 0.5)},
		})

		require.Nil(t, result.Unit)
		require.Nil(t, result.UI)
		require.NotNil(t, result.Overall)
		assert.Equal(t, 0.5, result.Overall.LineCoverage)
	})
}
