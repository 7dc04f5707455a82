// Package coverage turns xccov reports into coverage summaries split by test kind.
package coverage

import (
	"strings"

	"github.com/bitrise-steplib/steps-xcresult-report/model"
	"github.com/bitrise-steplib/steps-xcresult-report/xcresult"
)

// Class is the test kind an action's coverage is accounted to.
type Class string

// Class values
const (
	ClassUnit    Class = "unit"
	ClassUI      Class = "ui"
	ClassUnknown Class = "unknown"
)

// ActionCoverage is the raw coverage of one action, with the testable target names of the same action.
type ActionCoverage struct {
	Raw         *xcresult.CodeCoverage
	TargetNames []string
	HasTests    bool
}

// Result ...
type Result struct {
	Overall *model.CoverageSummary
	Unit    *model.CoverageSummary
	UI      *model.CoverageSummary
}

// Summarize computes the coverage summary of a single xccov report.
// Line coverage is the ratio precomputed by xccov, function coverage is counted over every function of every file.
func Summarize(raw xcresult.CodeCoverage) model.CoverageSummary {
	var executableFunctions, coveredFunctions int
	for _, target := range raw.Targets {
		for _, file := range target.Files {
			for _, function := range file.Functions {
				executableFunctions++
				if function.ExecutionCount > 0 {
					coveredFunctions++
				}
			}
		}
	}

	return model.CoverageSummary{
		LineCoverage:        raw.LineCoverage,
		FunctionCoverage:    ratio(coveredFunctions, executableFunctions),
		ExecutableLines:     raw.ExecutableLines,
		CoveredLines:        raw.CoveredLines,
		ExecutableFunctions: executableFunctions,
		CoveredFunctions:    coveredFunctions,
	}
}

// Classify returns the classes of an action based on its testable target names.
// A target name containing "ui" counts as UI tests, one containing "unit" as unit tests.
// An action with tests but no matching target defaults to unit, an action without tests is unknown.
func Classify(targetNames []string, hasTests bool) []Class {
	var isUnit, isUI bool
	for _, name := range targetNames {
		name = strings.ToLower(name)
		if strings.Contains(name, "ui") {
			isUI = true
		}
		if strings.Contains(name, "unit") {
			isUnit = true
		}
	}

	var classes []Class
	if isUnit {
		classes = append(classes, ClassUnit)
	}
	if isUI {
		classes = append(classes, ClassUI)
	}
	if len(classes) > 0 {
		return classes
	}

	if hasTests {
		return []Class{ClassUnit}
	}
	return []Class{ClassUnknown}
}

// Merge sums the raw counts of the given summaries and recomputes the ratios from the sums.
// A single summary is returned unchanged, so its line coverage stays the one reported by xccov.
func Merge(summaries ...model.CoverageSummary) *model.CoverageSummary {
	switch len(summaries) {
	case 0:
		return nil
	case 1:
		summary := summaries[0]
		return &summary
	}

	var merged model.CoverageSummary
	for _, summary := range summaries {
		merged.ExecutableLines += summary.ExecutableLines
		merged.CoveredLines += summary.CoveredLines
		merged.ExecutableFunctions += summary.ExecutableFunctions
		merged.CoveredFunctions += summary.CoveredFunctions
	}
	merged.LineCoverage = ratio(merged.CoveredLines, merged.ExecutableLines)
	merged.FunctionCoverage = ratio(merged.CoveredFunctions, merged.ExecutableFunctions)

	return &merged
}

// Reconcile accumulates the coverage of every action into unit, UI and overall summaries.
// Actions without coverage are ignored, no summary is returned if none of the actions have coverage.
// An action matching both unit and UI targets contributes its coverage to both buckets.
// The overall summary is the sum of the unit, UI and unknown buckets.
func Reconcile(actions []ActionCoverage) Result {
	var unit, ui, unknown []model.CoverageSummary
	for _, action := range actions {
		if action.Raw == nil {
			continue
		}

		summary := Summarize(*action.Raw)
		for _, class := range Classify(action.TargetNames, action.HasTests) {
			switch class {
			case ClassUnit:
				unit = append(unit, summary)
			case ClassUI:
				ui = append(ui, summary)
			default:
				unknown = append(unknown, summary)
			}
		}
	}

	var overall []model.CoverageSummary
	for _, bucket := range [][]model.CoverageSummary{unit, ui, unknown} {
		if merged := Merge(bucket...); merged != nil {
			overall = append(overall, *merged)
		}
	}

	return Result{
		Overall: Merge(overall...),
		Unit:    Merge(unit...),
		UI:      Merge(ui...),
	}
}

func ratio(covered, executable int) float64 {
	if executable == 0 {
		return 0
	}
	return float64(covered) / float64(executable)
}
