// Package export renders a parsed result bundle as JSON, CSV, HTML, JUnit XML and plain text.
package export

import (
	"encoding/json"

	"github.com/bitrise-steplib/steps-xcresult-report/model"
)

// FileCoverage is the coverage of a single source file.
type FileCoverage struct {
	Name             string  `json:"name"`
	Path             string  `json:"path"`
	LineCoverage     float64 `json:"lineCoverage"`
	FunctionCoverage float64 `json:"functionCoverage"`
	ExecutableLines  int     `json:"executableLines"`
	CoveredLines     int     `json:"coveredLines"`
}

// TargetCoverage is the coverage of a single build target.
type TargetCoverage struct {
	Name            string         `json:"name"`
	LineCoverage    float64        `json:"lineCoverage"`
	ExecutableLines int            `json:"executableLines"`
	CoveredLines    int            `json:"coveredLines"`
	Files           []FileCoverage `json:"files"`
}

// CoverageReport is the coverage view of a parsed result.
// File and target level coverage is not collected, Files and Targets are always empty.
type CoverageReport struct {
	Overall *model.CoverageSummary `json:"overall,omitempty"`
	Unit    *model.CoverageSummary `json:"unit,omitempty"`
	UI      *model.CoverageSummary `json:"ui,omitempty"`
	Files   []FileCoverage         `json:"files"`
	Targets []TargetCoverage       `json:"targets"`
}

// TestSummary ...
type TestSummary struct {
	Total         int     `json:"total"`
	Passed        int     `json:"passed"`
	Failed        int     `json:"failed"`
	Skipped       int     `json:"skipped"`
	SuccessRate   float64 `json:"successRate"`
	TotalDuration float64 `json:"totalDuration"`
}

// TestResultsReport is the test results view of a parsed result.
type TestResultsReport struct {
	Summary    TestSummary       `json:"summary"`
	TestSuites []model.TestSuite `json:"testSuites"`
	Metadata   model.Metadata    `json:"metadata"`
}

// JSONExporter ...
type JSONExporter struct {
	indent string
}

// NewJSONExporter ...
func NewJSONExporter() JSONExporter {
	return JSONExporter{indent: "  "}
}

// Report encodes the complete parsed result.
func (e JSONExporter) Report(result model.ParsedResult) ([]byte, error) {
	return e.encode(result)
}

// Coverage encodes the coverage view of the parsed result.
func (e JSONExporter) Coverage(result model.ParsedResult) ([]byte, error) {
	return e.encode(NewCoverageReport(result))
}

// TestResults encodes the test suites of the parsed result with their summary.
func (e JSONExporter) TestResults(result model.ParsedResult) ([]byte, error) {
	return e.encode(NewTestResultsReport(result))
}

// Tags encodes the tags of the parsed result matching the filter.
func (e JSONExporter) Tags(result model.ParsedResult, filter string) ([]byte, error) {
	tags := result.TagsMatching(filter)
	if tags == nil {
		tags = []model.Tag{}
	}
	return e.encode(tags)
}

func (e JSONExporter) encode(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", e.indent)
}

// NewCoverageReport ...
func NewCoverageReport(result model.ParsedResult) CoverageReport {
	return CoverageReport{
		Overall: result.OverallCoverage,
		Unit:    result.UnitCoverage,
		UI:      result.UICoverage,
		Files:   []FileCoverage{},
		Targets: []TargetCoverage{},
	}
}

// NewTestResultsReport ...
func NewTestResultsReport(result model.ParsedResult) TestResultsReport {
	counts := result.TestCounts()

	suites := result.TestSuites
	if suites == nil {
		suites = []model.TestSuite{}
	}

	return TestResultsReport{
		Summary: TestSummary{
			Total:         counts.Total,
			Passed:        counts.Passed,
			Failed:        counts.Failed,
			Skipped:       counts.Skipped,
			SuccessRate:   counts.SuccessRate(),
			TotalDuration: result.TotalDuration(),
		},
		TestSuites: suites,
		Metadata:   result.Metadata,
	}
}
