package model

import (
	"sort"
	"strings"
)

// TestCounts ...
type TestCounts struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// SuccessRate returns the passed tests ratio on the 0-100 scale, 0 when there are no tests.
func (c TestCounts) SuccessRate() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Passed) / float64(c.Total) * 100
}

// AllTests returns every test case of every suite, in suite order.
func (r ParsedResult) AllTests() []TestCase {
	var tests []TestCase
	for _, suite := range r.TestSuites {
		tests = append(tests, suite.Tests...)
	}
	return tests
}

// TestCounts ...
func (r ParsedResult) TestCounts() TestCounts {
	var counts TestCounts
	for _, test := range r.AllTests() {
		counts.Total++

		switch test.Status {
		case StatusPassed:
			counts.Passed++
		case StatusFailed:
			counts.Failed++
		case StatusSkipped:
			counts.Skipped++
		}
	}
	return counts
}

// TotalDuration is the sum of the suite durations.
func (r ParsedResult) TotalDuration() float64 {
	var total float64
	for _, suite := range r.TestSuites {
		total += suite.Duration
	}
	return total
}

// AverageTestDuration ...
func (r ParsedResult) AverageTestDuration() float64 {
	count := len(r.AllTests())
	if count == 0 {
		return 0
	}
	return r.TotalDuration() / float64(count)
}

// SlowestTests returns at most n test cases ordered by duration, slowest first.
// Tests with equal durations keep their original order.
func (r ParsedResult) SlowestTests(n int) []TestCase {
	tests := r.AllTests()
	sort.SliceStable(tests, func(i, j int) bool {
		return tests[i].Duration > tests[j].Duration
	})

	if n < 0 {
		n = 0
	}
	if n < len(tests) {
		tests = tests[:n]
	}
	return tests
}

// FailedTests ...
func (r ParsedResult) FailedTests() []TestCase {
	return r.TestsWithStatus(StatusFailed)
}

// TestsWithStatus ...
func (r ParsedResult) TestsWithStatus(status TestStatus) []TestCase {
	return r.filterTests(func(test TestCase) bool {
		return test.Status == status
	})
}

// TestsWithTag returns the tests carrying the given tag name.
func (r ParsedResult) TestsWithTag(tag string) []TestCase {
	return r.filterTests(func(test TestCase) bool {
		for _, t := range test.Tags {
			if t == tag {
				return true
			}
		}
		return false
	})
}

func (r ParsedResult) filterTests(match func(TestCase) bool) []TestCase {
	var tests []TestCase
	for _, test := range r.AllTests() {
		if match(test) {
			tests = append(tests, test)
		}
	}
	return tests
}

// TestSuitesOfType ...
func (r ParsedResult) TestSuitesOfType(testType TestType) []TestSuite {
	var suites []TestSuite
	for _, suite := range r.TestSuites {
		if suite.TestType == testType {
			suites = append(suites, suite)
		}
	}
	return suites
}

// AttachmentsForTest ...
func (r ParsedResult) AttachmentsForTest(testIdentifier string) Attachments {
	var attachments Attachments
	for _, attachment := range r.Attachments {
		if attachment.TestIdentifier == testIdentifier {
			attachments = append(attachments, attachment)
		}
	}
	return attachments
}

// TagsMatching returns the tags whose name contains the filter, case-insensitively.
// An empty filter matches every tag.
func (r ParsedResult) TagsMatching(filter string) []Tag {
	if filter == "" {
		return r.Tags
	}

	filter = strings.ToLower(filter)

	var tags []Tag
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag.Name), filter) {
			tags = append(tags, tag)
		}
	}
	return tags
}

// CoverageDelta returns the UI coverage minus the unit coverage field by field.
// It returns nil unless both are present.
func (r ParsedResult) CoverageDelta() *CoverageSummary {
	if r.UICoverage == nil || r.UnitCoverage == nil {
		return nil
	}

	ui, unit := r.UICoverage, r.UnitCoverage
	return &CoverageSummary{
		LineCoverage:        ui.LineCoverage - unit.LineCoverage,
		FunctionCoverage:    ui.FunctionCoverage - unit.FunctionCoverage,
		ExecutableLines:     ui.ExecutableLines - unit.ExecutableLines,
		CoveredLines:        ui.CoveredLines - unit.CoveredLines,
		ExecutableFunctions: ui.ExecutableFunctions - unit.ExecutableFunctions,
		CoveredFunctions:    ui.CoveredFunctions - unit.CoveredFunctions,
	}
}

// CoverageFor returns the coverage belonging to the given test type.
// Unit and UI return their own bucket, every other type returns the overall coverage.
func (r ParsedResult) CoverageFor(testType TestType) *CoverageSummary {
	switch testType {
	case TypeUnit:
		return r.UnitCoverage
	case TypeUI:
		return r.UICoverage
	default:
		return r.OverallCoverage
	}
}
