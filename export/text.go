package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bitrise-steplib/steps-xcresult-report/model"
	"github.com/docker/go-units"
)

const (
	unknownVersion    = "Unknown"
	maxTagIdentifiers = 5
)

// TextFormatter renders human readable reports.
type TextFormatter struct{}

// NewTextFormatter ...
func NewTextFormatter() TextFormatter {
	return TextFormatter{}
}

// Summary renders the coverage, test and attachment summary of the parsed result.
func (f TextFormatter) Summary(result model.ParsedResult) string {
	var b strings.Builder

	heading(&b, "XCResult Parse Summary")
	fmt.Fprintf(&b, "Path: %s\n", result.Metadata.SourcePath)
	fmt.Fprintf(&b, "Parse Date: %s\n", result.Metadata.ParseTimestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "Xcode Version: %s\n\n", toolVersion(result.Metadata))

	b.WriteString(f.Coverage(result, model.TypeUnknown))
	b.WriteString("\n")
	f.writeTestSummary(&b, result)
	b.WriteString("\n")
	f.writeAttachmentSummary(&b, result.Attachments)

	return b.String()
}

// Coverage renders the coverage belonging to the test type, any type other than unit and UI renders the overall coverage.
func (f TextFormatter) Coverage(result model.ParsedResult, testType model.TestType) string {
	var b strings.Builder

	heading(&b, "Coverage Summary")

	coverage := result.CoverageFor(testType)
	if coverage == nil {
		b.WriteString("No coverage data available\n")
		return b.String()
	}

	switch testType {
	case model.TypeUnit:
		b.WriteString("Unit Test Coverage:\n")
	case model.TypeUI:
		b.WriteString("UI Test Coverage:\n")
	default:
		b.WriteString("Overall Coverage:\n")
	}
	writeCoverage(&b, *coverage)

	if testType != model.TypeUnit && testType != model.TypeUI {
		if delta := result.CoverageDelta(); delta != nil {
			fmt.Fprintf(&b, "  UI - Unit Line Coverage: %+.2f%%\n", delta.Percentage())
		}
	}

	return b.String()
}

// Tags lists every tag with the first few identifiers of its tests.
func (f TextFormatter) Tags(tags []model.Tag) string {
	var b strings.Builder

	heading(&b, "Test Tags")
	for _, tag := range tags {
		fmt.Fprintf(&b, "%s (%d tests)\n", tag.Name, len(tag.TestIdentifiers))
		for i, identifier := range tag.TestIdentifiers {
			if i == maxTagIdentifiers {
				fmt.Fprintf(&b, "  ... and %d more\n", len(tag.TestIdentifiers)-maxTagIdentifiers)
				break
			}
			fmt.Fprintf(&b, "  - %s\n", identifier)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// ExportSummary renders the summary.txt report written next to the exported files.
func (f TextFormatter) ExportSummary(result model.ParsedResult) string {
	var b strings.Builder

	heading(&b, "XCResult Analysis Summary")
	fmt.Fprintf(&b, "Source: %s\n", result.Metadata.SourcePath)
	fmt.Fprintf(&b, "Generated: %s\n", result.Metadata.ParseTimestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "Xcode Version: %s\n\n", toolVersion(result.Metadata))

	if overall := result.OverallCoverage; overall != nil {
		b.WriteString("Overall Coverage Summary:\n")
		fmt.Fprintf(&b, "- Line Coverage: %.2f%%\n", overall.LineCoverage*100)
		fmt.Fprintf(&b, "- Function Coverage: %.2f%%\n", overall.FunctionCoverage*100)
		fmt.Fprintf(&b, "- Executable Lines: %d\n", overall.ExecutableLines)
		fmt.Fprintf(&b, "- Covered Lines: %d\n", overall.CoveredLines)
	} else {
		b.WriteString("No coverage data available\n")
	}
	b.WriteString("\n")

	counts := result.TestCounts()
	b.WriteString("Test Summary:\n")
	fmt.Fprintf(&b, "- Total Tests: %d\n", counts.Total)
	fmt.Fprintf(&b, "- Passed: %d\n", counts.Passed)
	fmt.Fprintf(&b, "- Failed: %d\n", counts.Failed)
	fmt.Fprintf(&b, "- Success Rate: %.2f%%\n\n", counts.SuccessRate())

	fmt.Fprintf(&b, "Attachments: %d\n", len(result.Attachments))
	fmt.Fprintf(&b, "Failed Tests: %d\n", len(result.FailedTests()))
	fmt.Fprintf(&b, "Test Tags: %d\n", len(result.Tags))

	return b.String()
}

func (f TextFormatter) writeTestSummary(b *strings.Builder, result model.ParsedResult) {
	counts := result.TestCounts()

	heading(b, "Test Summary")
	fmt.Fprintf(b, "Total Tests: %d\n", counts.Total)
	fmt.Fprintf(b, "Passed: %d\n", counts.Passed)
	fmt.Fprintf(b, "Failed: %d\n", counts.Failed)
	fmt.Fprintf(b, "Skipped: %d\n", counts.Skipped)
	fmt.Fprintf(b, "Test Suites: %d\n", len(result.TestSuites))
	fmt.Fprintf(b, "Tags: %d\n", len(result.Tags))
	fmt.Fprintf(b, "Total Duration: %.2fs\n", result.TotalDuration())
}

func (f TextFormatter) writeAttachmentSummary(b *strings.Builder, attachments model.Attachments) {
	heading(b, "Attachments Summary")
	fmt.Fprintf(b, "Total Attachments: %d (%s)\n", len(attachments), units.HumanSize(float64(attachments.TotalSize())))

	groups := attachments.GroupedByType()
	types := make([]string, 0, len(groups))
	for uti := range groups {
		types = append(types, uti)
	}
	sort.Strings(types)

	for _, uti := range types {
		fmt.Fprintf(b, "  %s: %d\n", uti, len(groups[uti]))
	}
}

func writeCoverage(b *strings.Builder, coverage model.CoverageSummary) {
	fmt.Fprintf(b, "  Line Coverage: %.2f%%\n", coverage.LineCoverage*100)
	fmt.Fprintf(b, "  Function Coverage: %.2f%%\n", coverage.FunctionCoverage*100)
	fmt.Fprintf(b, "  Executable Lines: %d\n", coverage.ExecutableLines)
	fmt.Fprintf(b, "  Covered Lines: %d\n", coverage.CoveredLines)
}

func heading(b *strings.Builder, title string) {
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func toolVersion(metadata model.Metadata) string {
	if metadata.ToolVersion == nil {
		return unknownVersion
	}
	return *metadata.ToolVersion
}
