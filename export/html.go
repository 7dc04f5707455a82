package export

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/bitrise-steplib/steps-xcresult-report/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Coverage classes of the HTML report rows.
const (
	ClassHighCoverage   = "high-coverage"
	ClassMediumCoverage = "medium-coverage"
	ClassLowCoverage    = "low-coverage"
)

type coveragePage struct {
	LineCoverage     string
	FunctionCoverage string
	ExecutableLines  int
	CoveredLines     int
	Files            []coverageRow
}

type coverageRow struct {
	Class            string
	Name             string
	LineCoverage     string
	FunctionCoverage string
	ExecutableLines  int
	CoveredLines     int
}

type testPage struct {
	Total       int
	Passed      int
	Failed      int
	SuccessRate string
	Tests       []testRow
}

type testRow struct {
	Class    string
	Suite    string
	Name     string
	Status   model.TestStatus
	Duration string
	Tags     string
}

// HTMLExporter renders single page HTML reports with an inline stylesheet.
type HTMLExporter struct{}

// NewHTMLExporter ...
func NewHTMLExporter() HTMLExporter {
	return HTMLExporter{}
}

// Coverage renders the overall coverage summary and a row for every covered file.
func (e HTMLExporter) Coverage(result model.ParsedResult) ([]byte, error) {
	page := coveragePage{
		LineCoverage:     twoDecimals(0),
		FunctionCoverage: twoDecimals(0),
	}
	if overall := result.OverallCoverage; overall != nil {
		page.LineCoverage = twoDecimals(overall.LineCoverage * 100)
		page.FunctionCoverage = twoDecimals(overall.FunctionCoverage * 100)
		page.ExecutableLines = overall.ExecutableLines
		page.CoveredLines = overall.CoveredLines
	}

	for _, file := range NewCoverageReport(result).Files {
		lineCoverage := file.LineCoverage * 100
		page.Files = append(page.Files, coverageRow{
			Class:            CoverageClass(lineCoverage),
			Name:             file.Name,
			LineCoverage:     twoDecimals(lineCoverage),
			FunctionCoverage: twoDecimals(file.FunctionCoverage * 100),
			ExecutableLines:  file.ExecutableLines,
			CoveredLines:     file.CoveredLines,
		})
	}

	return render("coverage_report.html", page)
}

// TestResults renders the test summary and a row for every test case.
func (e HTMLExporter) TestResults(result model.ParsedResult) ([]byte, error) {
	counts := result.TestCounts()
	page := testPage{
		Total:       counts.Total,
		Passed:      counts.Passed,
		Failed:      counts.Failed,
		SuccessRate: twoDecimals(counts.SuccessRate()),
	}

	for _, suite := range result.TestSuites {
		for _, test := range suite.Tests {
			page.Tests = append(page.Tests, testRow{
				Class:    StatusClass(test.Status),
				Suite:    suite.Name,
				Name:     test.Name,
				Status:   test.Status,
				Duration: twoDecimals(test.Duration),
				Tags:     strings.Join(test.Tags, ", "),
			})
		}
	}

	return render("test_report.html", page)
}

// CoverageClass returns the row class of a coverage percentage on the 0-100 scale.
func CoverageClass(percentage float64) string {
	switch {
	case percentage >= 80:
		return ClassHighCoverage
	case percentage >= 60:
		return ClassMediumCoverage
	default:
		return ClassLowCoverage
	}
}

// StatusClass returns the row class of a test status.
func StatusClass(status model.TestStatus) string {
	switch status {
	case model.StatusPassed, model.StatusFailed:
		return string(status)
	default:
		return string(model.StatusSkipped)
	}
}

func render(name string, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func twoDecimals(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
