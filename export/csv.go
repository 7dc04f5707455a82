package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/bitrise-steplib/steps-xcresult-report/model"
)

var (
	testResultsHeader = []string{"Test Suite", "Test Name", "Status", "Duration", "Tags"}
	coverageHeader    = []string{"File", "Line Coverage", "Function Coverage", "Executable Lines", "Covered Lines"}
)

// CSVExporter ...
type CSVExporter struct{}

// NewCSVExporter ...
func NewCSVExporter() CSVExporter {
	return CSVExporter{}
}

// TestResults writes a row for every test case, tags are joined by semicolons.
func (e CSVExporter) TestResults(result model.ParsedResult) ([]byte, error) {
	records := [][]string{testResultsHeader}
	for _, suite := range result.TestSuites {
		for _, test := range suite.Tests {
			records = append(records, []string{
				suite.Name,
				test.Name,
				string(test.Status),
				formatFloat(test.Duration),
				strings.Join(test.Tags, ";"),
			})
		}
	}
	return writeCSV(records)
}

// Coverage writes a row for every covered file.
func (e CSVExporter) Coverage(result model.ParsedResult) ([]byte, error) {
	records := [][]string{coverageHeader}
	for _, file := range NewCoverageReport(result).Files {
		records = append(records, []string{
			file.Name,
			formatFloat(file.LineCoverage),
			formatFloat(file.FunctionCoverage),
			strconv.Itoa(file.ExecutableLines),
			strconv.Itoa(file.CoveredLines),
		})
	}
	return writeCSV(records)
}

func writeCSV(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
