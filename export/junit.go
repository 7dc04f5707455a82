package export

import (
	"encoding/xml"
	"strings"

	"github.com/bitrise-steplib/steps-xcresult-report/model"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// JUnitReport is the JUnit XML structure accepted by the test reports API.
type JUnitReport struct {
	XMLName    xml.Name         `xml:"testsuites"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite ...
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Skipped   int             `xml:"skipped,attr"`
	Time      float64         `xml:"time,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase ...
type JUnitTestCase struct {
	XMLName    xml.Name         `xml:"testcase"`
	Name       string           `xml:"name,attr"`
	ClassName  string           `xml:"classname,attr"`
	Time       float64          `xml:"time,attr"`
	Failure    *JUnitFailure    `xml:"failure,omitempty"`
	Skipped    *JUnitSkipped    `xml:"skipped,omitempty"`
	Properties *JUnitProperties `xml:"properties,omitempty"`
}

// JUnitFailure ...
type JUnitFailure struct {
	XMLName xml.Name `xml:"failure,omitempty"`
	Value   string   `xml:",chardata"`
}

// JUnitSkipped ...
type JUnitSkipped struct {
	XMLName xml.Name `xml:"skipped,omitempty"`
}

// JUnitProperty ...
type JUnitProperty struct {
	XMLName xml.Name `xml:"property"`
	Name    string   `xml:"name,attr"`
	Value   string   `xml:"value,attr"`
}

// JUnitProperties ...
type JUnitProperties struct {
	XMLName  xml.Name        `xml:"properties"`
	Property []JUnitProperty `xml:"property"`
}

// JUnitExporter ...
type JUnitExporter struct{}

// NewJUnitExporter ...
func NewJUnitExporter() JUnitExporter {
	return JUnitExporter{}
}

// Export encodes the test suites as JUnit XML, including the XML header.
func (e JUnitExporter) Export(result model.ParsedResult) ([]byte, error) {
	xmlData, err := xml.MarshalIndent(NewJUnitReport(result), "", " ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xmlHeader), xmlData...), nil
}

// NewJUnitReport converts the test suites of the parsed result.
// Test tags are attached as a single comma separated "tags" property.
func NewJUnitReport(result model.ParsedResult) JUnitReport {
	var report JUnitReport
	for _, suite := range result.TestSuites {
		junitSuite := JUnitTestSuite{
			Name: suite.Name,
			Time: suite.Duration,
		}

		for _, test := range suite.Tests {
			testCase := JUnitTestCase{
				Name:      test.Name,
				ClassName: suite.Name,
				Time:      test.Duration,
			}

			switch test.Status {
			case model.StatusFailed:
				junitSuite.Failures++
				message := ""
				if test.FailureMessage != nil {
					message = *test.FailureMessage
				}
				testCase.Failure = &JUnitFailure{Value: message}
			case model.StatusSkipped:
				junitSuite.Skipped++
				testCase.Skipped = &JUnitSkipped{}
			}

			if len(test.Tags) > 0 {
				testCase.Properties = &JUnitProperties{
					Property: []JUnitProperty{{Name: "tags", Value: strings.Join(test.Tags, ",")}},
				}
			}

			junitSuite.Tests++
			junitSuite.TestCases = append(junitSuite.TestCases, testCase)
		}

		report.TestSuites = append(report.TestSuites, junitSuite)
	}
	return report
}
