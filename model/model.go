package model

import "time"

// TestStatus ...
type TestStatus string

// TestStatus values
const (
	StatusPassed  TestStatus = "passed"
	StatusFailed  TestStatus = "failed"
	StatusSkipped TestStatus = "skipped"
	StatusUnknown TestStatus = "unknown"
)

// TestType ...
type TestType string

// TestType values
const (
	TypeUnit        TestType = "unit"
	TypeUI          TestType = "ui"
	TypeIntegration TestType = "integration"
	TypePerformance TestType = "performance"
	TypeUnknown     TestType = "unknown"
)

// CoverageSummary holds line and function coverage of one or more merged coverage reports.
// Ratios are fractions in the [0, 1] range.
type CoverageSummary struct {
	LineCoverage        float64  `json:"lineCoverage"`
	FunctionCoverage    float64  `json:"functionCoverage"`
	BranchCoverage      *float64 `json:"branchCoverage,omitempty"`
	ExecutableLines     int      `json:"executableLines"`
	CoveredLines        int      `json:"coveredLines"`
	ExecutableFunctions int      `json:"executableFunctions"`
	CoveredFunctions    int      `json:"coveredFunctions"`
}

// Percentage returns the line coverage on the 0-100 scale.
func (c CoverageSummary) Percentage() float64 {
	return c.LineCoverage * 100
}

// TestCase ...
type TestCase struct {
	Name           string       `json:"name"`
	Identifier     string       `json:"identifier"`
	Duration       float64      `json:"duration"`
	Status         TestStatus   `json:"status"`
	Tags           []string     `json:"tags"`
	Attachments    []Attachment `json:"attachments"`
	FailureMessage *string      `json:"failureMessage,omitempty"`
}

// TestSuite ...
type TestSuite struct {
	Name     string     `json:"name"`
	TestType TestType   `json:"testType"`
	Tests    []TestCase `json:"tests"`
	Duration float64    `json:"duration"`
}

// NewTestSuite creates a suite whose duration is the sum of its test case durations.
func NewTestSuite(name string, testType TestType, tests []TestCase) TestSuite {
	var duration float64
	for _, test := range tests {
		duration += test.Duration
	}

	if tests == nil {
		tests = []TestCase{}
	}

	return TestSuite{
		Name:     name,
		TestType: testType,
		Tests:    tests,
		Duration: duration,
	}
}

// Tag is one occurrence of a tag found in a test name or an activity title.
type Tag struct {
	Name            string   `json:"name"`
	TestIdentifiers []string `json:"testIdentifiers"`
}

// Attachment is a file recorded by a test activity, with its payload read from the bundle.
type Attachment struct {
	Name                  string     `json:"name"`
	Filename              *string    `json:"filename,omitempty"`
	UniformTypeIdentifier *string    `json:"uniformTypeIdentifier,omitempty"`
	Timestamp             *time.Time `json:"timestamp,omitempty"`
	Data                  []byte     `json:"data"`
	TestIdentifier        string     `json:"testIdentifier"`
	ActivityTitle         *string    `json:"activityTitle,omitempty"`
}

// Metadata ...
type Metadata struct {
	SourcePath     string    `json:"sourcePath"`
	ParseTimestamp time.Time `json:"parseTimestamp"`
	ToolVersion    *string   `json:"toolVersion,omitempty"`
}

// ParsedResult is the normalized content of a single result bundle.
// It is built once by the parser and must be treated as read-only afterwards.
type ParsedResult struct {
	OverallCoverage *CoverageSummary `json:"overallCoverage,omitempty"`
	UnitCoverage    *CoverageSummary `json:"unitCoverage,omitempty"`
	UICoverage      *CoverageSummary `json:"uiCoverage,omitempty"`
	TestSuites      []TestSuite      `json:"testSuites"`
	Attachments     Attachments      `json:"attachments"`
	Tags            []Tag            `json:"tags"`
	Metadata        Metadata         `json:"metadata"`
}
