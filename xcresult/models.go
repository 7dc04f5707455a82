package xcresult

import (
	"strconv"
	"time"
)

// Value is the xcresulttool wrapper of a scalar value.
type Value struct {
	Value string `json:"_value"`
}

// Reference ...
type Reference struct {
	ID Value `json:"id"`
}

func (r *Reference) id() string {
	if r == nil {
		return ""
	}
	return r.ID.Value
}

// ActionsInvocationRecord is the root record of a result bundle.
type ActionsInvocationRecord struct {
	Actions struct {
		Values []ActionRecord `json:"_values"`
	} `json:"actions"`
}

// ActionRecord ...
type ActionRecord struct {
	SchemeCommandName Value        `json:"schemeCommandName"`
	Title             Value        `json:"title"`
	ActionResult      ActionResult `json:"actionResult"`
}

// ActionResult ...
type ActionResult struct {
	Status   Value            `json:"status"`
	TestsRef *Reference       `json:"testsRef,omitempty"`
	LogRef   *Reference       `json:"logRef,omitempty"`
	Coverage CodeCoverageInfo `json:"coverage"`
}

// CodeCoverageInfo ...
type CodeCoverageInfo struct {
	HasCoverageData Value      `json:"hasCoverageData"`
	ReportRef       *Reference `json:"reportRef,omitempty"`
	ArchiveRef      *Reference `json:"archiveRef,omitempty"`
}

// TestsRef returns the id of the action's test plan run summaries.
func (a ActionRecord) TestsRef() (string, bool) {
	id := a.ActionResult.TestsRef.id()
	return id, id != ""
}

// CoverageRef returns the id of the action's coverage report.
func (a ActionRecord) CoverageRef() (string, bool) {
	id := a.ActionResult.Coverage.ReportRef.id()
	return id, id != ""
}

// LogRef returns the id of the action's build log.
func (a ActionRecord) LogRef() (string, bool) {
	id := a.ActionResult.LogRef.id()
	return id, id != ""
}

// ActionTestPlanRunSummaries ...
type ActionTestPlanRunSummaries struct {
	Summaries struct {
		Values []ActionTestPlanRunSummary `json:"_values"`
	} `json:"summaries"`
}

// ActionTestPlanRunSummary ...
type ActionTestPlanRunSummary struct {
	Name              Value `json:"name"`
	TestableSummaries struct {
		Values []ActionTestableSummary `json:"_values"`
	} `json:"testableSummaries"`
}

// ActionTestableSummary is the result tree of one test target.
type ActionTestableSummary struct {
	Name       Value     `json:"name"`
	TargetName Value     `json:"targetName"`
	Tests      TestNodes `json:"tests"`
}

// Testables returns the testable summaries of every run summary.
func (s ActionTestPlanRunSummaries) Testables() []ActionTestableSummary {
	var testables []ActionTestableSummary
	for _, summary := range s.Summaries.Values {
		testables = append(testables, summary.TestableSummaries.Values...)
	}
	return testables
}

// TargetNames ...
func (s ActionTestPlanRunSummaries) TargetNames() []string {
	var names []string
	for _, testable := range s.Testables() {
		name := testable.TargetName.Value
		if name == "" {
			name = testable.Name.Value
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ActionTestSummary is the full record of a single test, referenced by ActionTestMetadata.summaryRef.
type ActionTestSummary struct {
	Name              Value `json:"name"`
	Identifier        Value `json:"identifier"`
	TestStatus        Value `json:"testStatus"`
	Duration          Value `json:"duration"`
	ActivitySummaries struct {
		Values []ActivitySummary `json:"_values"`
	} `json:"activitySummaries"`
}

// Leaf ...
func (s ActionTestSummary) Leaf() *TestLeaf {
	return &TestLeaf{
		Name:       s.Name.Value,
		Identifier: s.Identifier.Value,
		Status:     s.TestStatus.Value,
		Duration:   parseDuration(s.Duration.Value),
		Activities: s.ActivitySummaries.Values,
	}
}

// ActivitySummary is a recorded step of a test, with its own attachments and nested steps.
type ActivitySummary struct {
	Title        Value `json:"title"`
	ActivityType Value `json:"activityType"`
	Attachments  struct {
		Values []Attachment `json:"_values"`
	} `json:"attachments"`
	Subactivities struct {
		Values []ActivitySummary `json:"_values"`
	} `json:"subactivities"`
}

// Attachment ...
type Attachment struct {
	Name                  Value      `json:"name"`
	Filename              Value      `json:"filename"`
	UniformTypeIdentifier Value      `json:"uniformTypeIdentifier"`
	Timestamp             Value      `json:"timestamp"`
	PayloadRef            *Reference `json:"payloadRef,omitempty"`
}

// PayloadID ...
func (a Attachment) PayloadID() string {
	return a.PayloadRef.id()
}

// Time parses the attachment timestamp, it returns nil if it is missing or malformed.
func (a Attachment) Time() *time.Time {
	if a.Timestamp.Value == "" {
		return nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, a.Timestamp.Value); err == nil {
			return &t
		}
	}
	return nil
}

// 2019-10-21T13:11:44.470+0200
var timestampLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	time.RFC3339Nano,
}

func parseDuration(s string) float64 {
	if s == "" {
		return 0
	}

	duration, err := strconv.ParseFloat(s, 64)
	if err != nil || duration < 0 {
		return 0
	}
	return duration
}
