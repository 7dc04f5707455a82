// Package testtree flattens xcresult test group trees into test suites and collects the tags of the tests.
package testtree

import (
	"strings"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-xcresult-report/model"
	"github.com/bitrise-steplib/steps-xcresult-report/tags"
	"github.com/bitrise-steplib/steps-xcresult-report/xcresult"
)

const defaultGroupName = "Unknown Test Group"

// Normalizer ...
type Normalizer struct {
	resolver xcresult.SummaryResolver
	logger   log.Logger
}

// NewNormalizer ...
func NewNormalizer(resolver xcresult.SummaryResolver, logger log.Logger) Normalizer {
	return Normalizer{resolver: resolver, logger: logger}
}

// Normalize returns a test suite for every top-level group of every testable, in document order,
// and the tags of their tests. Tests of nested groups are added to the enclosing top-level suite.
func (n Normalizer) Normalize(summaries xcresult.ActionTestPlanRunSummaries) ([]model.TestSuite, []model.Tag) {
	var suites []model.TestSuite
	var allTags []model.Tag

	for _, testable := range summaries.Testables() {
		targetName := testable.TargetName.Value
		if targetName == "" {
			targetName = testable.Name.Value
		}

		var looseTests []xcresult.TestNode
		for _, node := range testable.Tests {
			group, ok := node.(*xcresult.TestGroup)
			if !ok {
				looseTests = append(looseTests, node)
				continue
			}

			suite, suiteTags := n.suite(group.Name, targetName, group.Children)
			suites = append(suites, suite)
			allTags = append(allTags, suiteTags...)
		}

		if len(looseTests) > 0 {
			suite, suiteTags := n.suite(targetName, targetName, looseTests)
			suites = append(suites, suite)
			allTags = append(allTags, suiteTags...)
		}
	}

	return suites, allTags
}

func (n Normalizer) suite(groupName, targetName string, children []xcresult.TestNode) (model.TestSuite, []model.Tag) {
	tests, suiteTags := n.tests(children)

	testType := ClassifyTestType(groupName, targetName)
	if groupName == "" {
		groupName = defaultGroupName
	}

	return model.NewTestSuite(groupName, testType, tests), suiteTags
}

func (n Normalizer) tests(nodes []xcresult.TestNode) ([]model.TestCase, []model.Tag) {
	var tests []model.TestCase
	var allTags []model.Tag

	for _, node := range nodes {
		var leaf *xcresult.TestLeaf

		switch v := node.(type) {
		case *xcresult.TestGroup:
			nestedTests, nestedTags := n.tests(v.Children)
			tests = append(tests, nestedTests...)
			allTags = append(allTags, nestedTags...)
			continue
		case *xcresult.TestLeaf:
			leaf = v
		case *xcresult.TestRef:
			resolved, err := xcresult.ResolveRef(v, n.resolver)
			if err != nil {
				n.logger.Debugf("Skipping test %s: %s", v.Name, err)
				continue
			}
			leaf = resolved
		}

		test, testTags := testCase(leaf)
		tests = append(tests, test)
		allTags = append(allTags, testTags...)
	}

	return tests, allTags
}

func testCase(leaf *xcresult.TestLeaf) (model.TestCase, []model.Tag) {
	name := leaf.DisplayName()

	var testTags []model.Tag
	for _, text := range append([]string{name}, activityTitles(leaf.Activities)...) {
		for _, tag := range tags.Extract(text) {
			testTags = append(testTags, model.Tag{Name: tag, TestIdentifiers: []string{name}})
		}
	}

	tagNames := []string{}
	for _, tag := range testTags {
		tagNames = append(tagNames, tag.Name)
	}

	status := ClassifyStatus(leaf.Status)

	var failureMessage *string
	if status == model.StatusFailed {
		failureMessage = FailureMessage(leaf.Activities)
	}

	return model.TestCase{
		Name:           name,
		Identifier:     name,
		Duration:       leaf.Duration,
		Status:         status,
		Tags:           tagNames,
		Attachments:    []model.Attachment{},
		FailureMessage: failureMessage,
	}, testTags
}

// activityTitles returns the titles of the activity tree in pre-order.
func activityTitles(activities []xcresult.ActivitySummary) []string {
	var titles []string
	for _, activity := range activities {
		titles = append(titles, activity.Title.Value)
		titles = append(titles, activityTitles(activity.Subactivities.Values)...)
	}
	return titles
}

// ClassifyStatus maps the raw xcresult test status to a test status.
func ClassifyStatus(raw string) model.TestStatus {
	switch strings.ToLower(raw) {
	case "success":
		return model.StatusPassed
	case "failure":
		return model.StatusFailed
	default:
		return model.StatusSkipped
	}
}

// ClassifyTestType infers the test type from the group name, or from the target name if the group has no name.
func ClassifyTestType(groupName, targetName string) model.TestType {
	name := groupName
	if name == "" {
		name = targetName
	}
	name = strings.ToLower(name)

	switch {
	case strings.Contains(name, "ui"):
		return model.TypeUI
	case strings.Contains(name, "unit"):
		return model.TypeUnit
	case strings.Contains(name, "integration"):
		return model.TypeIntegration
	case strings.Contains(name, "performance"):
		return model.TypePerformance
	default:
		return model.TypeUnit
	}
}

// FailureMessage returns the title of the first top-level activity mentioning a failure or an error.
func FailureMessage(activities []xcresult.ActivitySummary) *string {
	for _, activity := range activities {
		title := activity.Title.Value
		if strings.Contains(title, "failed") || strings.Contains(title, "error") {
			return &title
		}
	}
	return nil
}
