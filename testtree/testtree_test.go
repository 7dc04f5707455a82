package testtree

import (
	"errors"
	"strings"
	"testing"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-xcresult-report/mocks"
	"github.com/bitrise-steplib/steps-xcresult-report/model"
	"github.com/bitrise-steplib/steps-xcresult-report/xcresult"
	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activity(title string, subactivities ...xcresult.ActivitySummary) xcresult.ActivitySummary {
	a := xcresult.ActivitySummary{Title: xcresult.Value{Value: title}}
	a.Subactivities.Values = subactivities
	return a
}

func testPlan(testables ...xcresult.ActionTestableSummary) xcresult.ActionTestPlanRunSummaries {
	var run xcresult.ActionTestPlanRunSummary
	run.TestableSummaries.Values = testables
	var summaries xcresult.ActionTestPlanRunSummaries
	summaries.Summaries.Values = []xcresult.ActionTestPlanRunSummary{run}
	return summaries
}

func testable(targetName string, tests ...xcresult.TestNode) xcresult.ActionTestableSummary {
	return xcresult.ActionTestableSummary{
		Name:       xcresult.Value{Value: targetName},
		TargetName: xcresult.Value{Value: targetName},
		Tests:      tests,
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	summary := xcresult.ActionTestSummary{
		Name:       xcresult.Value{Value: "testCheckout()"},
		TestStatus: xcresult.Value{Value: "Failure"},
		Duration:   xcresult.Value{Value: "2.5"},
	}
	summary.ActivitySummaries.Values = []xcresult.ActivitySummary{
		activity("Start Test"),
		activity("Assertion failed: total mismatch", activity("Tag: [payments]")),
	}

	resolver := mocks.NewBundle(t)
	resolver.On("TestSummary", "ref-checkout").Return(summary, nil)
	resolver.On("TestSummary", "ref-broken").Return(xcresult.ActionTestSummary{}, errors.New("corrupt record"))

	summaries := testPlan(
		testable("ShopUITests",
			&xcresult.TestGroup{
				Name: "CheckoutUITests",
				Children: []xcresult.TestNode{
					&xcresult.TestLeaf{Name: "testLogin_@smoke()", Status: "Success", Duration: 1.5},
					&xcresult.TestGroup{
						Name: "Nested",
						Children: []xcresult.TestNode{
							&xcresult.TestRef{Name: "testCheckout()", SummaryID: "ref-checkout"},
							&xcresult.TestRef{Name: "testBroken()", SummaryID: "ref-broken"},
						},
					},
					&xcresult.TestLeaf{Status: "Expected Failure", Duration: 0.5},
				},
			},
		),
		testable("ShopTests",
			&xcresult.TestGroup{Name: "CartTests"},
		),
	)

	suites, tags := NewNormalizer(resolver, log.NewLogger()).Normalize(summaries)

	require.Len(t, suites, 2)

	checkout := suites[0]
	require.Equal(t, "CheckoutUITests", checkout.Name)
	require.Equal(t, model.TypeUI, checkout.TestType)
	require.Len(t, checkout.Tests, 3)
	require.Equal(t, 4.5, checkout.Duration)

	login := checkout.Tests[0]
	require.Equal(t, "testLogin_@smoke()", login.Name)
	require.Equal(t, "testLogin_@smoke()", login.Identifier)
	require.Equal(t, model.StatusPassed, login.Status)
	require.Equal(t, []string{"smoke"}, login.Tags)
	require.NotNil(t, login.Attachments)
	require.Nil(t, login.FailureMessage)

	failed := checkout.Tests[1]
	require.Equal(t, "testCheckout()", failed.Name)
	require.Equal(t, model.StatusFailed, failed.Status)
	require.Equal(t, 2.5, failed.Duration)
	require.Equal(t, []string{"payments"}, failed.Tags)
	require.NotNil(t, failed.FailureMessage)
	require.Equal(t, "Assertion failed: total mismatch", *failed.FailureMessage)

	unnamed := checkout.Tests[2]
	require.Equal(t, "UnknownTest", unnamed.Name)
	require.Equal(t, model.StatusSkipped, unnamed.Status)
	require.Empty(t, unnamed.Tags)

	cart := suites[1]
	require.Equal(t, "CartTests", cart.Name)
	require.Equal(t, model.TypeUnit, cart.TestType)
	require.Empty(t, cart.Tests)
	require.Equal(t, 0.0, cart.Duration)

	wantTags := []model.Tag{
		{Name: "smoke", TestIdentifiers: []string{"testLogin_@smoke()"}},
		{Name: "payments", TestIdentifiers: []string{"testCheckout()"}},
	}
	if diff := pretty.Diff(wantTags, tags); len(diff) > 0 {
		t.Errorf("Normalize() tags differ:\n%s", strings.Join(diff, "\n"))
	}
}

func TestNormalizer_Normalize_TestsOutsideGroups(t *testing.T) {
	summaries := testPlan(
		testable("ShopIntegrationTests",
			&xcresult.TestLeaf{Name: "testSync()", Status: "Success", Duration: 3},
		),
		testable("",
			&xcresult.TestLeaf{Name: "testOrphan()", Status: "Success"},
		),
	)

	suites, _ := NewNormalizer(mocks.NewBundle(t), log.NewLogger()).Normalize(summaries)

	require.Len(t, suites, 2)
	require.Equal(t, "ShopIntegrationTests", suites[0].Name)
	require.Equal(t, model.TypeIntegration, suites[0].TestType)
	require.Equal(t, 3.0, suites[0].Duration)
	require.Equal(t, "Unknown Test Group", suites[1].Name)
	require.Equal(t, model.TypeUnit, suites[1].TestType)
}

func TestNormalizer_Normalize_NoTestables(t *testing.T) {
	suites, tags := NewNormalizer(mocks.NewBundle(t), log.NewLogger()).Normalize(xcresult.ActionTestPlanRunSummaries{})
	require.Empty(t, suites)
	require.Empty(t, tags)
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want model.TestStatus
	}{
		{raw: "Success", want: model.StatusPassed},
		{raw: "success", want: model.StatusPassed},
		{raw: "Failure", want: model.StatusFailed},
		{raw: "Skipped", want: model.StatusSkipped},
		{raw: "Expected Failure", want: model.StatusSkipped},
		{raw: "", want: model.StatusSkipped},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStatus(tt.raw))
		})
	}
}

func TestClassifyTestType(t *testing.T) {
	tests := []struct {
		name       string
		groupName  string
		targetName string
		want       model.TestType
	}{
		{name: "ui group", groupName: "LoginUITests", want: model.TypeUI},
		{name: "unit group", groupName: "ParserUnitTests", want: model.TypeUnit},
		{name: "integration group", groupName: "APIIntegrationTests", want: model.TypeIntegration},
		{name: "performance group", groupName: "ScrollPerformanceTests", want: model.TypePerformance},
		{name: "ui wins over the other markers", groupName: "UIPerformanceTests", want: model.TypeUI},
		{name: "substring match", groupName: "BuildTests", want: model.TypeUI},
		{name: "defaults to unit", groupName: "CartTests", want: model.TypeUnit},
		{name: "target name used without group name", targetName: "AppUITests", want: model.TypeUI},
		{name: "group name takes precedence", groupName: "CartTests", targetName: "AppUITests", want: model.TypeUnit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyTestType(tt.groupName, tt.targetName))
		})
	}
}

func TestFailureMessage(t *testing.T) {
	tests := []struct {
		name       string
		activities []xcresult.ActivitySummary
		want       *string
	}{
		{
			name:       "first matching title",
			activities: []xcresult.ActivitySummary{activity("Tap"), activity("Request error: timeout"), activity("Check failed")},
			want:       stringPtr("Request error: timeout"),
		},
		{
			name:       "nested activities are not inspected",
			activities: []xcresult.ActivitySummary{activity("Tap", activity("Check failed"))},
		},
		{
			name:       "case sensitive",
			activities: []xcresult.ActivitySummary{activity("Check FAILED")},
		},
		{
			name: "no activities",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FailureMessage(tt.activities))
		})
	}
}

func stringPtr(s string) *string {
	return &s
}
