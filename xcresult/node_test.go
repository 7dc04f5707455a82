package xcresult

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActionTestPlanRunSummaries_Decode(t *testing.T) {
	var summaries ActionTestPlanRunSummaries
	readTestdata(t, "test_plan_run_summaries.json", &summaries)

	testables := summaries.Testables()
	require.Len(t, testables, 2)
	require.Equal(t, []string{"SampleTests", "SampleUITests"}, summaries.TargetNames())
	require.Empty(t, testables[1].Tests)

	require.Len(t, testables[0].Tests, 1)
	bundleGroup, ok := testables[0].Tests[0].(*TestGroup)
	require.True(t, ok)
	require.Equal(t, "SampleTests.xctest", bundleGroup.Name)
	require.Equal(t, 4.2, bundleGroup.Duration)

	require.Len(t, bundleGroup.Children, 1)
	classGroup, ok := bundleGroup.Children[0].(*TestGroup)
	require.True(t, ok)
	require.Equal(t, "LoginTests", classGroup.Name)

	require.Len(t, classGroup.Children, 2)
	require.Equal(t, &TestRef{
		Name:       "testLogin()",
		Identifier: "LoginTests/testLogin()",
		Status:     "Success",
		Duration:   1.5,
		SummaryID:  "0~summary-login",
	}, classGroup.Children[0])

	leaf, ok := classGroup.Children[1].(*TestLeaf)
	require.True(t, ok)
	require.Equal(t, "testInline()", leaf.Name)
	require.Equal(t, "Failure", leaf.Status)
	require.Equal(t, 0.25, leaf.Duration)
	require.Len(t, leaf.Activities, 1)
}

func TestTestNodes_UntypedRecords(t *testing.T) {
	data := `{"_values": [
		{"name": {"_value": "Group"}, "subtests": {"_values": [{"name": {"_value": "testA()"}}]}},
		{"name": {"_value": "testB()"}, "summaryRef": {"id": {"_value": "ref-b"}}},
		{"name": {"_value": "testC()"}, "testStatus": {"_value": "Success"}}
	]}`

	var nodes TestNodes
	require.NoError(t, json.Unmarshal([]byte(data), &nodes))
	require.Len(t, nodes, 3)

	group, ok := nodes[0].(*TestGroup)
	require.True(t, ok)
	require.Len(t, group.Children, 1)
	require.IsType(t, &TestLeaf{}, group.Children[0])

	ref, ok := nodes[1].(*TestRef)
	require.True(t, ok)
	require.Equal(t, "ref-b", ref.SummaryID)

	leaf, ok := nodes[2].(*TestLeaf)
	require.True(t, ok)
	require.Equal(t, "testC()", leaf.Name)
}

type summaryResolver map[string]ActionTestSummary

func (r summaryResolver) TestSummary(id string) (ActionTestSummary, error) {
	summary, ok := r[id]
	if !ok {
		return ActionTestSummary{}, fmt.Errorf("no summary: %s", id)
	}
	return summary, nil
}

func TestResolveRef(t *testing.T) {
	var full ActionTestSummary
	readTestdata(t, "test_summary.json", &full)

	resolver := summaryResolver{
		"full":  full,
		"empty": ActionTestSummary{},
	}

	t.Run("full record", func(t *testing.T) {
		leaf, err := ResolveRef(&TestRef{Name: "testLogin()", Status: "Failure", Duration: 9, SummaryID: "full"}, resolver)
		require.NoError(t, err)
		require.Equal(t, "Success", leaf.Status)
		require.Equal(t, 1.5, leaf.Duration)
		require.Len(t, leaf.Activities, 2)
	})

	t.Run("empty record falls back to the metadata", func(t *testing.T) {
		leaf, err := ResolveRef(&TestRef{Name: "testB()", Identifier: "Suite/testB()", Status: "Success", Duration: 2.5, SummaryID: "empty"}, resolver)
		require.NoError(t, err)
		require.Equal(t, &TestLeaf{Name: "testB()", Identifier: "Suite/testB()", Status: "Success", Duration: 2.5}, leaf)
	})

	t.Run("unknown reference", func(t *testing.T) {
		_, err := ResolveRef(&TestRef{Name: "testC()", SummaryID: "missing"}, resolver)
		require.EqualError(t, err, "no summary: missing")
	})

	t.Run("no reference", func(t *testing.T) {
		_, err := ResolveRef(&TestRef{Name: "testD()"}, resolver)
		require.EqualError(t, err, "test testD() has no summary reference")
	})
}

func TestTestLeaf_DisplayName(t *testing.T) {
	require.Equal(t, "testLogin()", (&TestLeaf{Name: "testLogin()"}).DisplayName())
	require.Equal(t, DefaultTestName, (&TestLeaf{Identifier: "Suite/unnamed"}).DisplayName())
}
