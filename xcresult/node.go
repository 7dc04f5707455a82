package xcresult

import (
	"encoding/json"
	"fmt"
)

// Record type names written into the _type._name field.
const (
	typeGroup    = "ActionTestSummaryGroup"
	typeMetadata = "ActionTestMetadata"
	typeSummary  = "ActionTestSummary"
)

// TestNode is a member of a test group: a *TestGroup, a *TestLeaf or a *TestRef.
type TestNode interface {
	testNode()
}

// TestGroup contains nested groups and tests.
type TestGroup struct {
	Name       string
	Identifier string
	Duration   float64
	Children   []TestNode
}

// TestLeaf is a test with its complete activity tree.
type TestLeaf struct {
	Name       string
	Identifier string
	Status     string
	Duration   float64
	Activities []ActivitySummary
}

// DefaultTestName names the tests recorded without a name.
const DefaultTestName = "UnknownTest"

// DisplayName returns the test name, DefaultTestName if the record has none.
// It is also the identifier the test and its attachments are reported with.
func (l *TestLeaf) DisplayName() string {
	if l.Name == "" {
		return DefaultTestName
	}
	return l.Name
}

// TestRef is a test metadata stub, its activity tree has to be fetched by SummaryID.
type TestRef struct {
	Name       string
	Identifier string
	Status     string
	Duration   float64
	SummaryID  string
}

func (*TestGroup) testNode() {}
func (*TestLeaf) testNode()  {}
func (*TestRef) testNode()   {}

// TestNodes decodes an xcresulttool `_values` array of test records into TestNode values.
type TestNodes []TestNode

type testRecord struct {
	Type struct {
		Name string `json:"_name"`
	} `json:"_type"`
	Name       Value      `json:"name"`
	Identifier Value      `json:"identifier"`
	TestStatus Value      `json:"testStatus"`
	Duration   Value      `json:"duration"`
	SummaryRef *Reference `json:"summaryRef,omitempty"`
	Subtests   struct {
		Values []testRecord `json:"_values"`
	} `json:"subtests"`
	ActivitySummaries struct {
		Values []ActivitySummary `json:"_values"`
	} `json:"activitySummaries"`
}

// UnmarshalJSON ...
func (n *TestNodes) UnmarshalJSON(data []byte) error {
	var records struct {
		Values []testRecord `json:"_values"`
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}

	*n = toNodes(records.Values)
	return nil
}

func toNodes(records []testRecord) TestNodes {
	nodes := make(TestNodes, 0, len(records))
	for _, record := range records {
		nodes = append(nodes, record.node())
	}
	return nodes
}

func (r testRecord) node() TestNode {
	kind := r.Type.Name
	if kind == "" {
		switch {
		case len(r.Subtests.Values) > 0:
			kind = typeGroup
		case r.SummaryRef != nil:
			kind = typeMetadata
		default:
			kind = typeSummary
		}
	}

	switch kind {
	case typeGroup:
		return &TestGroup{
			Name:       r.Name.Value,
			Identifier: r.Identifier.Value,
			Duration:   parseDuration(r.Duration.Value),
			Children:   toNodes(r.Subtests.Values),
		}
	case typeMetadata:
		return &TestRef{
			Name:       r.Name.Value,
			Identifier: r.Identifier.Value,
			Status:     r.TestStatus.Value,
			Duration:   parseDuration(r.Duration.Value),
			SummaryID:  r.SummaryRef.id(),
		}
	default:
		return &TestLeaf{
			Name:       r.Name.Value,
			Identifier: r.Identifier.Value,
			Status:     r.TestStatus.Value,
			Duration:   parseDuration(r.Duration.Value),
			Activities: r.ActivitySummaries.Values,
		}
	}
}

// SummaryResolver reads the full test record referenced by a TestRef.
type SummaryResolver interface {
	TestSummary(id string) (ActionTestSummary, error)
}

// ResolveRef returns the full test record of ref.
// Name, identifier, status and duration fall back to the ones of the metadata if the record leaves them empty.
func ResolveRef(ref *TestRef, resolver SummaryResolver) (*TestLeaf, error) {
	if ref.SummaryID == "" {
		return nil, fmt.Errorf("test %s has no summary reference", ref.Name)
	}

	summary, err := resolver.TestSummary(ref.SummaryID)
	if err != nil {
		return nil, err
	}

	leaf := summary.Leaf()
	if leaf.Name == "" {
		leaf.Name = ref.Name
	}
	if leaf.Identifier == "" {
		leaf.Identifier = ref.Identifier
	}
	if leaf.Status == "" {
		leaf.Status = ref.Status
	}
	if summary.Duration.Value == "" {
		leaf.Duration = ref.Duration
	}
	return leaf, nil
}
