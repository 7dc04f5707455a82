package attachments

import (
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-xcresult-report/model"
	"github.com/bitrise-steplib/steps-xcresult-report/xcresult"
)

// Resolver resolves both test metadata references and attachment payloads.
type Resolver interface {
	PayloadResolver
	xcresult.SummaryResolver
}

// Collector collects the attachments of every test of a test plan run.
type Collector struct {
	resolver Resolver
	logger   log.Logger
}

// NewCollector ...
func NewCollector(resolver Resolver, logger log.Logger) Collector {
	return Collector{resolver: resolver, logger: logger}
}

// FromTestPlan walks every test of every testable in document order and returns their attachments.
// Tests that can not be resolved are skipped.
func (c Collector) FromTestPlan(summaries xcresult.ActionTestPlanRunSummaries) []model.Attachment {
	var attachments []model.Attachment
	for _, testable := range summaries.Testables() {
		attachments = append(attachments, c.fromNodes(testable.Tests)...)
	}
	return attachments
}

func (c Collector) fromNodes(nodes []xcresult.TestNode) []model.Attachment {
	var attachments []model.Attachment
	for _, node := range nodes {
		switch n := node.(type) {
		case *xcresult.TestGroup:
			attachments = append(attachments, c.fromNodes(n.Children)...)
		case *xcresult.TestLeaf:
			attachments = append(attachments, c.fromLeaf(n)...)
		case *xcresult.TestRef:
			leaf, err := xcresult.ResolveRef(n, c.resolver)
			if err != nil {
				c.logger.Debugf("Skipping attachments of %s: %s", n.Name, err)
				continue
			}
			attachments = append(attachments, c.fromLeaf(leaf)...)
		}
	}
	return attachments
}

func (c Collector) fromLeaf(leaf *xcresult.TestLeaf) []model.Attachment {
	return Walk(leaf.DisplayName(), leaf.Activities, c.resolver)
}
