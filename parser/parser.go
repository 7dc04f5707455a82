// Package parser assembles the normalized report of a result bundle.
package parser

import (
	"errors"
	"fmt"
	"time"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-xcresult-report/attachments"
	"github.com/bitrise-steplib/steps-xcresult-report/coverage"
	"github.com/bitrise-steplib/steps-xcresult-report/model"
	"github.com/bitrise-steplib/steps-xcresult-report/testtree"
	"github.com/bitrise-steplib/steps-xcresult-report/xcresult"
)

// ErrInvalidBundle is returned when the result bundle can not be opened or has no readable invocation record.
var ErrInvalidBundle = errors.New("invalid result bundle")

// Option ...
type Option func(*Parser)

// WithClock overrides the clock used to stamp the parse timestamp.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) {
		p.now = now
	}
}

// Parser ...
type Parser struct {
	opener xcresult.Opener
	logger log.Logger
	now    func() time.Time
}

// New ...
func New(opener xcresult.Opener, logger log.Logger, opts ...Option) Parser {
	p := Parser{
		opener: opener,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// Parse reads the result bundle at xcresultPth and returns its normalized content.
func (p Parser) Parse(xcresultPth string) (*model.ParsedResult, error) {
	bundle, err := p.opener.Open(xcresultPth)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBundle, err)
	}
	defer func() {
		if err := bundle.Close(); err != nil {
			p.logger.Warnf("Failed to clean up %s: %s", xcresultPth, err)
		}
	}()

	record, err := bundle.InvocationRecord()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read invocation record: %s", ErrInvalidBundle, err)
	}

	collector := attachments.NewCollector(bundle, p.logger)
	normalizer := testtree.NewNormalizer(bundle, p.logger)

	result := model.ParsedResult{
		TestSuites:  []model.TestSuite{},
		Attachments: model.Attachments{},
		Tags:        []model.Tag{},
	}

	var actionCoverages []coverage.ActionCoverage
	for _, action := range record.Actions.Values {
		summaries := p.testPlanRunSummaries(bundle, action)

		actionCoverages = append(actionCoverages, coverage.ActionCoverage{
			Raw:         p.codeCoverage(bundle, action),
			TargetNames: summaries.TargetNames(),
			HasTests:    len(summaries.Testables()) > 0,
		})

		result.Attachments = append(result.Attachments, collector.FromTestPlan(summaries)...)

		suites, tags := normalizer.Normalize(summaries)
		result.TestSuites = append(result.TestSuites, suites...)
		result.Tags = append(result.Tags, tags...)
	}

	coverages := coverage.Reconcile(actionCoverages)
	result.OverallCoverage = coverages.Overall
	result.UnitCoverage = coverages.Unit
	result.UICoverage = coverages.UI

	result.Metadata = model.Metadata{
		SourcePath:     xcresultPth,
		ToolVersion:    p.toolVersion(bundle),
		ParseTimestamp: p.now(),
	}

	return &result, nil
}

func (p Parser) testPlanRunSummaries(bundle xcresult.Bundle, action xcresult.ActionRecord) xcresult.ActionTestPlanRunSummaries {
	id, ok := action.TestsRef()
	if !ok {
		return xcresult.ActionTestPlanRunSummaries{}
	}

	summaries, err := bundle.TestPlanRunSummaries(id)
	if err != nil {
		p.logger.Warnf("Failed to read test results of action %s: %s", action.Title.Value, err)
		return xcresult.ActionTestPlanRunSummaries{}
	}
	return summaries
}

func (p Parser) codeCoverage(bundle xcresult.Bundle, action xcresult.ActionRecord) *xcresult.CodeCoverage {
	id, ok := action.CoverageRef()
	if !ok {
		return nil
	}

	raw, err := bundle.CodeCoverage(id)
	if err != nil {
		p.logger.Warnf("Failed to read code coverage of action %s: %s", action.Title.Value, err)
		return nil
	}
	return raw
}

func (p Parser) toolVersion(bundle xcresult.Bundle) *string {
	version, err := bundle.ToolVersion()
	if err != nil {
		p.logger.Debugf("Failed to get tool version: %s", err)
		return nil
	}
	if version == "" {
		return nil
	}
	return &version
}
