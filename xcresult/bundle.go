package xcresult

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/go-utils/pathutil"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-xcode/models"
	"github.com/bitrise-io/go-xcode/utility"
	"github.com/pkg/errors"
)

// Bundle gives access to the records of a result bundle.
type Bundle interface {
	Path() string
	InvocationRecord() (ActionsInvocationRecord, error)
	TestPlanRunSummaries(id string) (ActionTestPlanRunSummaries, error)
	TestSummary(id string) (ActionTestSummary, error)
	// CodeCoverage returns nil without an error if the bundle has no coverage report.
	CodeCoverage(reportID string) (*CodeCoverage, error)
	Payload(id string) ([]byte, bool)
	ToolVersion() (string, error)
	Close() error
}

// Opener ...
type Opener interface {
	Open(xcresultPth string) (Bundle, error)
}

// XcodeVersionProvider ...
type XcodeVersionProvider func() (models.XcodebuildVersionModel, error)

// Reader opens result bundles with the Xcode command line tools.
type Reader struct {
	tool         xcresulttool
	logger       log.Logger
	xcodeVersion XcodeVersionProvider
}

// NewReader ...
func NewReader(commandFactory command.Factory, logger log.Logger) Reader {
	return Reader{
		tool:         xcresulttool{commandFactory: commandFactory, logger: logger},
		logger:       logger,
		xcodeVersion: utility.GetXcodeVersion,
	}
}

// Open checks the bundle format version and returns a Bundle reading the given path.
func (r Reader) Open(xcresultPth string) (Bundle, error) {
	if filepath.Ext(xcresultPth) != ".xcresult" {
		r.logger.Warnf("%s does not have the .xcresult extension", xcresultPth)
	}

	if exist, err := pathutil.IsDirExists(xcresultPth); err != nil {
		return nil, err
	} else if !exist {
		return nil, fmt.Errorf("result bundle does not exist: %s", xcresultPth)
	}

	version, err := DocumentMajorVersion(xcresultPth)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get document version")
	}
	if version < minDocumentMajorVersion {
		return nil, fmt.Errorf("unsupported result bundle version: %d", version)
	}

	useLegacyFlag := false
	if toolVersion, err := r.tool.version(); err != nil {
		r.logger.Warnf("Failed to get xcresulttool version: %s", err)
	} else {
		useLegacyFlag = toolVersion >= legacyFlagMinVersion
	}

	return &bundle{
		path:          xcresultPth,
		tool:          r.tool,
		logger:        r.logger,
		xcodeVersion:  r.xcodeVersion,
		useLegacyFlag: useLegacyFlag,
		summaries:     map[string]ActionTestSummary{},
	}, nil
}

type bundle struct {
	path          string
	tool          xcresulttool
	logger        log.Logger
	xcodeVersion  XcodeVersionProvider
	useLegacyFlag bool

	summaries      map[string]ActionTestSummary
	coverage       *CodeCoverage
	coverageLoaded bool
	exportDir      string
}

func (b *bundle) Path() string {
	return b.path
}

func (b *bundle) InvocationRecord() (ActionsInvocationRecord, error) {
	var record ActionsInvocationRecord
	if err := b.tool.get(b.path, "", b.useLegacyFlag, &record); err != nil {
		return ActionsInvocationRecord{}, errors.Wrap(err, "failed to read invocation record")
	}
	return record, nil
}

func (b *bundle) TestPlanRunSummaries(id string) (ActionTestPlanRunSummaries, error) {
	var summaries ActionTestPlanRunSummaries
	if err := b.tool.get(b.path, id, b.useLegacyFlag, &summaries); err != nil {
		return ActionTestPlanRunSummaries{}, errors.Wrapf(err, "failed to read test plan run summaries (%s)", id)
	}
	return summaries, nil
}

func (b *bundle) TestSummary(id string) (ActionTestSummary, error) {
	if summary, ok := b.summaries[id]; ok {
		return summary, nil
	}

	var summary ActionTestSummary
	if err := b.tool.get(b.path, id, b.useLegacyFlag, &summary); err != nil {
		return ActionTestSummary{}, errors.Wrapf(err, "failed to read test summary (%s)", id)
	}

	b.summaries[id] = summary
	return summary, nil
}

// CodeCoverage reads the bundle level coverage report once, xccov can not split it by action.
func (b *bundle) CodeCoverage(reportID string) (*CodeCoverage, error) {
	if reportID == "" {
		return nil, nil
	}
	if b.coverageLoaded {
		return b.coverage, nil
	}
	b.coverageLoaded = true

	var coverage CodeCoverage
	if err := b.tool.coverage(b.path, &coverage); err != nil {
		return nil, errors.Wrap(err, "failed to read code coverage report")
	}

	b.coverage = &coverage
	return b.coverage, nil
}

func (b *bundle) Payload(id string) ([]byte, bool) {
	if id == "" {
		return nil, false
	}

	if b.exportDir == "" {
		dir, err := pathutil.NormalizedOSTempDirPath("xcresult-payloads")
		if err != nil {
			b.logger.Warnf("Failed to create payload export dir: %s", err)
			return nil, false
		}
		b.exportDir = dir
	}

	outputPth := filepath.Join(b.exportDir, strings.ReplaceAll(id, string(filepath.Separator), "_"))
	if err := b.tool.export(b.path, id, outputPth, b.useLegacyFlag); err != nil {
		b.logger.Debugf("Failed to export payload (%s): %s", id, err)
		return nil, false
	}

	data, err := os.ReadFile(outputPth)
	if err != nil {
		b.logger.Debugf("Failed to read exported payload (%s): %s", id, err)
		return nil, false
	}

	if err := os.Remove(outputPth); err != nil {
		b.logger.Debugf("Failed to remove exported payload (%s): %s", outputPth, err)
	}

	return data, true
}

// ToolVersion returns the version of the active Xcode, like: Xcode 15.2 (15C500b).
func (b *bundle) ToolVersion() (string, error) {
	version, err := b.xcodeVersion()
	if err != nil {
		return "", err
	}
	return formatXcodeVersion(version), nil
}

func formatXcodeVersion(version models.XcodebuildVersionModel) string {
	build := strings.TrimSpace(strings.TrimPrefix(version.BuildVersion, "Build version"))
	if build == "" {
		return version.Version
	}
	return fmt.Sprintf("%s (%s)", version.Version, build)
}

func (b *bundle) Close() error {
	if b.exportDir == "" {
		return nil
	}
	return os.RemoveAll(b.exportDir)
}
