package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bitrise-io/go-steputils/tools"
	"github.com/bitrise-io/go-steputils/v2/stepconf"
	"github.com/bitrise-io/go-utils/v2/command"
	"github.com/bitrise-io/go-utils/v2/env"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-io/go-utils/v2/pathutil"
	"github.com/bitrise-steplib/steps-xcresult-report/bundlepath"
	"github.com/bitrise-steplib/steps-xcresult-report/export"
	"github.com/bitrise-steplib/steps-xcresult-report/model"
	"github.com/bitrise-steplib/steps-xcresult-report/parser"
	"github.com/bitrise-steplib/steps-xcresult-report/redactor"
	"github.com/bitrise-steplib/steps-xcresult-report/xcresult"
)

// Config ...
type Config struct {
	XcresultPath        string          `env:"xcresult_path,required"`
	OutputDir           string          `env:"output_dir,required"`
	ExportFormat        string          `env:"export_format,opt[all,json,csv,html]"`
	IncludeAttachments  bool            `env:"include_attachments,opt[true,false]"`
	AttachmentMetadata  bool            `env:"attachment_metadata,opt[true,false]"`
	CompressAttachments bool            `env:"compress_attachments,opt[true,false]"`
	TagFilter           string          `env:"tag_filter"`
	BuildURL            string          `env:"build_url"`
	APIToken            stepconf.Secret `env:"build_api_token"`
	PublishHTMLReports  bool            `env:"publish_html_reports,opt[true,false]"`
	HTMLReportDir       string          `env:"BITRISE_HTML_REPORT_DIR"`
	AddonAPIBaseURL     string          `env:"addon_api_base_url"`
	AddonAPIToken       stepconf.Secret `env:"addon_api_token"`
	AppSlug             string          `env:"BITRISE_APP_SLUG"`
	BuildSlug           string          `env:"BITRISE_BUILD_SLUG"`
	SecretEnvKeyList    string          `env:"BITRISE_SECRET_ENV_KEY_LIST"`
	Verbose             bool            `env:"verbose,opt[true,false]"`
}

// bundleResult is a parsed result bundle and the directory its exports were written to.
type bundleResult struct {
	Name      string
	OutputDir string
	Result    model.ParsedResult
	Files     map[string][]byte
}

func fail(logger log.Logger, format string, v ...interface{}) {
	logger.Errorf(format, v...)
	os.Exit(1)
}

func main() {
	envRepository := env.NewRepository()
	logger := log.NewLogger()

	var config Config
	if err := stepconf.NewInputParser(envRepository).Parse(&config); err != nil {
		fail(logger, "Issue with input: %s", err)
	}

	stepconf.Print(config)
	fmt.Println()
	logger.EnableDebugLog(config.Verbose)

	bundlePaths, err := bundlepath.NewProcessor(envRepository, pathutil.NewPathModifier(), pathutil.NewPathChecker()).ProcessBundlePaths(config.XcresultPath)
	if err != nil {
		fail(logger, "Invalid xcresult_path: %s", err)
	}
	if len(bundlePaths) == 0 {
		fail(logger, "No result bundle to parse")
	}

	outputDir, err := pathutil.NewPathModifier().AbsPath(config.OutputDir)
	if err != nil {
		fail(logger, "Failed to expand output dir (%s): %s", config.OutputDir, err)
	}

	secrets := redactor.SecretsFromEnv(config.SecretEnvKeyList, envRepository)
	secretRedactor := redactor.New(secrets, logger)
	resultParser := parser.New(xcresult.NewReader(command.NewFactory(envRepository), logger), logger)
	formatter := export.NewTextFormatter()

	var results []bundleResult
	for _, bundlePath := range bundlePaths {
		logger.Infof("Parsing %s", bundlePath)

		result, err := resultParser.Parse(bundlePath)
		if err != nil {
			fail(logger, "Failed to parse result bundle: %s", err)
		}

		result.Attachments, err = secretRedactor.RedactAttachments(result.Attachments)
		if err != nil {
			fail(logger, "%s", err)
		}

		dir := bundleOutputDir(outputDir, bundlePath, len(bundlePaths) > 1)
		files, err := renderFiles(*result, config)
		if err != nil {
			fail(logger, "Failed to render reports of %s: %s", bundlePath, err)
		}

		if err := redactReports(files, secretRedactor); err != nil {
			fail(logger, "%s", err)
		}
		if _, err := writeFiles(dir, files); err != nil {
			fail(logger, "Failed to write reports: %s", err)
		}

		if config.IncludeAttachments && config.CompressAttachments {
			if err := compressAttachments(dir); err != nil {
				fail(logger, "%s", err)
			}
		}

		fmt.Println()
		logger.Printf("%s", formatter.Summary(*result))
		logger.Donef("Reports written to %s", dir)

		results = append(results, bundleResult{
			Name:      bundleName(bundlePath),
			OutputDir: dir,
			Result:    *result,
			Files:     files,
		})
	}

	fmt.Println()
	logger.Infof("Exporting outputs")
	for _, output := range stepOutputs(outputDir, results) {
		if err := tools.ExportEnvironmentWithEnvman(output.Key, output.Value); err != nil {
			fail(logger, "Failed to export %s: %s", output.Key, err)
		}
		logger.Printf("%s: %s", output.Key, output.Value)
	}

	publishHTMLReports(config, results, logger)
	deployTestResults(config, results, logger)
}

func bundleName(bundlePath string) string {
	return strings.TrimSuffix(filepath.Base(bundlePath), filepath.Ext(bundlePath))
}

// bundleOutputDir keeps the exports of multiple bundles apart.
func bundleOutputDir(outputDir, bundlePath string, multipleBundles bool) string {
	if !multipleBundles {
		return outputDir
	}
	return filepath.Join(outputDir, bundleName(bundlePath))
}
