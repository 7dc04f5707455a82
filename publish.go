package main

import (
	"fmt"
	"path/filepath"

	"github.com/bitrise-io/bitrise/models"
	"github.com/bitrise-io/go-utils/pathutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-xcresult-report/report"
	"github.com/bitrise-steplib/steps-xcresult-report/testresult"
)

const (
	htmlReportUploadConcurrency = 10
	coverageReportCategory      = "coverage"
	testReportCategory          = "test"
)

var stepInfo = models.TestResultStepInfo{
	ID:    "xcresult-report",
	Title: "Xcode Result Report",
}

// htmlReportPages turns the rendered HTML exports into report pages, bundles without HTML exports are skipped.
func htmlReportPages(results []bundleResult) []report.Page {
	var pages []report.Page
	for _, result := range results {
		nameSuffix, titleSuffix := "", ""
		if len(results) > 1 {
			nameSuffix = "-" + result.Name
			titleSuffix = " (" + result.Name + ")"
		}

		if index, ok := result.Files[coverageHTMLFile]; ok {
			pages = append(pages, report.Page{
				Name:  "xcresult-coverage" + nameSuffix,
				Title: "Code Coverage" + titleSuffix,
				Info:  report.Info{Category: coverageReportCategory},
				Index: index,
			})
		}
		if index, ok := result.Files[testHTMLFile]; ok {
			pages = append(pages, report.Page{
				Name:  "xcresult-tests" + nameSuffix,
				Title: "Test Results" + titleSuffix,
				Info:  report.Info{Category: testReportCategory},
				Index: index,
			})
		}
	}
	return pages
}

// publishHTMLReports publishes the pages from a private staging dir, so a later deploy step does not publish them again.
// Without publishing the pages are only staged into BITRISE_HTML_REPORT_DIR, for the deploy step to pick up.
func publishHTMLReports(config Config, results []bundleResult, logger log.Logger) {
	pages := htmlReportPages(results)

	if !config.PublishHTMLReports {
		if config.HTMLReportDir == "" || len(pages) == 0 {
			return
		}
		if err := report.Stage(config.HTMLReportDir, pages); err != nil {
			logger.Warnf("Failed to stage HTML reports: %s", err)
			return
		}
		logger.Printf("HTML reports staged into %s", config.HTMLReportDir)
		return
	}

	fmt.Println()
	logger.Infof("Publishing HTML reports")

	if config.BuildURL == "" || config.APIToken == "" {
		logger.Warnf("build_url and build_api_token are required to publish HTML reports")
		return
	}
	if len(pages) == 0 {
		logger.Warnf("No HTML report was rendered, set export_format to html or all")
		return
	}

	stagingDir, err := pathutil.NormalizedOSTempDirPath("__xcresult-html-reports__")
	if err != nil {
		logger.Warnf("Failed to create tmp dir: %s", err)
		return
	}

	uploader := report.NewHTMLReportUploader(stagingDir, config.BuildURL, string(config.APIToken), htmlReportUploadConcurrency, logger)
	if errs := uploader.Publish(pages); len(errs) > 0 {
		for _, err := range errs {
			logger.Warnf("Failed to publish HTML report: %s", err)
		}
		return
	}
	logger.Donef("Success")
}

// testResults collects the JUnit reports of the bundles, with the exported attachments when present.
func testResults(config Config, results []bundleResult, logger log.Logger) testresult.Results {
	var uploads testresult.Results
	for _, result := range results {
		xmlContent, ok := result.Files[junitFile]
		if !ok {
			continue
		}

		attachmentsDir := ""
		if config.IncludeAttachments {
			attachmentsDir = filepath.Join(result.OutputDir, attachmentsDirName)
		}

		uploads = append(uploads, testresult.NewResult(result.Name, xmlContent, attachmentsDir, stepInfo, logger))
	}
	return uploads
}

func deployTestResults(config Config, results []bundleResult, logger log.Logger) {
	if config.AddonAPIToken == "" {
		return
	}

	fmt.Println()
	logger.Infof("Upload test results")

	uploads := testResults(config, results, logger)
	logger.Printf("- uploading (%d) test results", len(uploads))

	if err := testresult.NewUploader(logger).Upload(uploads, string(config.AddonAPIToken), config.AddonAPIBaseURL, config.AppSlug, config.BuildSlug); err != nil {
		logger.Warnf("Failed to upload test results: %s", err)
		return
	}
	logger.Donef("Success")
}
