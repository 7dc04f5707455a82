package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bitrise-io/go-utils/fileutil"
	"github.com/bitrise-io/go-utils/pathutil"
	"github.com/bitrise-io/go-utils/ziputil"
	"github.com/bitrise-steplib/steps-xcresult-report/export"
	"github.com/bitrise-steplib/steps-xcresult-report/model"
)

const (
	formatAll  = "all"
	formatJSON = "json"
	formatCSV  = "csv"
	formatHTML = "html"
)

const (
	coverageJSONFile    = "coverage.json"
	testResultsJSONFile = "test_results.json"
	coverageCSVFile     = "coverage.csv"
	testResultsCSVFile  = "test_results.csv"
	coverageHTMLFile    = "coverage_report.html"
	testHTMLFile        = "test_report.html"
	summaryFile         = "summary.txt"
	tagsJSONFile        = "tags.json"
	tagsTextFile        = "tags.txt"
	junitFile           = "report.xml"
	attachmentsDirName  = "attachments"
	attachmentsZipName  = "attachments.zip"
)

var redactableExtensions = []string{".json", ".csv", ".html", ".txt", ".xml"}

func includesFormat(selected, format string) bool {
	return selected == "" || selected == formatAll || selected == format
}

// renderFiles renders every export of a result, keyed by the path relative to the output dir.
func renderFiles(result model.ParsedResult, config Config) (map[string][]byte, error) {
	files := map[string][]byte{}
	add := func(name string, render func() ([]byte, error)) error {
		contents, err := render()
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", name, err)
		}
		files[name] = contents
		return nil
	}

	jsonExporter := export.NewJSONExporter()
	if includesFormat(config.ExportFormat, formatJSON) {
		if err := add(coverageJSONFile, func() ([]byte, error) { return jsonExporter.Coverage(result) }); err != nil {
			return nil, err
		}
		if err := add(testResultsJSONFile, func() ([]byte, error) { return jsonExporter.TestResults(result) }); err != nil {
			return nil, err
		}
		if err := add(tagsJSONFile, func() ([]byte, error) { return jsonExporter.Tags(result, config.TagFilter) }); err != nil {
			return nil, err
		}
	}

	if includesFormat(config.ExportFormat, formatCSV) {
		csvExporter := export.NewCSVExporter()
		if err := add(coverageCSVFile, func() ([]byte, error) { return csvExporter.Coverage(result) }); err != nil {
			return nil, err
		}
		if err := add(testResultsCSVFile, func() ([]byte, error) { return csvExporter.TestResults(result) }); err != nil {
			return nil, err
		}
	}

	if includesFormat(config.ExportFormat, formatHTML) {
		htmlExporter := export.NewHTMLExporter()
		if err := add(coverageHTMLFile, func() ([]byte, error) { return htmlExporter.Coverage(result) }); err != nil {
			return nil, err
		}
		if err := add(testHTMLFile, func() ([]byte, error) { return htmlExporter.TestResults(result) }); err != nil {
			return nil, err
		}
	}

	formatter := export.NewTextFormatter()
	files[summaryFile] = []byte(formatter.ExportSummary(result))
	files[tagsTextFile] = []byte(formatter.Tags(result.TagsMatching(config.TagFilter)))

	if err := add(junitFile, func() ([]byte, error) { return export.NewJUnitExporter().Export(result) }); err != nil {
		return nil, err
	}

	if config.IncludeAttachments {
		attachmentFiles, err := export.AttachmentFiles(result.Attachments, config.AttachmentMetadata)
		if err != nil {
			return nil, err
		}
		for _, file := range attachmentFiles {
			files[filepath.Join(attachmentsDirName, file.Name)] = file.Contents
		}
	}

	return files, nil
}

// writeFiles writes the files under dir in name order and returns the written paths.
func writeFiles(dir string, files map[string][]byte) ([]string, error) {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var paths []string
	for _, name := range names {
		pth := filepath.Join(dir, name)
		if err := pathutil.EnsureDirExist(filepath.Dir(pth)); err != nil {
			return nil, fmt.Errorf("failed to create dir for %s: %w", name, err)
		}
		if err := fileutil.WriteBytesToFile(pth, files[name]); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", pth, err)
		}
		paths = append(paths, pth)
	}

	return paths, nil
}

type textRedactor interface {
	Redact(data []byte) ([]byte, error)
}

// isRedactable reports whether a rendered file is a text report, attachment payloads are redacted by kind instead.
func isRedactable(name string) bool {
	if strings.HasPrefix(filepath.ToSlash(name), attachmentsDirName+"/") {
		return false
	}
	for _, ext := range redactableExtensions {
		if filepath.Ext(name) == ext {
			return true
		}
	}
	return false
}

// redactReports replaces the secrets in every text report of files, before they are written or uploaded.
func redactReports(files map[string][]byte, redactor textRedactor) error {
	for name, contents := range files {
		if !isRedactable(name) {
			continue
		}

		redacted, err := redactor.Redact(contents)
		if err != nil {
			return fmt.Errorf("failed to redact %s: %w", name, err)
		}
		files[name] = redacted
	}
	return nil
}

func compressAttachments(dir string) error {
	attachmentsDir := filepath.Join(dir, attachmentsDirName)
	exist, err := pathutil.IsDirExists(attachmentsDir)
	if err != nil {
		return fmt.Errorf("failed to check attachments dir: %w", err)
	}
	if !exist {
		return nil
	}

	if err := ziputil.ZipDir(attachmentsDir, filepath.Join(dir, attachmentsZipName), true); err != nil {
		return fmt.Errorf("failed to zip attachments dir: %w", err)
	}
	return nil
}

type stepOutput struct {
	Key   string
	Value string
}

// stepOutputs sums the test counts of every bundle, the coverage is the overall coverage of the first bundle having one.
func stepOutputs(outputDir string, results []bundleResult) []stepOutput {
	var total, failed int
	var coverage string
	for _, result := range results {
		counts := result.Result.TestCounts()
		total += counts.Total
		failed += counts.Failed

		if coverage == "" && result.Result.OverallCoverage != nil {
			coverage = strconv.FormatFloat(result.Result.OverallCoverage.Percentage(), 'f', 2, 64)
		}
	}

	return []stepOutput{
		{Key: "XCRESULT_REPORT_DIR", Value: outputDir},
		{Key: "XCRESULT_TEST_COUNT", Value: strconv.Itoa(total)},
		{Key: "XCRESULT_FAILED_TEST_COUNT", Value: strconv.Itoa(failed)},
		{Key: "XCRESULT_LINE_COVERAGE", Value: coverage},
	}
}
