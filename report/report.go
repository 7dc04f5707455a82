// Package report publishes the rendered HTML reports to the html reports of a Bitrise build.
package report

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/bitrise-steplib/steps-xcresult-report/report/api"
	"golang.org/x/sync/errgroup"
)

// HTMLReportUploader stages pages into a report dir and publishes them one by one.
type HTMLReportUploader struct {
	client      api.ClientAPI
	logger      log.Logger
	reportDir   string
	concurrency int
}

// NewHTMLReportUploader ...
func NewHTMLReportUploader(reportDir, buildURL, authToken string, concurrency int, logger log.Logger) HTMLReportUploader {
	return HTMLReportUploader{
		client:      api.NewClient(buildURL, authToken, logger),
		logger:      logger,
		reportDir:   reportDir,
		concurrency: concurrency,
	}
}

// Publish stages the pages and publishes each of them as a separate report.
// Only the given pages are published, other reports in the report dir are left alone.
// A failing page does not stop the rest.
func (h HTMLReportUploader) Publish(pages []Page) []error {
	if err := Stage(h.reportDir, pages); err != nil {
		return []error{err}
	}

	var errs []error
	for _, page := range pages {
		report, err := collectReport(filepath.Join(h.reportDir, page.Name))
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to collect %s: %w", page.Name, err))
			continue
		}

		if err := h.publish(page.title(), report); err != nil {
			errs = append(errs, fmt.Errorf("failed to publish %s: %w", page.Name, err))
		}
	}
	return errs
}

func (h HTMLReportUploader) publish(title string, report Report) error {
	h.logger.Printf("Publishing %s (%d assets)", title, len(report.Assets))

	resp, err := h.client.CreateReport(api.CreateReportParameters{
		Title:    title,
		Category: report.Info.Category,
		Assets:   reportAssets(report.Assets),
	})
	if err != nil {
		return err
	}

	uploadURLs := make(map[string]string, len(resp.AssetURLs))
	for _, assetURL := range resp.AssetURLs {
		uploadURLs[assetURL.RelativePath] = assetURL.URL
	}

	uploadErrs := h.uploadAssets(report.Assets, uploadURLs)
	for _, err := range uploadErrs {
		h.logger.Warnf("Asset upload failed: %s", err)
	}
	if len(uploadErrs) > 0 {
		h.logger.Warnf("%s will be marked unsuccessful as some assets could not be saved", title)
	}

	return h.client.FinishReport(resp.Identifier, len(uploadErrs) == 0)
}

func reportAssets(assets []Asset) []api.CreateReportAsset {
	var reportAssets []api.CreateReportAsset
	for _, asset := range assets {
		reportAssets = append(reportAssets, api.CreateReportAsset{
			RelativePath: asset.TestDirRelativePath,
			FileSize:     asset.FileSize,
			ContentType:  asset.ContentType,
		})
	}
	return reportAssets
}

// uploadAssets uploads at most concurrency assets at a time and returns every failure.
func (h HTMLReportUploader) uploadAssets(assets []Asset, uploadURLs map[string]string) []error {
	var (
		mu   sync.Mutex
		errs []error
	)

	limit := h.concurrency
	if limit < 1 {
		limit = 1
	}
	g := new(errgroup.Group)
	g.SetLimit(limit)

	for _, asset := range assets {
		asset := asset
		g.Go(func() error {
			url, ok := uploadURLs[asset.TestDirRelativePath]
			var err error
			if !ok {
				err = fmt.Errorf("missing upload url for %s", asset.TestDirRelativePath)
			} else {
				h.logger.Debugf("Uploading %s", asset.TestDirRelativePath)
				err = h.client.UploadAsset(url, asset.Path, asset.ContentType)
			}

			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}

	_ = g.Wait()
	return errs
}
