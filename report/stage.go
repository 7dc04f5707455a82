package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitrise-io/go-utils/pathutil"
)

const (
	htmlReportIndexFile = "index.html"
	htmlReportInfoFile  = "report-info.json"
)

// Stage writes every page into its own directory under dir, in the layout read by collectReport.
func Stage(dir string, pages []Page) error {
	for _, page := range pages {
		pageDir := filepath.Join(dir, page.Name)
		if err := os.MkdirAll(pageDir, 0755); err != nil {
			return fmt.Errorf("failed to create report dir for %s: %w", page.Name, err)
		}

		if err := os.WriteFile(filepath.Join(pageDir, htmlReportIndexFile), page.Index, 0644); err != nil {
			return fmt.Errorf("failed to write index of %s: %w", page.Name, err)
		}

		for _, asset := range page.Assets {
			assetPth := filepath.Join(pageDir, asset.Name)
			if err := pathutil.EnsureDirExist(filepath.Dir(assetPth)); err != nil {
				return err
			}
			if err := os.WriteFile(assetPth, asset.Contents, 0644); err != nil {
				return fmt.Errorf("failed to write asset %s of %s: %w", asset.Name, page.Name, err)
			}
		}

		if page.Info.Category == "" {
			continue
		}

		info, err := json.Marshal(page.Info)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(pageDir, htmlReportInfoFile), info, 0644); err != nil {
			return fmt.Errorf("failed to write info of %s: %w", page.Name, err)
		}
	}

	return nil
}
