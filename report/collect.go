package report

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const fallbackContentType = "application/octet-stream"

// http.DetectContentType sniffs these as plain text.
var contentTypesByExtension = map[string]string{
	".css": "text/css; charset=utf-8",
	".js":  "text/javascript; charset=utf-8",
	".txt": "text/plain; charset=utf-8",
}

// collectReport reads a staged report directory, it has to contain an index.html.
func collectReport(reportDir string) (Report, error) {
	report := Report{Name: filepath.Base(reportDir)}
	hasIndex := false

	if err := filepath.WalkDir(reportDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() == ".DS_Store" || d.Name() == htmlReportInfoFile {
			return nil
		}

		relativePath, err := filepath.Rel(reportDir, path)
		if err != nil {
			return err
		}
		if relativePath == htmlReportIndexFile {
			hasIndex = true
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		report.Assets = append(report.Assets, Asset{
			Path:                path,
			TestDirRelativePath: filepath.ToSlash(relativePath),
			FileSize:            info.Size(),
			ContentType:         detectContentType(path),
		})
		return nil
	}); err != nil {
		return Report{}, err
	}

	if !hasIndex {
		return Report{}, fmt.Errorf("missing %s file for %s", htmlReportIndexFile, report.Name)
	}

	info, err := readInfo(reportDir)
	if err != nil {
		return Report{}, err
	}
	report.Info = info

	return report, nil
}

func readInfo(testDir string) (Info, error) {
	var info Info

	data, err := os.ReadFile(filepath.Join(testDir, htmlReportInfoFile))
	if os.IsNotExist(err) {
		return info, nil
	} else if err != nil {
		return info, err
	}

	if err := json.Unmarshal(data, &info); err != nil {
		return info, err
	}
	return info, nil
}

func detectContentType(path string) string {
	if contentType, ok := contentTypesByExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return contentType
	}

	file, err := os.Open(path)
	if err != nil {
		return fallbackContentType
	}
	defer file.Close() //nolint:errcheck

	// DetectContentType reads at most 512 bytes.
	buff := make([]byte, 512)
	n, err := io.ReadFull(file, buff)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fallbackContentType
	}

	return http.DetectContentType(buff[:n])
}
