package report

import "github.com/bitrise-steplib/steps-xcresult-report/export"

// Page is a rendered HTML report to be published, its index is served as index.html.
// Name is the directory of the staged report, Title is shown on the build page.
type Page struct {
	Name   string
	Title  string
	Info   Info
	Index  []byte
	Assets []export.File
}

func (p Page) title() string {
	if p.Title == "" {
		return p.Name
	}
	return p.Title
}

// Report is a staged report directory.
type Report struct {
	Name   string
	Info   Info
	Assets []Asset
}

// Asset ...
type Asset struct {
	Path                string
	TestDirRelativePath string
	FileSize            int64
	ContentType         string
}

// Info is stored in the report-info.json file of a staged report.
type Info struct {
	Category string `json:"category"`
}
