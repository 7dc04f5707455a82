package xcresult

// CodeCoverage is the `xcrun xccov view --report --json` output.
type CodeCoverage struct {
	CoveredLines    int              `json:"coveredLines"`
	ExecutableLines int              `json:"executableLines"`
	LineCoverage    float64          `json:"lineCoverage"`
	Targets         []CoverageTarget `json:"targets"`
}

// CoverageTarget ...
type CoverageTarget struct {
	Name             string         `json:"name"`
	BuildProductPath string         `json:"buildProductPath"`
	CoveredLines     int            `json:"coveredLines"`
	ExecutableLines  int            `json:"executableLines"`
	LineCoverage     float64        `json:"lineCoverage"`
	Files            []CoverageFile `json:"files"`
}

// CoverageFile ...
type CoverageFile struct {
	Name            string             `json:"name"`
	Path            string             `json:"path"`
	CoveredLines    int                `json:"coveredLines"`
	ExecutableLines int                `json:"executableLines"`
	LineCoverage    float64            `json:"lineCoverage"`
	Functions       []CoverageFunction `json:"functions"`
}

// CoverageFunction ...
type CoverageFunction struct {
	Name            string  `json:"name"`
	LineNumber      int     `json:"lineNumber"`
	ExecutionCount  int     `json:"executionCount"`
	CoveredLines    int     `json:"coveredLines"`
	ExecutableLines int     `json:"executableLines"`
	LineCoverage    float64 `json:"lineCoverage"`
}
