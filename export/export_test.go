package export

import (
	"time"

	"github.com/bitrise-steplib/steps-xcresult-report/model"
)

func stringPtr(s string) *string {
	return &s
}

func sampleResult() model.ParsedResult {
	timestamp := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	return model.ParsedResult{
		OverallCoverage: &model.CoverageSummary{
			LineCoverage:        125.0 / 150.0,
			FunctionCoverage:    0.75,
			ExecutableLines:     150,
			CoveredLines:        125,
			ExecutableFunctions: 8,
			CoveredFunctions:    6,
		},
		TestSuites: []model.TestSuite{
			model.NewTestSuite("LoginTests", model.TypeUnit, []model.TestCase{
				{Name: "testLogin()", Identifier: "testLogin()", Duration: 1.0, Status: model.StatusPassed, Tags: []string{"smoke", "auth"}},
				{Name: "testLogout()", Identifier: "testLogout()", Duration: 2.0, Status: model.StatusPassed, Tags: []string{}},
				{Name: "testExpired()", Identifier: "testExpired()", Duration: 1.5, Status: model.StatusFailed, Tags: []string{}, FailureMessage: stringPtr("Assertion failed: x != y")},
			}),
			model.NewTestSuite("Checkout, <UI> Tests", model.TypeUI, []model.TestCase{
				{Name: "testPay()", Identifier: "testPay()", Duration: 0.5, Status: model.StatusSkipped, Tags: []string{}},
			}),
		},
		Attachments: model.Attachments{
			{
				Name:                  "Login screen",
				Filename:              stringPtr("login.png"),
				UniformTypeIdentifier: stringPtr("public.png"),
				Timestamp:             &timestamp,
				Data:                  []byte("png-data"),
				TestIdentifier:        "testLogin()",
				ActivityTitle:         stringPtr("Tap login"),
			},
			{
				Name:           "Unknown",
				Data:           []byte("log"),
				TestIdentifier: "testExpired()",
			},
		},
		Tags: []model.Tag{
			{Name: "smoke", TestIdentifiers: []string{"testLogin()"}},
			{Name: "auth", TestIdentifiers: []string{"testLogin()"}},
		},
		Metadata: model.Metadata{
			SourcePath:     "/tmp/Test.xcresult",
			ParseTimestamp: timestamp,
			ToolVersion:    stringPtr("Xcode 15.2 (15C500b)"),
		},
	}
}
