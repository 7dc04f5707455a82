package export

import (
	"testing"

	"github.com/bitrise-steplib/steps-xcresult-report/model"
	"github.com/stretchr/testify/require"
)

func TestCSVExporter_TestResults(t *testing.T) {
	data, err := NewCSVExporter().TestResults(sampleResult())
	require.NoError(t, err)

	want := "Test Suite,Test Name,Status,Duration,Tags\n" +
		"LoginTests,testLogin(),passed,1,smoke;auth\n" +
		"LoginTests,testLogout(),passed,2,\n" +
		"LoginTests,testExpired(),failed,1.5,\n" +
		"\"Checkout, <UI> Tests\",testPay(),skipped,0.5,\n"
	require.Equal(t, want, string(data))
}

func TestCSVExporter_TestResults_NoTests(t *testing.T) {
	data, err := NewCSVExporter().TestResults(model.ParsedResult{})
	require.NoError(t, err)
	require.Equal(t, "Test Suite,Test Name,Status,Duration,Tags\n", string(data))
}

func TestCSVExporter_Coverage(t *testing.T) {
	data, err := NewCSVExporter().Coverage(sampleResult())
	require.NoError(t, err)
	require.Equal(t, "File,Line Coverage,Function Coverage,Executable Lines,Covered Lines\n", string(data))
}

func TestWriteCSV_Quoting(t *testing.T) {
	data, err := writeCSV([][]string{{`say "hi"`, "multi\nline", "plain"}})
	require.NoError(t, err)
	require.Equal(t, "\"say \"\"hi\"\"\",\"multi\nline\",plain\n", string(data))
}
