package export

import (
	"encoding/json"
	"testing"

	"github.com/bitrise-steplib/steps-xcresult-report/model"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestJSONExporter_Report(t *testing.T) {
	result := sampleResult()

	data, err := NewJSONExporter().Report(result)
	require.NoError(t, err)
	require.Contains(t, string(data), `"parseTimestamp": "2024-03-01T12:00:00Z"`)
	require.Contains(t, string(data), `"lineCoverage": 0.8333333333333334`)

	var decoded model.ParsedResult
	require.NoError(t, json.Unmarshal(data, &decoded))
	if diff := cmp.Diff(result, decoded, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONExporter_Coverage(t *testing.T) {
	t.Run("with coverage", func(t *testing.T) {
		data, err := NewJSONExporter().Coverage(sampleResult())
		require.NoError(t, err)

		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Contains(t, decoded, "overall")
		require.NotContains(t, decoded, "unit")
		require.NotContains(t, decoded, "ui")
		require.Equal(t, []interface{}{}, decoded["files"])
		require.Equal(t, []interface{}{}, decoded["targets"])
	})

	t.Run("without coverage", func(t *testing.T) {
		data, err := NewJSONExporter().Coverage(model.ParsedResult{})
		require.NoError(t, err)
		require.JSONEq(t, `{"files": [], "targets": []}`, string(data))
	})
}

func TestJSONExporter_TestResults(t *testing.T) {
	data, err := NewJSONExporter().TestResults(sampleResult())
	require.NoError(t, err)

	var decoded TestResultsReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, TestSummary{
		Total:         4,
		Passed:        2,
		Failed:        1,
		Skipped:       1,
		SuccessRate:   50,
		TotalDuration: 5,
	}, decoded.Summary)
	require.Len(t, decoded.TestSuites, 2)
	require.Equal(t, "/tmp/Test.xcresult", decoded.Metadata.SourcePath)
}

func TestJSONExporter_Tags(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		want   string
	}{
		{
			name: "every tag",
			want: `[{"name": "smoke", "testIdentifiers": ["testLogin()"]}, {"name": "auth", "testIdentifiers": ["testLogin()"]}]`,
		},
		{
			name:   "filtered case-insensitively",
			filter: "SMO",
			want:   `[{"name": "smoke", "testIdentifiers": ["testLogin()"]}]`,
		},
		{
			name:   "no match",
			filter: "regression",
			want:   `[]`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := NewJSONExporter().Tags(sampleResult(), tt.filter)
			require.NoError(t, err)
			require.JSONEq(t, tt.want, string(data))
		})
	}
}
