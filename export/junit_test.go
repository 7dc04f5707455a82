package export

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJUnitExporter_Export(t *testing.T) {
	data, err := NewJUnitExporter().Export(sampleResult())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), xmlHeader))

	var report JUnitReport
	require.NoError(t, xml.Unmarshal(data, &report))
	require.Len(t, report.TestSuites, 2)

	login := report.TestSuites[0]
	require.Equal(t, "LoginTests", login.Name)
	require.Equal(t, 3, login.Tests)
	require.Equal(t, 1, login.Failures)
	require.Equal(t, 0, login.Skipped)
	require.Equal(t, 4.5, login.Time)

	require.Equal(t, "LoginTests", login.TestCases[0].ClassName)
	require.NotNil(t, login.TestCases[0].Properties)
	require.Equal(t, "smoke,auth", login.TestCases[0].Properties.Property[0].Value)
	require.Nil(t, login.TestCases[1].Properties)
	require.NotNil(t, login.TestCases[2].Failure)
	require.Equal(t, "Assertion failed: x != y", login.TestCases[2].Failure.Value)

	checkout := report.TestSuites[1]
	require.Equal(t, 1, checkout.Skipped)
	require.NotNil(t, checkout.TestCases[0].Skipped)
}
