package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	appHandle = nil
	t.Cleanup(func() { appHandle = nil })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEMICommand(t *testing.T) {
	out, err := runCommand(t, "emi", "--principal", "500000", "--rate", "8", "--years", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "10138.20")
	assert.Contains(t, out, "108291.83")
}

func TestRiskCommandAcceptsArgs(t *testing.T) {
	out, err := runCommand(t, "risk", "6", "7%", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "low")
}

func TestRiskCommandRejectsGarbage(t *testing.T) {
	_, err := runCommand(t, "risk", "six")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "six"))
}

func TestParseExpenses(t *testing.T) {
	got, err := parseExpenses(map[string]string{"rent": "25,000", "food": "12k"})
	require.NoError(t, err)
	assert.Equal(t, 25000.0, got["rent"])
	assert.Equal(t, 12000.0, got["food"])

	_, err = parseExpenses(map[string]string{"rent": "lots"})
	require.Error(t, err)

	_, err = parseExpenses(map[string]string{" ": "10"})
	require.Error(t, err)
}

func TestSavingsCommandRejectsNaNGoal(t *testing.T) {
	var err error
	require.NotPanics(t, func() {
		_, err = runCommand(t, "savings", "--monthly", "10", "--goal", "NaN")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "finite")
}

func TestExchangeCommand(t *testing.T) {
	out, err := runCommand(t, "exchange", "--start", "280", "--end", "283", "--seed", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "280.00")
}
