package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "finlab", cfg.App.Name)
	assert.Equal(t, "PKR", cfg.Loan.Currency)
	assert.Equal(t, 5, cfg.Loan.TenureYears)
	assert.Equal(t, 750, cfg.Eligibility.PrimeScore)
	assert.Equal(t, 0.2, cfg.Features.TestFraction)
	assert.Equal(t, uint64(42), cfg.Features.Seed)
	assert.True(t, cfg.Features.Preprocess)
	assert.Equal(t, 2000, cfg.ResolveMaxPoints(0))
	assert.Equal(t, 10, cfg.ResolveMaxPoints(10))
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	content := []byte("loan:\n  currency: USD\n  tenure_years: 20\nlogging:\n  level: debug\n  format: json\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	t.Setenv("FINLAB_FEATURES_SEED", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "USD", cfg.Loan.Currency)
	assert.Equal(t, 20, cfg.Loan.TenureYears)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, uint64(7), cfg.Features.Seed)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("features:\n  test_fraction: 1.5\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadParsesAmountNotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "amounts.yaml")
	content := []byte("eligibility:\n  min_income: 50k\n  prime_rate_pct: \"4.5%\"\n  near_prime_rate_pct: 7\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	t.Setenv("FINLAB_LOAN_ANNUAL_RATE_PCT", "9.25%")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, cfg.Eligibility.MinIncome)
	assert.Equal(t, 4.5, cfg.Eligibility.PrimeRatePct)
	assert.Equal(t, 7.0, cfg.Eligibility.NearPrimeRatePct)
	assert.Equal(t, 9.25, cfg.Loan.AnnualRatePct)
}

func TestLoadRejectsMalformedAmount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad-amount.yaml")
	require.NoError(t, os.WriteFile(path, []byte("eligibility:\n  min_income: lots\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadSimulationDefaultsAndBounds(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cfg.Simulation.Seed)
	assert.Equal(t, 5, cfg.Simulation.Stocks)
	assert.Equal(t, 30, cfg.Simulation.Days)
	assert.Equal(t, 50000.0, cfg.Eligibility.MinIncome)

	dir := t.TempDir()
	path := filepath.Join(dir, "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  stocks: 0\n"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)

	path = filepath.Join(dir, "tenure.yaml")
	require.NoError(t, os.WriteFile(path, []byte("loan:\n  tenure_years: 101\n"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}
