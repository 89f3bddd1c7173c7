package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"finlab/internal/amortization"
	"finlab/internal/ingest"
	"finlab/internal/logging"
	"finlab/internal/planner"
)

// Config materialises application configuration.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Logging     logging.Config    `mapstructure:"logging"`
	Loan        LoanConfig        `mapstructure:"loan"`
	Eligibility EligibilityConfig `mapstructure:"eligibility"`
	Features    FeaturesConfig    `mapstructure:"features"`
	Simulation  SimulationConfig  `mapstructure:"simulation"`
	Export      ExportConfig      `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// LoanConfig supplies defaults for the emi command.
type LoanConfig struct {
	Currency      string  `mapstructure:"currency"`
	AnnualRatePct float64 `mapstructure:"annual_rate_pct"`
	TenureYears   int     `mapstructure:"tenure_years"`
}

// EligibilityConfig holds loan screening thresholds.
type EligibilityConfig struct {
	MinIncome        float64 `mapstructure:"min_income"`
	PrimeScore       int     `mapstructure:"prime_score"`
	NearPrimeScore   int     `mapstructure:"near_prime_score"`
	PrimeRatePct     float64 `mapstructure:"prime_rate_pct"`
	NearPrimeRatePct float64 `mapstructure:"near_prime_rate_pct"`
}

// FeaturesConfig tunes the feature pipeline run.
type FeaturesConfig struct {
	TestFraction float64 `mapstructure:"test_fraction"`
	Seed         uint64  `mapstructure:"seed"`
	Preprocess   bool    `mapstructure:"preprocess"`
}

// SimulationConfig seeds the exchange and market simulators.
type SimulationConfig struct {
	Seed   uint64 `mapstructure:"seed"`
	Stocks int    `mapstructure:"stocks"`
	Days   int    `mapstructure:"days"`
}

// ExportConfig sets CSV and chart export behaviour.
type ExportConfig struct {
	MaxDataPoints int `mapstructure:"max_data_points"`
	ChartWidth    int `mapstructure:"chart_width"`
	ChartHeight   int `mapstructure:"chart_height"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FINLAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("finlab")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "finlab")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("loan.currency", "PKR")
	v.SetDefault("loan.annual_rate_pct", 8.0)
	v.SetDefault("loan.tenure_years", 5)

	policy := planner.DefaultPolicy()
	v.SetDefault("eligibility.min_income", policy.MinIncome.InexactFloat64())
	v.SetDefault("eligibility.prime_score", policy.PrimeScore)
	v.SetDefault("eligibility.near_prime_score", policy.NearPrimeScore)
	v.SetDefault("eligibility.prime_rate_pct", policy.PrimeRatePct)
	v.SetDefault("eligibility.near_prime_rate_pct", policy.NearPrimeRate)

	v.SetDefault("features.test_fraction", 0.2)
	v.SetDefault("features.seed", uint64(42))
	v.SetDefault("features.preprocess", true)

	v.SetDefault("simulation.seed", uint64(7))
	v.SetDefault("simulation.stocks", 5)
	v.SetDefault("simulation.days", 30)

	v.SetDefault("export.max_data_points", 2000)
	v.SetDefault("export.chart_width", 1280)
	v.SetDefault("export.chart_height", 720)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = amountHook()
	}
}

// amountHook decodes string amounts such as "50k", "1,200" or "8%" into
// float fields using the notation accepted for price tables.
func amountHook() mapstructure.DecodeHookFuncType {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.Float64 {
			return data, nil
		}
		raw := reflect.ValueOf(data).String()
		v, ok := ingest.ParseNumber(raw)
		if !ok {
			return nil, fmt.Errorf("invalid number %q", raw)
		}
		return v, nil
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Loan.AnnualRatePct < 0 {
		return fmt.Errorf("loan.annual_rate_pct cannot be negative")
	}
	if c.Loan.TenureYears < 1 || c.Loan.TenureYears > amortization.MaxTenureYears {
		return fmt.Errorf("loan.tenure_years must be between 1 and %d", amortization.MaxTenureYears)
	}
	if c.Eligibility.NearPrimeScore > c.Eligibility.PrimeScore {
		return fmt.Errorf("eligibility.near_prime_score must not exceed eligibility.prime_score")
	}
	if c.Eligibility.MinIncome < 0 {
		return fmt.Errorf("eligibility.min_income cannot be negative")
	}
	if c.Features.TestFraction <= 0 || c.Features.TestFraction >= 1 {
		return fmt.Errorf("features.test_fraction must be within (0, 1)")
	}
	if c.Simulation.Stocks < 1 || c.Simulation.Stocks > planner.MaxSimulatedStocks {
		return fmt.Errorf("simulation.stocks must be between 1 and %d", planner.MaxSimulatedStocks)
	}
	if c.Simulation.Days < 1 || c.Simulation.Days > planner.MaxSimulatedDays {
		return fmt.Errorf("simulation.days must be between 1 and %d", planner.MaxSimulatedDays)
	}
	if c.Export.MaxDataPoints < 2 {
		return fmt.Errorf("export.max_data_points must be at least 2")
	}
	if c.Export.ChartWidth <= 0 || c.Export.ChartHeight <= 0 {
		return fmt.Errorf("export.chart_width and export.chart_height must be greater than zero")
	}
	return nil
}

// ResolveMaxPoints returns either the CLI override or config default.
func (c *Config) ResolveMaxPoints(override int) int {
	if override > 0 {
		return override
	}
	return c.Export.MaxDataPoints
}
