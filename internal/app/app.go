package app

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"finlab/internal/config"
	"finlab/internal/planner"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Out    io.Writer
}

// NewApp constructs a new application handle printing to stdout.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{
		Config: cfg,
		Logger: logger.With().Str("component", "app").Logger(),
		Out:    os.Stdout,
	}
}

func (a *App) policy() planner.Policy {
	e := a.Config.Eligibility
	return planner.Policy{
		MinIncome:      decimal.NewFromFloat(e.MinIncome),
		PrimeScore:     e.PrimeScore,
		NearPrimeScore: e.NearPrimeScore,
		PrimeRatePct:   e.PrimeRatePct,
		NearPrimeRate:  e.NearPrimeRatePct,
	}
}

// AmortizeOptions configure the emi command.
type AmortizeOptions struct {
	Principal    float64
	RatePct      float64
	TenureYears  int
	ShowSchedule bool
	CSVPath      string
	PNGPath      string
}

// FeaturesOptions configure a feature pipeline run.
type FeaturesOptions struct {
	InputPath    string
	OutputPath   string
	TrainPath    string
	TestPath     string
	PNGPath      string
	MaxPoints    int
	Tail         int
	SkipClean    bool
	TestFraction float64
	Seed         *uint64
}

// EligibilityOptions describe a loan applicant.
type EligibilityOptions struct {
	Employment  string
	Income      float64
	CreditScore int
}

// SavingsOptions describe a savings goal.
type SavingsOptions struct {
	Current float64
	Monthly float64
	Goal    float64
}

// ExchangeOptions configure the exchange rate simulation.
type ExchangeOptions struct {
	Start float64
	End   float64
	Seed  *uint64
}

// MarketOptions configure the stock market simulation.
type MarketOptions struct {
	Stocks  int
	Days    int
	Seed    *uint64
	End     time.Time
	CSVPath string
	PNGPath string
}
