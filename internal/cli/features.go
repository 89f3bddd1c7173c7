package cli

import (
	"github.com/spf13/cobra"

	"finlab/internal/app"
)

var (
	featInput     string
	featOutput    string
	featTrain     string
	featTest      string
	featPNG       string
	featMaxPoints int
	featTail      int
	featRaw       bool
	featTestFrac  float64
	featSeed      uint64
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Engineer technical-indicator features from a price CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.FeaturesOptions{
			InputPath:    featInput,
			OutputPath:   featOutput,
			TrainPath:    featTrain,
			TestPath:     featTest,
			PNGPath:      featPNG,
			MaxPoints:    featMaxPoints,
			Tail:         featTail,
			SkipClean:    featRaw,
			TestFraction: featTestFrac,
		}
		if cmd.Flags().Changed("seed") {
			seed := featSeed
			opts.Seed = &seed
		}

		_, err := getApp().Features(cmd.Context(), opts)
		return err
	},
}

func init() {
	featuresCmd.Flags().StringVar(&featInput, "input", "", "Price CSV to read")
	featuresCmd.Flags().StringVar(&featOutput, "out", "", "Path to write the feature matrix and target as CSV")
	featuresCmd.Flags().StringVar(&featTrain, "train", "", "Path to write the training split")
	featuresCmd.Flags().StringVar(&featTest, "test", "", "Path to write the test split")
	featuresCmd.Flags().StringVar(&featPNG, "png", "", "Path to write a price and Bollinger band chart")
	featuresCmd.Flags().IntVar(&featMaxPoints, "max-points", 0, "Maximum chart points (defaults to config)")
	featuresCmd.Flags().IntVar(&featTail, "tail", 5, "Number of trailing rows to print")
	featuresCmd.Flags().BoolVar(&featRaw, "raw", false, "Skip gap filling and outlier capping")
	featuresCmd.Flags().Float64Var(&featTestFrac, "test-fraction", 0, "Share of rows held out for testing (defaults to config)")
	featuresCmd.Flags().Uint64Var(&featSeed, "seed", 0, "Shuffle seed for the split (defaults to config)")
	_ = featuresCmd.MarkFlagRequired("input")
}
