package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"finlab/internal/features"
)

var tailColumns = []string{
	features.ColMA20,
	features.ColMACD,
	features.ColRSI,
	features.ColVolatility,
	features.ColBBWidth,
}

// Features runs the feature pipeline over a CSV price table and writes the
// requested outputs.
func (a *App) Features(ctx context.Context, opts FeaturesOptions) (*PipelineState, error) {
	if opts.InputPath == "" {
		return nil, errors.New("--input must be provided")
	}

	logger := a.Logger.With().Str("input", opts.InputPath).Logger()
	state := &PipelineState{}

	file, err := os.Open(opts.InputPath)
	if err != nil {
		return nil, err
	}
	err = state.Load(file, opts.InputPath)
	file.Close()
	if err != nil {
		return nil, err
	}
	if state.Raw.SyntheticDates {
		logger.Warn().Msg("no usable date column; using consecutive synthetic dates")
	}
	logger.Debug().Int("rows", len(state.Raw.Bars)).Bool("volume", state.Raw.HasVolume).Msg("series loaded")

	if err := ctx.Err(); err != nil {
		return state, err
	}
	if opts.SkipClean || !a.Config.Features.Preprocess {
		err = state.SkipPreprocess()
	} else {
		err = state.Preprocess()
	}
	if err != nil {
		return state, err
	}

	if err := ctx.Err(); err != nil {
		return state, err
	}
	if err := state.Engineer(); err != nil {
		return state, err
	}
	fs := state.Features
	for _, note := range fs.Diagnostics.Notes {
		logger.Warn().Err(note).Msg("recovered numeric degeneracy")
	}
	logger.Info().Int("rows", fs.Len()).Int("columns", len(fs.Columns)).Int("filled", fs.Diagnostics.Filled).Msg("features engineered")

	if opts.TrainPath != "" || opts.TestPath != "" {
		fraction := opts.TestFraction
		if fraction == 0 {
			fraction = a.Config.Features.TestFraction
		}
		seed := a.Config.Features.Seed
		if opts.Seed != nil {
			seed = *opts.Seed
		}
		if err := state.Split(fraction, seed); err != nil {
			return state, err
		}
		logger.Info().Int("train", state.Train.Len()).Int("test", state.Test.Len()).Uint64("seed", seed).Msg("split complete")
	}

	if err := a.writeFeatureOutputs(state, opts); err != nil {
		return state, err
	}

	a.printFeatureSummary(state, opts.Tail)
	return state, nil
}

func (a *App) writeFeatureOutputs(state *PipelineState, opts FeaturesOptions) error {
	outputs := []struct {
		path string
		set  features.FeatureSet
	}{
		{opts.OutputPath, state.Features},
		{opts.TrainPath, state.Train},
		{opts.TestPath, state.Test},
	}
	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		if err := writeFeaturesCSV(out.path, out.set); err != nil {
			return fmt.Errorf("write %s: %w", out.path, err)
		}
		a.Logger.Info().Str("path", out.path).Int("rows", out.set.Len()).Msg("feature csv written")
	}

	if opts.PNGPath != "" {
		maxPoints := a.Config.ResolveMaxPoints(opts.MaxPoints)
		if err := writeFeaturesPNG(opts.PNGPath, state.Features, a.Config.Export, maxPoints); err != nil {
			return fmt.Errorf("write feature chart: %w", err)
		}
		a.Logger.Info().Str("path", opts.PNGPath).Msg("feature chart written")
	}
	return nil
}

func (a *App) printFeatureSummary(state *PipelineState, tail int) {
	fs := state.Features
	fmt.Fprintf(a.Out, "Rows: %d  Features: %d  Stage: %s\n", fs.Len(), len(fs.Columns), state.Step)
	if len(fs.Diagnostics.EmptyColumns) > 0 {
		fmt.Fprintf(a.Out, "Columns without history (zero-filled): %v\n", fs.Diagnostics.EmptyColumns)
	}
	if tail <= 0 || fs.Len() == 0 {
		return
	}

	start := fs.Len() - tail
	if start < 0 {
		start = 0
	}

	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprint(writer, "Date\tPrice")
	for _, name := range tailColumns {
		fmt.Fprintf(writer, "\t%s", name)
	}
	fmt.Fprintln(writer)

	for i := start; i < fs.Len(); i++ {
		fmt.Fprintf(writer, "%s\t%.2f", fs.Dates[i].Format(time.DateOnly), fs.Y[i])
		for _, name := range tailColumns {
			v, _ := fs.Value(i, name)
			fmt.Fprintf(writer, "\t%.4f", v)
		}
		fmt.Fprintln(writer)
	}
	writer.Flush()
}
