package app

import (
	"errors"
	"fmt"
	"io"

	"finlab/internal/features"
	"finlab/internal/ingest"
)

// ErrStageOrder is returned when a pipeline stage runs before its prerequisite.
var ErrStageOrder = errors.New("pipeline stage out of order")

// Step identifies how far a PipelineState has progressed.
type Step int

const (
	StepEmpty Step = iota
	StepLoaded
	StepCleaned
	StepEngineered
	StepSplit
)

func (s Step) String() string {
	switch s {
	case StepEmpty:
		return "empty"
	case StepLoaded:
		return "loaded"
	case StepCleaned:
		return "cleaned"
	case StepEngineered:
		return "engineered"
	case StepSplit:
		return "split"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// PipelineState carries the intermediate tables of a feature run from one
// stage to the next. Callers own it and pass it explicitly.
type PipelineState struct {
	Step     Step
	Source   string
	Raw      features.Series
	Clean    features.Series
	Features features.FeatureSet
	Train    features.FeatureSet
	Test     features.FeatureSet
}

func (s *PipelineState) require(want Step, stage string) error {
	if s.Step < want {
		return fmt.Errorf("%w: %s needs %s state, have %s", ErrStageOrder, stage, want, s.Step)
	}
	return nil
}

// Load reads the raw series and resets every later stage.
func (s *PipelineState) Load(r io.Reader, source string) error {
	series, err := ingest.ReadCSV(r)
	if err != nil {
		return fmt.Errorf("load %s: %w", source, err)
	}
	*s = PipelineState{Step: StepLoaded, Source: source, Raw: series}
	return nil
}

// Preprocess cleans the raw series.
func (s *PipelineState) Preprocess() error {
	if err := s.require(StepLoaded, "preprocess"); err != nil {
		return err
	}
	s.Clean = features.Preprocess(s.Raw)
	s.Step = StepCleaned
	return nil
}

// SkipPreprocess forwards the raw series unchanged.
func (s *PipelineState) SkipPreprocess() error {
	if err := s.require(StepLoaded, "preprocess"); err != nil {
		return err
	}
	s.Clean = s.Raw
	s.Step = StepCleaned
	return nil
}

// Engineer derives the feature matrix from the cleaned series.
func (s *PipelineState) Engineer() error {
	if err := s.require(StepCleaned, "engineer"); err != nil {
		return err
	}
	fs, err := features.Engineer(s.Clean)
	if err != nil {
		return err
	}
	s.Features = fs
	s.Train, s.Test = features.FeatureSet{}, features.FeatureSet{}
	s.Step = StepEngineered
	return nil
}

// Split partitions the feature matrix into train and test sets.
func (s *PipelineState) Split(testFraction float64, seed uint64) error {
	if err := s.require(StepEngineered, "split"); err != nil {
		return err
	}
	train, test, err := features.Split(s.Features, testFraction, seed)
	if err != nil {
		return err
	}
	s.Train, s.Test = train, test
	s.Step = StepSplit
	return nil
}
