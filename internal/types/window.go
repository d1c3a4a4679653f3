package types

import "time"

// Window is one walk-forward training/testing pair. TestingStart is the day after TrainingEnd.
type Window struct {
	Index         int       `yaml:"index" json:"index"`
	TrainingStart time.Time `yaml:"training_start" json:"trainingStart"`
	TrainingEnd   time.Time `yaml:"training_end" json:"trainingEnd"`
	TestingStart  time.Time `yaml:"testing_start" json:"testingStart"`
	TestingEnd    time.Time `yaml:"testing_end" json:"testingEnd"`
}

// Training returns the training sub-range.
func (w Window) Training() DateRange {
	return DateRange{Start: w.TrainingStart, End: w.TrainingEnd}
}

// Testing returns the testing sub-range.
func (w Window) Testing() DateRange {
	return DateRange{Start: w.TestingStart, End: w.TestingEnd}
}

// PlanIssue explains why a planned window cannot be evaluated.
type PlanIssue struct {
	WindowIndex  int    `yaml:"window_index" json:"windowIndex"`
	Reason       string `yaml:"reason" json:"reason"`
	TrainingBars int    `yaml:"training_bars" json:"trainingBars"`
	TestingBars  int    `yaml:"testing_bars" json:"testingBars"`
}
