package service

import (
	"context"
	"time"
)

// DefaultProgressInterval is the delay between loading stages.
const DefaultProgressInterval = 800 * time.Millisecond

// Stage is one step of the cosmetic loading sequence.
type Stage struct {
	Percent int    `json:"percent"`
	Text    string `json:"text"`
}

// Stages is the loading sequence shown while a generation runs. It is purely
// cosmetic and says nothing about how far the model call has come.
var Stages = []Stage{
	{Percent: 20, Text: "Analyzing constraints..."},
	{Percent: 40, Text: "Querying AI advisor..."},
	{Percent: 60, Text: "Generating project ideas..."},
	{Percent: 80, Text: "Evaluating feasibility..."},
	{Percent: 100, Text: "Finalizing recommendations..."},
}

// runProgress emits Stages[1:] one per interval until the sequence is exhausted
// or ctx is done. Stages[0] is set by the caller when the generation starts.
func runProgress(ctx context.Context, interval time.Duration, emit func(Stage)) {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for _, stage := range Stages[1:] {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			emit(stage)
		}
	}
}
