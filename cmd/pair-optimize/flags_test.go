package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateOptimizeFlags_Defaults(t *testing.T) {
	assert.NoError(t, ValidateOptimizeFlags(testOptimizeFlags()))
}

func TestValidateOptimizeFlags_FullSweepSetup(t *testing.T) {
	flags := testOptimizeFlags()
	*flags.SymbolA = "BTCUSDT"
	*flags.SymbolB = "ETHUSDT"
	*flags.Mode = "kalman"
	*flags.WindowMin = 20
	*flags.WindowMax = 100
	*flags.WindowStep = 20
	*flags.EntryMin = 1.0
	*flags.EntryMax = 3.0
	*flags.EntryStep = 0.5
	*flags.Workers = 8
	*flags.WFEnable = true
	*flags.WFRolling = true
	*flags.MonitorPort = 9091

	assert.NoError(t, ValidateOptimizeFlags(flags))
}

func TestValidateOptimizeFlags_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*OptimizeFlags)
		wantErr string
	}{
		{"unknown mode", func(f *OptimizeFlags) { *f.Mode = "ols" }, "mode"},
		{"negative window-min", func(f *OptimizeFlags) { *f.WindowMin = -1 }, "window-min"},
		{"negative workers", func(f *OptimizeFlags) { *f.Workers = -2 }, "workers"},
		{"negative entry-step", func(f *OptimizeFlags) { *f.EntryStep = -0.5 }, "entry-step"},
		{"window range inverted", func(f *OptimizeFlags) { *f.WindowMin = 50; *f.WindowMax = 20 }, "window-max"},
		{"entry range inverted", func(f *OptimizeFlags) { *f.EntryMin = 2.0; *f.EntryMax = 1.0 }, "entry-max"},
		{"bad split ratio", func(f *OptimizeFlags) { *f.WFEnable = true; *f.WFSplitRatio = 1.5 }, "wf-split-ratio"},
		{"rolling days not positive", func(f *OptimizeFlags) { *f.WFEnable = true; *f.WFRolling = true; *f.WFTestDays = 0 }, "must be positive"},
		{"train not above test", func(f *OptimizeFlags) { *f.WFEnable = true; *f.WFRolling = true; *f.WFTrainDays = 30; *f.WFTestDays = 60 }, "greater than test days"},
		{"bad monitor port", func(f *OptimizeFlags) { *f.MonitorPort = 70000 }, "monitor-port"},
		{"short symbol", func(f *OptimizeFlags) { *f.SymbolB = "ET" }, "at least 3 characters"},
		{"bad period", func(f *OptimizeFlags) { *f.Period = "awhile" }, "invalid period"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := testOptimizeFlags()
			tt.mutate(flags)
			err := ValidateOptimizeFlags(flags)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateOptimizeFlags_SplitRatioIgnoredWhenDisabled(t *testing.T) {
	flags := testOptimizeFlags()
	*flags.WFSplitRatio = 1.5 // invalid, but walk-forward is off

	assert.NoError(t, ValidateOptimizeFlags(flags))
}

// testOptimizeFlags mirrors the registered flag defaults without touching
// the global flag registry.
func testOptimizeFlags() *OptimizeFlags {
	configFile := ""
	symbolA := ""
	symbolB := ""
	period := ""
	mode := ""
	windowMin := 0
	windowMax := 0
	windowStep := 0
	entryMin := 0.0
	entryMax := 0.0
	entryStep := 0.0
	workers := 0
	wfEnable := false
	wfSplitRatio := 0.7
	wfRolling := false
	wfTrainDays := 180
	wfTestDays := 60
	wfRollDays := 30
	monitorPort := 0
	topN := 10

	return &OptimizeFlags{
		ConfigFile:   &configFile,
		SymbolA:      &symbolA,
		SymbolB:      &symbolB,
		Period:       &period,
		Mode:         &mode,
		WindowMin:    &windowMin,
		WindowMax:    &windowMax,
		WindowStep:   &windowStep,
		EntryMin:     &entryMin,
		EntryMax:     &entryMax,
		EntryStep:    &entryStep,
		Workers:      &workers,
		WFEnable:     &wfEnable,
		WFSplitRatio: &wfSplitRatio,
		WFRolling:    &wfRolling,
		WFTrainDays:  &wfTrainDays,
		WFTestDays:   &wfTestDays,
		WFRollDays:   &wfRollDays,
		MonitorPort:  &monitorPort,
		TopN:         &topN,
	}
}
