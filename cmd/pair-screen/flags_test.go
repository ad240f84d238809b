package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreenSplitSymbols(t *testing.T) {
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, SplitSymbols(" btcusdt , ethusdt "))
	assert.Empty(t, SplitSymbols(""))
}

func TestValidateScreenFlags(t *testing.T) {
	require.NoError(t, ValidateScreenFlags(testScreenFlags()))

	flags := testScreenFlags()
	*flags.Symbols = "BTCUSDT,ETHUSDT,SOLUSDT"
	*flags.MinCorrelation = 0.85
	*flags.MaxHalfLife = 96
	*flags.TopN = 20
	*flags.Period = "90d"
	require.NoError(t, ValidateScreenFlags(flags))
}

func TestValidateScreenFlags_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ScreenFlags)
		wantErr string
	}{
		{"max-missing too high", func(f *ScreenFlags) { *f.MaxMissing = 0.8 }, "max-missing"},
		{"correlation out of range", func(f *ScreenFlags) { *f.MinCorrelation = 1.2 }, "min-corr"},
		{"negative half-life", func(f *ScreenFlags) { *f.MaxHalfLife = -10 }, "max-half-life"},
		{"negative top", func(f *ScreenFlags) { *f.TopN = -1 }, "top"},
		{"bad period", func(f *ScreenFlags) { *f.Period = "ages" }, "invalid period"},
		{"one symbol only", func(f *ScreenFlags) { *f.Symbols = "BTCUSDT" }, "at least 2 symbols"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := testScreenFlags()
			tt.mutate(flags)
			err := ValidateScreenFlags(flags)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// testScreenFlags mirrors the registered flag defaults without touching the
// global flag registry.
func testScreenFlags() *ScreenFlags {
	configFile := ""
	matrixFile := ""
	symbols := ""
	period := ""
	maxMissing := DefaultMaxMissing
	minCorrelation := 0.0
	maxHalfLife := 0.0
	topN := 0

	return &ScreenFlags{
		ConfigFile:     &configFile,
		MatrixFile:     &matrixFile,
		Symbols:        &symbols,
		Period:         &period,
		MaxMissing:     &maxMissing,
		MinCorrelation: &minCorrelation,
		MaxHalfLife:    &maxHalfLife,
		TopN:           &topN,
	}
}
