package reporting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportingManager_ReportBacktest_WritesConfiguredFiles(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "out")
	manager := NewReportingManager(ReportingConfig{
		EnableFiles:     true,
		OutputDirectory: outputDir,
		CSVEnabled:      true,
		JSONEnabled:     true,
		ExcelEnabled:    true,
	})

	require.NoError(t, manager.ReportBacktest(makeReportResult(), "60"))

	for _, name := range []string{"trades.csv", "equity.csv", "summary.json", "backtest.xlsx"} {
		assert.FileExists(t, filepath.Join(outputDir, name))
	}
}

func TestReportingManager_ReportBacktest_FilesDisabled(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "out")
	manager := NewReportingManager(ReportingConfig{
		EnableFiles:     false,
		OutputDirectory: outputDir,
		CSVEnabled:      true,
		JSONEnabled:     true,
	})

	require.NoError(t, manager.ReportBacktest(makeReportResult(), "60"))

	_, err := os.Stat(outputDir)
	assert.True(t, os.IsNotExist(err))
}

func TestReportingManager_ReportBacktest_FormatToggles(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "out")
	manager := NewReportingManager(ReportingConfig{
		EnableFiles:     true,
		OutputDirectory: outputDir,
		JSONEnabled:     true,
	})

	require.NoError(t, manager.ReportBacktest(makeReportResult(), "60"))

	assert.FileExists(t, filepath.Join(outputDir, "summary.json"))
	assert.NoFileExists(t, filepath.Join(outputDir, "trades.csv"))
	assert.NoFileExists(t, filepath.Join(outputDir, "backtest.xlsx"))
}

func TestReportingManager_ReportGrid_WritesConfiguredFiles(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "out")
	manager := NewReportingManager(ReportingConfig{
		EnableFiles:     true,
		OutputDirectory: outputDir,
		CSVEnabled:      true,
		JSONEnabled:     true,
		ExcelEnabled:    true,
	})

	require.NoError(t, manager.ReportGrid(makeReportGrid(), "60", 10))

	for _, name := range []string{"grid.csv", "grid.json", "grid.xlsx"} {
		assert.FileExists(t, filepath.Join(outputDir, name))
	}
}

func TestDefaultReporter_PathDelegation(t *testing.T) {
	reporter := NewDefaultReporter()

	assert.Equal(t, filepath.Join("results", "ETHUSDT_BTCUSDT_60"), reporter.GetDefaultOutputDir("ETHUSDT/BTCUSDT", "60"))
}
