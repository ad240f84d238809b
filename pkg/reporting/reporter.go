package reporting

import (
	"path/filepath"

	"github.com/ducminhle1904/crypto-pairs-lab/internal/backtest"
	"github.com/ducminhle1904/crypto-pairs-lab/internal/screen"
)

// DefaultReporter implements the complete Reporter interface
type DefaultReporter struct {
	console *DefaultConsoleReporter
	csv     *DefaultCSVReporter
	excel   *DefaultExcelReporter
	grid    *GridReporter
	json    *DefaultJSONFormatter
	paths   *DefaultPathManager
}

// NewDefaultReporter creates a new default reporter with all functionality
func NewDefaultReporter() *DefaultReporter {
	return &DefaultReporter{
		console: NewDefaultConsoleReporter(),
		csv:     NewDefaultCSVReporter(),
		excel:   NewDefaultExcelReporter(),
		grid:    NewGridReporter(),
		json:    NewDefaultJSONFormatter(),
		paths:   NewDefaultPathManager(),
	}
}

// Console output methods
func (r *DefaultReporter) PrintBacktestSummary(result *backtest.Result, interval string) {
	r.console.PrintBacktestSummary(result, interval)
}

func (r *DefaultReporter) PrintTrades(result *backtest.Result, limit int) {
	r.console.PrintTrades(result, limit)
}

func (r *DefaultReporter) PrintGridLeaderboard(grid *backtest.GridResult, topN int) {
	r.console.PrintGridLeaderboard(grid, topN)
}

func (r *DefaultReporter) PrintFailedCells(grid *backtest.GridResult) {
	r.console.PrintFailedCells(grid)
}

func (r *DefaultReporter) PrintScreenTable(scores []screen.PairScore, topN int) {
	r.console.PrintScreenTable(scores, topN)
}

// File output methods
func (r *DefaultReporter) WriteTradesCSV(result *backtest.Result, path string) error {
	return r.csv.WriteTradesCSV(result, path)
}

func (r *DefaultReporter) WriteEquityCSV(result *backtest.Result, path string) error {
	return r.csv.WriteEquityCSV(result, path)
}

func (r *DefaultReporter) WriteResultJSON(result *backtest.Result, path string) error {
	return r.json.WriteResultJSON(result, path)
}

func (r *DefaultReporter) WriteBacktestXLSX(result *backtest.Result, path string) error {
	return r.excel.WriteBacktestXLSX(result, path)
}

func (r *DefaultReporter) WriteGridCSV(grid *backtest.GridResult, path string) error {
	return r.csv.WriteGridCSV(grid, path)
}

func (r *DefaultReporter) WriteGridJSON(grid *backtest.GridResult, path string) error {
	return r.json.WriteGridJSON(grid, path)
}

func (r *DefaultReporter) WriteGridReportXLSX(grid *backtest.GridResult, path string) error {
	return r.grid.WriteGridReportXLSX(grid, path)
}

func (r *DefaultReporter) WriteScreenCSV(scores []screen.PairScore, path string) error {
	return r.csv.WriteScreenCSV(scores, path)
}

func (r *DefaultReporter) WriteScreenXLSX(scores []screen.PairScore, path string) error {
	return r.excel.WriteScreenXLSX(scores, path)
}

// Path management methods
func (r *DefaultReporter) GetDefaultOutputDir(pairLabel, interval string) string {
	return r.paths.GetDefaultOutputDir(pairLabel, interval)
}

func (r *DefaultReporter) EnsureDirectoryExists(path string) error {
	return r.paths.EnsureDirectoryExists(path)
}

// ReportingManager provides a high-level interface for all reporting needs
type ReportingManager struct {
	reporter *DefaultReporter
	config   ReportingConfig
}

// NewReportingManager creates a new reporting manager with configuration
func NewReportingManager(config ReportingConfig) *ReportingManager {
	return &ReportingManager{
		reporter: NewDefaultReporter(),
		config:   config,
	}
}

func (m *ReportingManager) outputDir(pairLabel, interval string) string {
	if m.config.OutputDirectory != "" {
		return m.config.OutputDirectory
	}
	return m.reporter.GetDefaultOutputDir(pairLabel, interval)
}

// ReportBacktest outputs a single run according to configuration
func (m *ReportingManager) ReportBacktest(result *backtest.Result, interval string) error {
	if m.config.EnableConsole {
		m.reporter.PrintBacktestSummary(result, interval)
	}

	if !m.config.EnableFiles {
		return nil
	}
	outputDir := m.outputDir(result.Pair, interval)

	if m.config.CSVEnabled {
		if err := m.reporter.WriteTradesCSV(result, filepath.Join(outputDir, "trades.csv")); err != nil {
			return err
		}
		if err := m.reporter.WriteEquityCSV(result, filepath.Join(outputDir, "equity.csv")); err != nil {
			return err
		}
	}
	if m.config.JSONEnabled {
		if err := m.reporter.WriteResultJSON(result, filepath.Join(outputDir, "summary.json")); err != nil {
			return err
		}
	}
	if m.config.ExcelEnabled {
		if err := m.reporter.WriteBacktestXLSX(result, filepath.Join(outputDir, "backtest.xlsx")); err != nil {
			return err
		}
	}

	return nil
}

// ReportGrid outputs a sweep according to configuration
func (m *ReportingManager) ReportGrid(grid *backtest.GridResult, interval string, topN int) error {
	if m.config.EnableConsole {
		m.reporter.PrintGridLeaderboard(grid, topN)
		m.reporter.PrintFailedCells(grid)
	}

	if !m.config.EnableFiles {
		return nil
	}
	outputDir := m.outputDir(grid.Pair, interval)

	if m.config.CSVEnabled {
		if err := m.reporter.WriteGridCSV(grid, filepath.Join(outputDir, "grid.csv")); err != nil {
			return err
		}
	}
	if m.config.JSONEnabled {
		if err := m.reporter.WriteGridJSON(grid, filepath.Join(outputDir, "grid.json")); err != nil {
			return err
		}
	}
	if m.config.ExcelEnabled {
		if err := m.reporter.WriteGridReportXLSX(grid, filepath.Join(outputDir, "grid.xlsx")); err != nil {
			return err
		}
	}

	return nil
}
