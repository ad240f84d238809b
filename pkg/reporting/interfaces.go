package reporting

import (
	"github.com/ducminhle1904/crypto-pairs-lab/internal/backtest"
	"github.com/ducminhle1904/crypto-pairs-lab/internal/screen"
)

// Package reporting renders backtest, sweep, and screening results to the
// console and to CSV, JSON, and Excel files.

// ConsoleReporter defines interface for console output
type ConsoleReporter interface {
	PrintBacktestSummary(result *backtest.Result, interval string)
	PrintTrades(result *backtest.Result, limit int)
	PrintGridLeaderboard(grid *backtest.GridResult, topN int)
	PrintFailedCells(grid *backtest.GridResult)
	PrintScreenTable(scores []screen.PairScore, topN int)
}

// FileReporter defines interface for file output
type FileReporter interface {
	WriteTradesCSV(result *backtest.Result, path string) error
	WriteEquityCSV(result *backtest.Result, path string) error
	WriteResultJSON(result *backtest.Result, path string) error
	WriteBacktestXLSX(result *backtest.Result, path string) error
	WriteGridCSV(grid *backtest.GridResult, path string) error
	WriteGridJSON(grid *backtest.GridResult, path string) error
	WriteScreenCSV(scores []screen.PairScore, path string) error
	WriteScreenXLSX(scores []screen.PairScore, path string) error
}

// PathManager defines interface for output path management
type PathManager interface {
	GetDefaultOutputDir(pairLabel, interval string) string
	EnsureDirectoryExists(path string) error
}

// Reporter combines all reporting interfaces
type Reporter interface {
	ConsoleReporter
	FileReporter
	PathManager
}

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle     int
	CurrencyStyle   int
	PercentStyle    int
	BaseStyle       int
	NumberStyle     int
	RedStyle        int
	GreenStyle      int
	LongTradeStyle  int
	ShortTradeStyle int
	SummaryStyle    int
}

// ReportingConfig holds configuration for reporting
type ReportingConfig struct {
	EnableConsole   bool
	EnableFiles     bool
	OutputDirectory string
	ExcelEnabled    bool
	CSVEnabled      bool
	JSONEnabled     bool
}
