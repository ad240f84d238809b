package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger represents a file logger for backtest and sweep sessions
type Logger struct {
	pairLabel string
	runKind   string
	logFile   *os.File
	logger    *log.Logger
	logPath   string
	mu        sync.Mutex
}

// LogLevel represents different types of log entries
type LogLevel string

const (
	LogLevelInfo    LogLevel = "INFO"
	LogLevelWarning LogLevel = "WARN"
	LogLevelError   LogLevel = "ERROR"
	LogLevelTrade   LogLevel = "TRADE"
	LogLevelSweep   LogLevel = "SWEEP"
)

// NewLogger creates a new file logger for the specified pair and run kind
// (backtest, sweep, screen). Log files land under logs/ named by pair, kind
// and date.
func NewLogger(pairLabel, runKind string) (*Logger, error) {
	// Create log directory if it doesn't exist
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Create log filename with timestamp
	timestamp := time.Now().Format("2006-01-02")
	filename := fmt.Sprintf("%s_%s_%s.log", sanitizeLabel(pairLabel), runKind, timestamp)
	logPath := filepath.Join(logDir, filename)

	// Open or create log file
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	// Create logger with no prefix (we'll add our own formatting)
	logger := log.New(file, "", 0)

	l := &Logger{
		pairLabel: pairLabel,
		runKind:   runKind,
		logFile:   file,
		logger:    logger,
		logPath:   logPath,
	}

	// Write session start header
	l.writeSessionHeader()

	return l, nil
}

// sanitizeLabel makes a pair label safe for filenames.
func sanitizeLabel(label string) string {
	out := make([]rune, 0, len(label))
	for _, r := range label {
		if r == '/' || r == '\\' || r == ':' {
			r = '_'
		}
		out = append(out, r)
	}
	return string(out)
}

// writeSessionHeader writes a session start header to the log
func (l *Logger) writeSessionHeader() {
	l.mu.Lock()
	defer l.mu.Unlock()

	header := fmt.Sprintf(`
================================================================================
🚀 PAIRS LAB SESSION STARTED
================================================================================
Pair: %s | Run: %s
Started: %s
Log File: %s
================================================================================
`, l.pairLabel, l.runKind, time.Now().Format("2006-01-02 15:04:05"), filepath.Base(l.logPath))

	l.logger.Print(header)
}

// Log writes a formatted log entry with the specified level
func (l *Logger) Log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	logEntry := fmt.Sprintf("[%s] [%s] %s", timestamp, level, message)

	l.logger.Println(logEntry)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.Log(LogLevelInfo, format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.Log(LogLevelWarning, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.Log(LogLevelError, format, args...)
}

// Trade logs a closed spread round trip
func (l *Logger) Trade(format string, args ...interface{}) {
	l.Log(LogLevelTrade, format, args...)
}

// Sweep logs grid sweep progress
func (l *Logger) Sweep(format string, args ...interface{}) {
	l.Log(LogLevelSweep, format, args...)
}

// LogRunSummary logs the headline numbers of a finished backtest
func (l *Logger) LogRunSummary(mode string, window int, entry, exit float64, finalEquity, totalReturn, cagr, sharpe, maxDD float64, trades int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")

	summaryLog := fmt.Sprintf(`
[%s] [INFO] ==================== BACKTEST COMPLETE ====================
⚙️ Mode: %s | Window: %d | Entry: %.2f | Exit: %.2f
💼 Final Equity: $%.2f | Return: %.2f%%
📈 CAGR: %.2f%% | Sharpe: %.2f | Max Drawdown: %.2f%%
🔄 Round Trips: %d
=============================================================`,
		timestamp, mode, window, entry, exit, finalEquity, totalReturn*100, cagr*100, sharpe, maxDD*100, trades)

	l.logger.Println(summaryLog)
}

// LogTradeClose logs one closed round trip in the spread
func (l *Logger) LogTradeClose(direction string, entrySpread, exitSpread, hedgeRatio, pnl float64, holding time.Duration, reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")

	tradeLog := fmt.Sprintf(`
[%s] [TRADE] ==================== %s CLOSED ====================
🎯 Entry Spread: %.6f
🚪 Exit Spread: %.6f
⚖️ Hedge Ratio: %.6f
💹 P&L: $%.4f
⏱️ Held: %s
📋 Reason: %s
=============================================================`,
		timestamp, direction, entrySpread, exitSpread, hedgeRatio, pnl, holding.Round(time.Minute), reason)

	l.logger.Println(tradeLog)
}

// LogSweepProgress logs sweep completion progress with the current best cell
func (l *Logger) LogSweepProgress(done, total int, bestCell string, bestSharpe float64) {
	if bestCell == "" {
		l.Sweep("Progress: %d/%d cells", done, total)
		return
	}
	l.Sweep("Progress: %d/%d cells | Best: %s (Sharpe %.2f)", done, total, bestCell, bestSharpe)
}

// LogError logs error with context
func (l *Logger) LogError(context string, err error) {
	l.Error("%s: %v", context, err)
}

// LogWarning logs warning with context
func (l *Logger) LogWarning(context string, message string, args ...interface{}) {
	fullMessage := fmt.Sprintf(context+": "+message, args...)
	l.Warning("%s", fullMessage)
}

// Close closes the log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		// Write session end header
		timestamp := time.Now().Format("2006-01-02 15:04:05")
		footer := fmt.Sprintf(`
================================================================================
🛑 PAIRS LAB SESSION ENDED
================================================================================
Ended: %s
================================================================================

`, timestamp)
		l.logger.Print(footer)

		return l.logFile.Close()
	}
	return nil
}

// GetLogPath returns the current log file path
func (l *Logger) GetLogPath() string {
	return l.logPath
}
