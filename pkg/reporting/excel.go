package reporting

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/crypto-pairs-lab/internal/backtest"
	"github.com/ducminhle1904/crypto-pairs-lab/internal/screen"
)

// DefaultExcelReporter implements Excel output functionality
type DefaultExcelReporter struct{}

// NewDefaultExcelReporter creates a new Excel reporter
func NewDefaultExcelReporter() *DefaultExcelReporter {
	return &DefaultExcelReporter{}
}

// WriteBacktestXLSX writes a full run workbook: Summary, Trades, and Equity
// sheets.
func (r *DefaultExcelReporter) WriteBacktestXLSX(result *backtest.Result, path string) error {
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const summarySheet = "Summary"
	const tradesSheet = "Trades"
	const equitySheet = "Equity"

	fx.SetSheetName(fx.GetSheetName(0), summarySheet)
	fx.NewSheet(tradesSheet)
	fx.NewSheet(equitySheet)

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeSummarySheet(fx, summarySheet, result, styles); err != nil {
		return err
	}

	if err := r.writeTradesSheet(fx, tradesSheet, result, styles); err != nil {
		return err
	}

	if err := r.writeEquitySheet(fx, equitySheet, result, styles); err != nil {
		return err
	}

	return fx.SaveAs(path)
}

// createExcelStyles creates all Excel styles
func (r *DefaultExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	lightBorder := []excelize.Border{
		{Type: "left", Color: "E0E0E0", Style: 1},
		{Type: "right", Color: "E0E0E0", Style: 1},
		{Type: "bottom", Color: "E0E0E0", Style: 1},
	}

	// Header style - dark background with white text
	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	// Currency style (right aligned, $ format)
	styles.CurrencyStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    7,
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    lightBorder,
	})
	if err != nil {
		return styles, err
	}

	// Percentage style
	styles.PercentStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    10,
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    lightBorder,
	})
	if err != nil {
		return styles, err
	}

	// Plain numeric style
	styles.NumberStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    4, // #,##0.00
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    lightBorder,
	})
	if err != nil {
		return styles, err
	}

	// Base style (light borders)
	styles.BaseStyle, err = fx.NewStyle(&excelize.Style{
		Border: lightBorder,
	})
	if err != nil {
		return styles, err
	}

	// Red style for losses
	styles.RedStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    7,
		Font:      &excelize.Font{Color: "FF0000"},
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    lightBorder,
	})
	if err != nil {
		return styles, err
	}

	// Green style for gains
	styles.GreenStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    7,
		Font:      &excelize.Font{Color: "008000"},
		Alignment: &excelize.Alignment{Horizontal: "right"},
		Border:    lightBorder,
	})
	if err != nil {
		return styles, err
	}

	// Long-spread trade rows (light blue background)
	styles.LongTradeStyle, err = fx.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"E6F3FF"},
			Pattern: 1,
		},
		Border: lightBorder,
	})
	if err != nil {
		return styles, err
	}

	// Short-spread trade rows (light green background)
	styles.ShortTradeStyle, err = fx.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"E6FFE6"},
			Pattern: 1,
		},
		Border: lightBorder,
	})
	if err != nil {
		return styles, err
	}

	// Summary label style
	styles.SummaryStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Family: "Calibri"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"F2F2F2"},
			Pattern: 1,
		},
		Border: lightBorder,
	})
	if err != nil {
		return styles, err
	}

	return styles, nil
}

// writeSummarySheet writes the run parameters and headline metrics
func (r *DefaultExcelReporter) writeSummarySheet(fx *excelize.File, sheet string, result *backtest.Result, styles ExcelStyles) error {
	fx.SetColWidth(sheet, "A", "A", 24)
	fx.SetColWidth(sheet, "B", "B", 22)

	fx.SetCellValue(sheet, "A1", "Pairs Backtest Summary")
	fx.SetCellStyle(sheet, "A1", "B1", styles.HeaderStyle)
	fx.MergeCell(sheet, "A1", "B1")

	rows := []struct {
		label string
		value interface{}
		style int
	}{
		{"Pair", result.Pair, styles.BaseStyle},
		{"Mode", string(result.Config.Mode), styles.BaseStyle},
		{"Window (bars)", result.Config.Window, styles.NumberStyle},
		{"Entry Threshold", result.Config.EntryThreshold, styles.NumberStyle},
		{"Exit Threshold", result.Config.ExitThreshold, styles.NumberStyle},
		{"Commission", result.Config.Commission, styles.PercentStyle},
		{"Initial Capital", result.Config.InitialCapital, styles.CurrencyStyle},
		{"Final Equity", result.FinalEquity(), styles.CurrencyStyle},
		{"Total Return", result.TotalReturn(), styles.PercentStyle},
		{"CAGR", result.Metrics.CAGR, styles.PercentStyle},
		{"Sharpe Ratio", result.Metrics.Sharpe, styles.NumberStyle},
		{"Max Drawdown", result.Metrics.MaxDrawdown, styles.PercentStyle},
		{"Trades", result.Metrics.TradeCount, styles.NumberStyle},
		{"Realized P&L", result.RealizedPnL(), styles.CurrencyStyle},
		{"Total Costs", result.TotalCosts(), styles.CurrencyStyle},
		{"Signal Bars", result.SignalBars, styles.NumberStyle},
		{"Total Bars", len(result.EquityCurve), styles.NumberStyle},
		{"Filter Warnings", len(result.Warnings), styles.NumberStyle},
	}

	for i, row := range rows {
		cellA := "A" + strconv.Itoa(i+2)
		cellB := "B" + strconv.Itoa(i+2)
		fx.SetCellValue(sheet, cellA, row.label)
		fx.SetCellStyle(sheet, cellA, cellA, styles.SummaryStyle)
		fx.SetCellValue(sheet, cellB, row.value)
		fx.SetCellStyle(sheet, cellB, cellB, row.style)
	}

	return nil
}

// writeTradesSheet writes one row per closed trade, tinted by direction
func (r *DefaultExcelReporter) writeTradesSheet(fx *excelize.File, sheet string, result *backtest.Result, styles ExcelStyles) error {
	headers := []string{
		"#", "Direction", "Entry Time", "Exit Time",
		"Entry Price A", "Entry Price B", "Exit Price A", "Exit Price B",
		"Entry Spread", "Exit Spread", "Hedge Ratio",
		"Entry Cost", "Exit Cost", "P&L", "Exit Reason",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}
	fx.SetColWidth(sheet, "A", "A", 5)
	fx.SetColWidth(sheet, "B", "B", 14)
	fx.SetColWidth(sheet, "C", "D", 19)
	fx.SetColWidth(sheet, "E", "N", 13)
	fx.SetColWidth(sheet, "O", "O", 13)

	for i, t := range result.Trades {
		row := i + 2
		rowStyle := styles.LongTradeStyle
		if t.Direction == backtest.ShortSpread {
			rowStyle = styles.ShortTradeStyle
		}

		values := []interface{}{
			i + 1,
			t.Direction.String(),
			t.EntryTime.Format(timeFormat),
			t.ExitTime.Format(timeFormat),
			t.EntryPriceA, t.EntryPriceB, t.ExitPriceA, t.ExitPriceB,
			t.EntrySpread, t.ExitSpread, t.HedgeRatio,
			t.EntryCost, t.ExitCost, t.PnL,
			t.ExitReason,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			fx.SetCellValue(sheet, cell, v)
			fx.SetCellStyle(sheet, cell, cell, rowStyle)
		}

		// P&L cell gets gain/loss coloring on top of the row tint.
		pnlCell, _ := excelize.CoordinatesToCellName(14, row)
		if t.PnL < 0 {
			fx.SetCellStyle(sheet, pnlCell, pnlCell, styles.RedStyle)
		} else {
			fx.SetCellStyle(sheet, pnlCell, pnlCell, styles.GreenStyle)
		}
	}

	return nil
}

// writeEquitySheet writes the full equity curve, one row per bar
func (r *DefaultExcelReporter) writeEquitySheet(fx *excelize.File, sheet string, result *backtest.Result, styles ExcelStyles) error {
	headers := []string{"Timestamp", "Equity", "Spread", "Hedge Ratio"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}
	fx.SetColWidth(sheet, "A", "A", 19)
	fx.SetColWidth(sheet, "B", "D", 14)

	for i, p := range result.EquityCurve {
		row := i + 2
		fx.SetCellValue(sheet, "A"+strconv.Itoa(row), p.Time.Format(timeFormat))
		fx.SetCellStyle(sheet, "A"+strconv.Itoa(row), "A"+strconv.Itoa(row), styles.BaseStyle)

		fx.SetCellValue(sheet, "B"+strconv.Itoa(row), p.Equity)
		fx.SetCellStyle(sheet, "B"+strconv.Itoa(row), "B"+strconv.Itoa(row), styles.CurrencyStyle)

		fx.SetCellValue(sheet, "C"+strconv.Itoa(row), p.Spread)
		fx.SetCellStyle(sheet, "C"+strconv.Itoa(row), "C"+strconv.Itoa(row), styles.NumberStyle)

		if i < len(result.HedgeRatios) {
			fx.SetCellValue(sheet, "D"+strconv.Itoa(row), result.HedgeRatios[i])
			fx.SetCellStyle(sheet, "D"+strconv.Itoa(row), "D"+strconv.Itoa(row), styles.NumberStyle)
		}
	}

	return nil
}

// WriteScreenXLSX writes the ranked pair screen as a single-sheet workbook,
// one row per qualifying pair.
func (r *DefaultExcelReporter) WriteScreenXLSX(scores []screen.PairScore, path string) error {
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const sheet = "Pair Screen"
	fx.SetSheetName(fx.GetSheetName(0), sheet)

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	headers := []string{"Rank", "Symbol A", "Symbol B", "Correlation", "Beta", "Half-Life (bars)"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, h)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}
	fx.SetColWidth(sheet, "A", "A", 7)
	fx.SetColWidth(sheet, "B", "C", 13)
	fx.SetColWidth(sheet, "D", "F", 15)

	for i, s := range scores {
		row := strconv.Itoa(i + 2)

		fx.SetCellValue(sheet, "A"+row, i+1)
		fx.SetCellStyle(sheet, "A"+row, "A"+row, styles.BaseStyle)

		fx.SetCellValue(sheet, "B"+row, s.SymbolA)
		fx.SetCellValue(sheet, "C"+row, s.SymbolB)
		fx.SetCellStyle(sheet, "B"+row, "C"+row, styles.BaseStyle)

		fx.SetCellValue(sheet, "D"+row, s.Correlation)
		fx.SetCellValue(sheet, "E"+row, s.Beta)
		fx.SetCellValue(sheet, "F"+row, s.HalfLife)
		fx.SetCellStyle(sheet, "D"+row, "F"+row, styles.NumberStyle)
	}

	return fx.SaveAs(path)
}

// WriteBacktestXLSX - package-level convenience function
func WriteBacktestXLSX(result *backtest.Result, path string) error {
	reporter := NewDefaultExcelReporter()
	return reporter.WriteBacktestXLSX(result, path)
}

// WriteScreenXLSX - package-level convenience function
func WriteScreenXLSX(scores []screen.PairScore, path string) error {
	reporter := NewDefaultExcelReporter()
	return reporter.WriteScreenXLSX(scores, path)
}
