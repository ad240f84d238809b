package reporting

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/crypto-pairs-lab/internal/backtest"
)

// GridReporter handles sweep-specific reporting functionality
type GridReporter struct {
	*DefaultExcelReporter
}

// NewGridReporter creates a new grid reporter
func NewGridReporter() *GridReporter {
	return &GridReporter{
		DefaultExcelReporter: NewDefaultExcelReporter(),
	}
}

// GridExcelStyles holds Excel formatting styles for sweep reporting
type GridExcelStyles struct {
	HeaderStyle      int
	BaseStyle        int
	NumberStyle      int
	PercentStyle     int
	HeatMapColdStyle int
	HeatMapWarmStyle int
	HeatMapHotStyle  int
	SummaryStyle     int
}

// WriteGridReportXLSX creates the sweep workbook: summary, ranked results,
// and a window-by-threshold Sharpe heat map.
func (r *GridReporter) WriteGridReportXLSX(grid *backtest.GridResult, path string) error {
	if err := ensureDir(path); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	fx := excelize.NewFile()
	defer fx.Close()

	const summarySheet = "Grid Summary"
	const resultsSheet = "Grid Results"
	const heatMapSheet = "Performance Heat Map"

	fx.SetSheetName(fx.GetSheetName(0), summarySheet)
	fx.NewSheet(resultsSheet)
	fx.NewSheet(heatMapSheet)

	styles, err := r.createGridExcelStyles(fx)
	if err != nil {
		return fmt.Errorf("failed to create Excel styles: %w", err)
	}

	if err := r.writeGridSummarySheet(fx, summarySheet, grid, styles); err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", err)
	}

	if err := r.writeGridResultsSheet(fx, resultsSheet, grid, styles); err != nil {
		return fmt.Errorf("failed to write results sheet: %w", err)
	}

	if err := r.writeGridHeatMapSheet(fx, heatMapSheet, grid, styles); err != nil {
		return fmt.Errorf("failed to write heat map sheet: %w", err)
	}

	return fx.SaveAs(path)
}

// createGridExcelStyles creates Excel styles for sweep reporting
func (r *GridReporter) createGridExcelStyles(fx *excelize.File) (GridExcelStyles, error) {
	var styles GridExcelStyles
	var err error

	thinBorder := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}

	if styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 2},
			{Type: "top", Color: "000000", Style: 2},
			{Type: "bottom", Color: "000000", Style: 2},
			{Type: "right", Color: "000000", Style: 2},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return styles, err
	}

	if styles.BaseStyle, err = fx.NewStyle(&excelize.Style{
		Border: thinBorder,
	}); err != nil {
		return styles, err
	}

	if styles.NumberStyle, err = fx.NewStyle(&excelize.Style{
		Border:    thinBorder,
		NumFmt:    4, // #,##0.00
		Alignment: &excelize.Alignment{Horizontal: "right"},
	}); err != nil {
		return styles, err
	}

	if styles.PercentStyle, err = fx.NewStyle(&excelize.Style{
		Border: thinBorder,
		NumFmt: 10,
	}); err != nil {
		return styles, err
	}

	// Heat map styles (for different performance levels)
	if styles.HeatMapColdStyle, err = fx.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
		Border: thinBorder,
		NumFmt: 4,
	}); err != nil {
		return styles, err
	}

	if styles.HeatMapWarmStyle, err = fx.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFE6CC"}, Pattern: 1},
		Border: thinBorder,
		NumFmt: 4,
	}); err != nil {
		return styles, err
	}

	if styles.HeatMapHotStyle, err = fx.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FF9999"}, Pattern: 1},
		Border: thinBorder,
		NumFmt: 4,
	}); err != nil {
		return styles, err
	}

	if styles.SummaryStyle, err = fx.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"F2F2F2"}, Pattern: 1},
		Border: thinBorder,
	}); err != nil {
		return styles, err
	}

	return styles, nil
}

// writeGridSummarySheet writes the sweep overview and the best cell
func (r *GridReporter) writeGridSummarySheet(fx *excelize.File, sheet string, grid *backtest.GridResult, styles GridExcelStyles) error {
	fx.SetColWidth(sheet, "A", "A", 24)
	fx.SetColWidth(sheet, "B", "B", 24)

	fx.SetCellValue(sheet, "A1", "Parameter Sweep Summary")
	fx.SetCellStyle(sheet, "A1", "B1", styles.HeaderStyle)
	fx.MergeCell(sheet, "A1", "B1")

	type summaryRow struct {
		label string
		value interface{}
	}
	rows := []summaryRow{
		{"Pair", grid.Pair},
		{"Cells Evaluated", len(grid.Cells)},
		{"Cells Failed", len(grid.Failed())},
		{"Elapsed", grid.Elapsed.String()},
	}

	if best, ok := grid.Best(); ok {
		m := best.Result.Metrics
		rows = append(rows,
			summaryRow{"Best Window", best.Key.Window},
			summaryRow{"Best Entry Threshold", best.Key.EntryThreshold},
			summaryRow{"Best Sharpe", m.Sharpe},
			summaryRow{"Best CAGR", m.CAGR},
			summaryRow{"Best Max Drawdown", m.MaxDrawdown},
			summaryRow{"Best Trade Count", m.TradeCount},
		)
	}

	for i, row := range rows {
		cellA := "A" + strconv.Itoa(i+2)
		cellB := "B" + strconv.Itoa(i+2)
		fx.SetCellValue(sheet, cellA, row.label)
		fx.SetCellStyle(sheet, cellA, cellA, styles.SummaryStyle)
		fx.SetCellValue(sheet, cellB, row.value)
		fx.SetCellStyle(sheet, cellB, cellB, styles.BaseStyle)
	}

	return nil
}

// writeGridResultsSheet writes the ranked leaderboard, then the failed cells
func (r *GridReporter) writeGridResultsSheet(fx *excelize.File, sheet string, grid *backtest.GridResult, styles GridExcelStyles) error {
	headers := []string{"Rank", "Window", "Entry Threshold", "Sharpe", "CAGR", "Max Drawdown", "Trades", "Duration (ms)", "Error"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		fx.SetCellValue(sheet, cell, header)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}
	fx.SetColWidth(sheet, "A", "H", 14)
	fx.SetColWidth(sheet, "I", "I", 44)

	row := 2
	for i, cell := range grid.Ranked() {
		m := cell.Result.Metrics
		values := []interface{}{
			i + 1, cell.Key.Window, cell.Key.EntryThreshold,
			m.Sharpe, m.CAGR, m.MaxDrawdown, m.TradeCount,
			cell.Duration.Milliseconds(), "",
		}
		cellStyles := []int{
			styles.BaseStyle, styles.BaseStyle, styles.NumberStyle,
			styles.NumberStyle, styles.PercentStyle, styles.PercentStyle, styles.BaseStyle,
			styles.BaseStyle, styles.BaseStyle,
		}
		for col, v := range values {
			name, _ := excelize.CoordinatesToCellName(col+1, row)
			fx.SetCellValue(sheet, name, v)
			fx.SetCellStyle(sheet, name, name, cellStyles[col])
		}
		row++
	}

	for _, cell := range grid.Failed() {
		values := []interface{}{
			"", cell.Key.Window, cell.Key.EntryThreshold,
			"", "", "", "",
			cell.Duration.Milliseconds(), cell.Err.Error(),
		}
		for col, v := range values {
			name, _ := excelize.CoordinatesToCellName(col+1, row)
			fx.SetCellValue(sheet, name, v)
			fx.SetCellStyle(sheet, name, name, styles.BaseStyle)
		}
		row++
	}

	return nil
}

// writeGridHeatMapSheet writes the window-by-threshold Sharpe matrix with
// heat coloring and a legend.
func (r *GridReporter) writeGridHeatMapSheet(fx *excelize.File, sheet string, grid *backtest.GridResult, styles GridExcelStyles) error {
	fx.SetCellValue(sheet, "A1", "SHARPE HEAT MAP (window x entry threshold)")
	fx.SetCellStyle(sheet, "A1", "F1", styles.HeaderStyle)
	fx.MergeCell(sheet, "A1", "F1")

	// Collect the axes from the evaluated cells.
	windowSet := make(map[int]struct{})
	thresholdSet := make(map[float64]struct{})
	for key := range grid.Cells {
		windowSet[key.Window] = struct{}{}
		thresholdSet[key.EntryThreshold] = struct{}{}
	}
	windows := make([]int, 0, len(windowSet))
	for w := range windowSet {
		windows = append(windows, w)
	}
	sort.Ints(windows)
	thresholds := make([]float64, 0, len(thresholdSet))
	for e := range thresholdSet {
		thresholds = append(thresholds, e)
	}
	sort.Float64s(thresholds)

	// Min/max Sharpe over succeeded cells for score normalization.
	minSharpe, maxSharpe := 0.0, 0.0
	first := true
	for _, cell := range grid.Cells {
		if cell.Failed() {
			continue
		}
		s := cell.Result.Metrics.Sharpe
		if first {
			minSharpe, maxSharpe = s, s
			first = false
			continue
		}
		if s < minSharpe {
			minSharpe = s
		}
		if s > maxSharpe {
			maxSharpe = s
		}
	}

	const headerRow = 3
	fx.SetCellValue(sheet, "A"+strconv.Itoa(headerRow), "Window \\ Entry")
	fx.SetCellStyle(sheet, "A"+strconv.Itoa(headerRow), "A"+strconv.Itoa(headerRow), styles.HeaderStyle)
	for j, e := range thresholds {
		cell, _ := excelize.CoordinatesToCellName(j+2, headerRow)
		fx.SetCellValue(sheet, cell, e)
		fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle)
	}

	for i, w := range windows {
		row := headerRow + 1 + i
		name, _ := excelize.CoordinatesToCellName(1, row)
		fx.SetCellValue(sheet, name, w)
		fx.SetCellStyle(sheet, name, name, styles.HeaderStyle)

		for j, e := range thresholds {
			name, _ := excelize.CoordinatesToCellName(j+2, row)
			cell, ok := grid.Cells[backtest.CellKey{Window: w, EntryThreshold: e}]
			if !ok || cell.Failed() {
				fx.SetCellStyle(sheet, name, name, styles.BaseStyle)
				continue
			}

			sharpe := cell.Result.Metrics.Sharpe
			fx.SetCellValue(sheet, name, sharpe)

			// Score 0-100 against the sweep's Sharpe range.
			var score float64
			if maxSharpe > minSharpe {
				score = (sharpe - minSharpe) / (maxSharpe - minSharpe) * 100
			}
			heatStyle := styles.HeatMapColdStyle
			if score > 66 {
				heatStyle = styles.HeatMapHotStyle
			} else if score > 33 {
				heatStyle = styles.HeatMapWarmStyle
			}
			fx.SetCellStyle(sheet, name, name, heatStyle)
		}
	}

	// Add legend
	row := headerRow + len(windows) + 3
	fx.SetCellValue(sheet, "A"+strconv.Itoa(row), "Legend:")
	row++
	fx.SetCellValue(sheet, "A"+strconv.Itoa(row), "Cold (Low Sharpe)")
	fx.SetCellStyle(sheet, "A"+strconv.Itoa(row), "B"+strconv.Itoa(row), styles.HeatMapColdStyle)
	row++
	fx.SetCellValue(sheet, "A"+strconv.Itoa(row), "Warm (Medium Sharpe)")
	fx.SetCellStyle(sheet, "A"+strconv.Itoa(row), "B"+strconv.Itoa(row), styles.HeatMapWarmStyle)
	row++
	fx.SetCellValue(sheet, "A"+strconv.Itoa(row), "Hot (High Sharpe)")
	fx.SetCellStyle(sheet, "A"+strconv.Itoa(row), "B"+strconv.Itoa(row), styles.HeatMapHotStyle)

	return nil
}

// WriteGridReportXLSX - package-level convenience function
func WriteGridReportXLSX(grid *backtest.GridResult, path string) error {
	reporter := NewGridReporter()
	return reporter.WriteGridReportXLSX(grid, path)
}
