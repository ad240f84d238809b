package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BybitKlineData represents candlestick data from Bybit
type BybitKlineData struct {
	StartTime int64
	Open      string
	High      string
	Low       string
	Close     string
	Volume    string
	Turnover  string
}

// BybitResponse represents the API response structure
type BybitResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		Symbol   string     `json:"symbol"`
		Category string     `json:"category"`
		List     [][]string `json:"list"`
	} `json:"result"`
	Time int64 `json:"time"`
}

// Standalone downloader for building a local candle store without API keys.
// Downloads every symbol of a candidate universe at one interval so the
// screening and backtest commands can run fully offline afterwards.
func main() {
	var (
		symbols  = flag.String("symbols", "BTCUSDT,ETHUSDT", "Comma-separated list of symbols")
		interval = flag.String("interval", "60", "Kline interval (1, 3, 5, 15, 30, 60, 120, 240, 360, 720, D, W, M)")
		category = flag.String("category", "linear", "Market category (spot, linear, inverse)")
		outdir   = flag.String("outdir", "data/bybit", "Directory to write CSV files")

		startDate = flag.String("start", "", "Start date (YYYY-MM-DD)")
		endDate   = flag.String("end", "", "End date (YYYY-MM-DD)")
		limit     = flag.Int("limit", 1000, "Number of klines per request (max 1000)")
	)

	flag.Parse()

	if *limit > 1000 {
		*limit = 1000 // Bybit max limit
	}

	symList := []string{}
	for _, s := range strings.Split(*symbols, ",") {
		ss := strings.ToUpper(strings.TrimSpace(s))
		if ss != "" {
			symList = append(symList, ss)
		}
	}
	if len(symList) == 0 {
		log.Fatal("No symbols given")
	}

	cat := strings.ToLower(strings.TrimSpace(*category))
	ival := strings.TrimSpace(*interval)

	// Set default dates if not provided
	end := time.Now()
	start := end.AddDate(-1, 0, 0) // Default to 1 year of data

	if *startDate != "" {
		parsedStart, err := time.Parse("2006-01-02", *startDate)
		if err != nil {
			log.Fatalf("Invalid start date format: %v", err)
		}
		start = parsedStart
	}

	if *endDate != "" {
		parsedEnd, err := time.Parse("2006-01-02", *endDate)
		if err != nil {
			log.Fatalf("Invalid end date format: %v", err)
		}
		end = parsedEnd
	}

	// Ensure base output directory exists
	if err := os.MkdirAll(*outdir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	fmt.Println("🚀 Bybit Universe Downloader")
	fmt.Println("====================================")
	fmt.Printf("📊 Category: %s\n", cat)
	fmt.Printf("🎯 Symbols: %s\n", strings.Join(symList, ", "))
	fmt.Printf("⏱️  Interval: %s\n", ival)
	fmt.Printf("📅 Date Range: %s to %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	fmt.Println()

	failed := 0
	for _, sym := range symList {
		outPath := filepath.Join(*outdir, cat, sym, ival, "candles.csv")
		if !downloadOne(cat, sym, ival, start, end, *limit, outPath) {
			failed++
		}
	}

	if failed > 0 {
		fmt.Printf("\n⚠️ Finished with %d of %d symbols failed\n", failed, len(symList))
		return
	}
	fmt.Println("\n🎉 All downloads completed!")
}

func downloadOne(category, symbol, interval string, start, end time.Time, limit int, outputPath string) bool {
	fmt.Printf("\n📊 Downloading %s %s data for %s\n", category, interval, symbol)
	fmt.Printf("📁 Output: %s\n", outputPath)
	fmt.Println("🔄 Fetching data...")

	klines, err := downloadBybitKlines(category, symbol, interval, start, end, limit)
	if err != nil {
		log.Printf("❌ Failed to download data for %s: %v", symbol, err)
		return false
	}

	fmt.Printf("✅ Downloaded %d klines\n", len(klines))

	// Ensure parent directory exists for this file
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		log.Printf("❌ Failed to prepare output directory %s: %v", filepath.Dir(outputPath), err)
		return false
	}

	if err := saveToCSV(klines, outputPath); err != nil {
		log.Printf("❌ Failed to save %s: %v", symbol, err)
		return false
	}

	fmt.Printf("💾 Data saved to %s\n", outputPath)
	printSummary(klines)
	return true
}

func printSummary(klines []BybitKlineData) {
	if len(klines) == 0 {
		return
	}
	firstKline := klines[0]
	lastKline := klines[len(klines)-1]

	fmt.Println("\n📊 DATA SUMMARY:")
	fmt.Printf("  First: %s\n", time.Unix(firstKline.StartTime/1000, 0).Format("2006-01-02 15:04:05"))
	fmt.Printf("  Last:  %s\n", time.Unix(lastKline.StartTime/1000, 0).Format("2006-01-02 15:04:05"))
	fmt.Printf("  Total: %d candles\n", len(klines))

	highPrice := 0.0
	lowPrice := 1e9
	for _, kline := range klines {
		high, _ := strconv.ParseFloat(kline.High, 64)
		low, _ := strconv.ParseFloat(kline.Low, 64)
		if high > highPrice {
			highPrice = high
		}
		if low < lowPrice {
			lowPrice = low
		}
	}

	fmt.Printf("  High:  $%.2f\n", highPrice)
	fmt.Printf("  Low:   $%.2f\n", lowPrice)
}

func downloadBybitKlines(category, symbol, interval string, start, end time.Time, limit int) ([]BybitKlineData, error) {
	var allKlines []BybitKlineData

	// Convert times to milliseconds
	startMs := start.Unix() * 1000
	endMs := end.Unix() * 1000
	currentEndMs := endMs

	for currentEndMs > startMs {
		// Use 'end' parameter since Bybit returns data in descending order (newest first)
		url := fmt.Sprintf("https://api.bybit.com/v5/market/kline?category=%s&symbol=%s&interval=%s&end=%d&limit=%d",
			category, symbol, interval, currentEndMs, limit)

		resp, err := http.Get(url)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		if resp.StatusCode != 200 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
		}

		var bybitResp BybitResponse
		if err := json.NewDecoder(resp.Body).Decode(&bybitResp); err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("JSON decode error: %w", err)
		}
		resp.Body.Close()

		if bybitResp.RetCode != 0 {
			return nil, fmt.Errorf("Bybit API error %d: %s", bybitResp.RetCode, bybitResp.RetMsg)
		}

		if len(bybitResp.Result.List) == 0 {
			break
		}

		oldestTimestamp := int64(0)
		for _, raw := range bybitResp.Result.List {
			if len(raw) < 7 {
				continue
			}

			// Bybit format: [startTime, openPrice, highPrice, lowPrice, closePrice, volume, turnover]
			startTime, err := strconv.ParseInt(raw[0], 10, 64)
			if err != nil {
				continue
			}

			kline := BybitKlineData{
				StartTime: startTime,
				Open:      raw[1],
				High:      raw[2],
				Low:       raw[3],
				Close:     raw[4],
				Volume:    raw[5],
				Turnover:  raw[6],
			}

			// Only add if within our time range
			if kline.StartTime >= startMs && kline.StartTime <= endMs {
				allKlines = append(allKlines, kline)
			}

			// Track the oldest timestamp in this batch
			if oldestTimestamp == 0 || startTime < oldestTimestamp {
				oldestTimestamp = startTime
			}
		}

		// If we haven't reached our start time yet, continue with the oldest timestamp
		if oldestTimestamp <= startMs {
			break
		}

		// Since Bybit returns data in descending order, the next page ends
		// just before the oldest bar we got
		currentEndMs = oldestTimestamp - 1

		fmt.Printf("\r  Progress: %d klines downloaded...", len(allKlines))

		// Rate limiting (Bybit allows up to 120 requests per minute for public endpoints)
		time.Sleep(500 * time.Millisecond)
	}

	fmt.Println() // New line after progress

	// Bybit returns data newest first, so reverse into ascending order
	for i, j := 0, len(allKlines)-1; i < j; i, j = i+1, j-1 {
		allKlines[i], allKlines[j] = allKlines[j], allKlines[i]
	}

	return allKlines, nil
}

func saveToCSV(klines []BybitKlineData, filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"timestamp", "open", "high", "low", "close", "volume", "turnover"}); err != nil {
		return err
	}

	// Write data
	for _, kline := range klines {
		timestamp := time.Unix(kline.StartTime/1000, 0).Format("2006-01-02 15:04:05")

		record := []string{
			timestamp,
			kline.Open,
			kline.High,
			kline.Low,
			kline.Close,
			kline.Volume,
			kline.Turnover,
		}

		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return nil
}
