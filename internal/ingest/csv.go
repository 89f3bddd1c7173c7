// Package ingest turns price CSV exports into a features.Series.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"finlab/internal/features"
	"finlab/internal/finerr"
)

// SyntheticStart is the first date assigned when the source has no usable dates.
var SyntheticStart = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	time.DateOnly,
	"01/02/2006",
	"2006/01/02",
	"Jan 02, 2006",
	"02-Jan-2006",
	time.RFC3339,
}

const (
	fieldDate   = "date"
	fieldPrice  = "price"
	fieldOpen   = "open"
	fieldHigh   = "high"
	fieldLow    = "low"
	fieldVolume = "volume"
	fieldChange = "change"
)

// Header aliases in priority order per canonical field.
var aliases = map[string][]string{
	fieldDate:   {"date", "datetime", "timestamp"},
	fieldPrice:  {"price", "close", "adj close", "closing_price"},
	fieldOpen:   {"open", "opening", "opening_price"},
	fieldHigh:   {"high", "highest", "max"},
	fieldLow:    {"low", "lowest", "min"},
	fieldVolume: {"vol", "vol.", "volume"},
	fieldChange: {"change(%)", "change %", "change_pct"},
}

// ReadCSV parses a price table. Headers are matched case-insensitively
// against known aliases; a table without a price column is rejected.
func ReadCSV(r io.Reader) (features.Series, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return features.Series{}, finerr.Invalid("csv has no header")
		}
		return features.Series{}, fmt.Errorf("read csv header: %w", err)
	}

	index := mapHeader(header)
	if _, ok := index[fieldPrice]; !ok {
		return features.Series{}, finerr.Invalid("csv has no price or close column (headers: %s)", strings.Join(header, ", "))
	}

	series := features.Series{}
	_, series.HasVolume = index[fieldVolume]
	_, series.HasChange = index[fieldChange]

	datesOK := true
	_, hasDate := index[fieldDate]
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return features.Series{}, fmt.Errorf("read csv line %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		bar := features.PriceBar{
			Price:     numberAt(record, index, fieldPrice, math.NaN()),
			Open:      numberAt(record, index, fieldOpen, 0),
			High:      numberAt(record, index, fieldHigh, 0),
			Low:       numberAt(record, index, fieldLow, 0),
			Volume:    numberAt(record, index, fieldVolume, math.NaN()),
			ChangePct: numberAt(record, index, fieldChange, math.NaN()),
		}
		if hasDate && datesOK {
			date, ok := ParseDate(cell(record, index, fieldDate))
			if ok {
				bar.Date = date
			} else {
				datesOK = false
			}
		}
		series.Bars = append(series.Bars, bar)
	}

	if len(series.Bars) == 0 {
		return features.Series{}, finerr.Invalid("csv has no data rows")
	}
	if !hasDate || !datesOK {
		series.SyntheticDates = true
		for i := range series.Bars {
			series.Bars[i].Date = SyntheticStart.AddDate(0, 0, i)
		}
	}
	return series, nil
}

func mapHeader(header []string) map[string]int {
	normalized := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := normalized[key]; !dup {
			normalized[key] = i
		}
	}

	index := make(map[string]int, len(aliases))
	for field, names := range aliases {
		for _, name := range names {
			if i, ok := normalized[name]; ok {
				index[field] = i
				break
			}
		}
	}
	return index
}

func cell(record []string, index map[string]int, field string) string {
	i, ok := index[field]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

func numberAt(record []string, index map[string]int, field string, missing float64) float64 {
	if _, ok := index[field]; !ok {
		return missing
	}
	v, ok := ParseNumber(cell(record, index, field))
	if !ok {
		return math.NaN()
	}
	return v
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ParseNumber reads numbers as they appear in market data exports:
// thousands separators, K/M/B magnitude suffixes and trailing percent signs.
func ParseNumber(raw string) (float64, bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" || s == "-" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")

	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "K"):
		multiplier = 1e3
	case strings.HasSuffix(s, "M"):
		multiplier = 1e6
	case strings.HasSuffix(s, "B"):
		multiplier = 1e9
	case strings.HasSuffix(s, "%"):
	default:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	}

	v, err := strconv.ParseFloat(s[:len(s)-1], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v * multiplier, true
}

// ParseDate tries the supported layouts in order.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
