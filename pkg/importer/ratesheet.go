package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Rate sheet ingestion for the weight-based shipping backend. Merchants
// maintain their carrier price lists as CSV or Excel files; both are
// normalized into RateSheetRow records here.

type RateSheetRow struct {
	CountryCode   string
	MaxWeight     decimal.Decimal
	OptionCode    string
	OptionName    string
	Price         decimal.Decimal
	EstimatedDays string
}

// Recognized header names, normalized to lower snake case.
var columnAliases = map[string]string{
	"country":        "country",
	"country_code":   "country",
	"destination":    "country",
	"max_weight":     "max_weight",
	"weight":         "max_weight",
	"weight_to":      "max_weight",
	"option_code":    "option_code",
	"service":        "option_code",
	"service_code":   "option_code",
	"option_name":    "option_name",
	"service_name":   "option_name",
	"price":          "price",
	"rate":           "price",
	"days":           "days",
	"estimated_days": "days",
	"delivery_days":  "days",
}

// ReadRateSheet loads a rate sheet, dispatching on file extension.
func ReadRateSheet(path string) ([]RateSheetRow, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return readCSV(file)
	case ".xlsx", ".xlsm":
		return readExcel(path)
	default:
		return nil, fmt.Errorf("unsupported rate sheet format: %s", filepath.Ext(path))
	}
}

func readCSV(r io.Reader) ([]RateSheetRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read rate sheet header: %w", err)
	}
	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []RateSheetRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read rate sheet line %d: %w", line+1, err)
		}
		line++
		row, err := parseRow(record, columns)
		if err != nil {
			return nil, fmt.Errorf("rate sheet line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readExcel(path string) ([]RateSheetRow, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	sheet := file.GetSheetName(0)
	records, err := file.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("rate sheet %s is empty", path)
	}

	columns, err := mapColumns(records[0])
	if err != nil {
		return nil, err
	}

	var rows []RateSheetRow
	for i, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		row, err := parseRow(record, columns)
		if err != nil {
			return nil, fmt.Errorf("rate sheet row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// mapColumns resolves header names to field indexes, tolerating the
// naming variants merchants actually use.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int)
	for i, name := range header {
		normalized := normalizeHeader(name)
		if field, ok := columnAliases[normalized]; ok {
			if _, exists := columns[field]; !exists {
				columns[field] = i
			}
		}
	}
	for _, required := range []string{"country", "max_weight", "option_code", "price"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("rate sheet is missing a %q column", required)
		}
	}
	return columns, nil
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	return name
}

func parseRow(record []string, columns map[string]int) (RateSheetRow, error) {
	row := RateSheetRow{
		CountryCode: strings.ToUpper(cell(record, columns, "country")),
		OptionCode:  cell(record, columns, "option_code"),
		OptionName:  cell(record, columns, "option_name"),
		EstimatedDays: cell(record, columns, "days"),
	}

	maxWeight, err := decimal.NewFromString(cell(record, columns, "max_weight"))
	if err != nil {
		return row, fmt.Errorf("invalid max weight: %w", err)
	}
	row.MaxWeight = maxWeight

	price, err := decimal.NewFromString(cell(record, columns, "price"))
	if err != nil {
		return row, fmt.Errorf("invalid price: %w", err)
	}
	row.Price = price

	if row.CountryCode == "" {
		return row, fmt.Errorf("missing country code")
	}
	if row.OptionCode == "" {
		return row, fmt.Errorf("missing option code")
	}
	return row, nil
}

func cell(record []string, columns map[string]int, field string) string {
	idx, ok := columns[field]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func isBlank(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
