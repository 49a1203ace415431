// internal/dataset/loader.go
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/autopo-sim/internal/domain"
)

// Exclusion records a starting-table row that was kept out of the
// simulation, with the reason. Exclusions are warnings, not failures: one
// bad row must never abort a multi-hour sweep, but every dropped SKU stays
// enumerable after the run.
type Exclusion struct {
	SKUCode string `json:"sku_code"`
	Reason  string `json:"reason"`
}

// Load reads the resolved starting table from a CSV or XLSX file and returns
// the simulatable SKUs plus the rows excluded by validation. Expected
// columns (header names are matched case- and separator-insensitively):
// sku_code, product_name, stock, qpd, lead_time_days.
func Load(path string) ([]domain.SKU, []Exclusion, error) {
	csvPath := path
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		tmp, err := os.CreateTemp("", "starting_table_*.csv")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create temp csv: %w", err)
		}
		tmp.Close()
		defer os.Remove(tmp.Name())

		if err := convertXLSXToCSV(path, tmp.Name()); err != nil {
			return nil, nil, err
		}
		csvPath = tmp.Name()
	}

	skus, exclusions, err := loadCSV(csvPath)
	if err != nil {
		return nil, nil, err
	}

	for _, e := range exclusions {
		log.Warn().Str("sku", e.SKUCode).Str("reason", e.Reason).Msg("SKU excluded from simulation")
	}
	log.Info().Int("skus", len(skus)).Int("excluded", len(exclusions)).Str("file", path).Msg("starting table loaded")

	return skus, exclusions, nil
}

func loadCSV(path string) ([]domain.SKU, []Exclusion, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open starting table %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	colIndex := func(names ...string) int {
		targets := make(map[string]struct{}, len(names))
		for _, name := range names {
			targets[normalizeColumnName(name)] = struct{}{}
		}
		for i, h := range header {
			if _, ok := targets[normalizeColumnName(h)]; ok {
				return i
			}
		}
		return -1
	}

	idxCode := colIndex("sku_code", "sku")
	idxName := colIndex("product_name", "nama", "product name")
	idxStock := colIndex("stock", "stok")
	idxQPD := colIndex("qpd", "daily_demand_rate", "daily sales")
	idxLeadTime := colIndex("lead_time_days", "lead_time", "lead time")

	for col, idx := range map[string]int{
		"sku_code":       idxCode,
		"stock":          idxStock,
		"qpd":            idxQPD,
		"lead_time_days": idxLeadTime,
	} {
		if idx < 0 {
			return nil, nil, fmt.Errorf("starting table %s is missing column %s", path, col)
		}
	}

	var skus []domain.SKU
	var exclusions []Exclusion
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row of %s: %w", path, err)
		}

		get := func(idx int) string {
			if idx < 0 || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		sku := domain.SKU{
			Code:        get(idxCode),
			ProductName: get(idxName),
		}
		sku.Stock = parseFloat(get(idxStock))
		sku.QPD = parseFloat(get(idxQPD))
		sku.LeadTimeDays = int(parseFloat(get(idxLeadTime)))

		if reason := validate(sku, get(idxQPD)); reason != "" {
			exclusions = append(exclusions, Exclusion{SKUCode: sku.Code, Reason: reason})
			continue
		}

		skus = append(skus, sku)
	}

	return skus, exclusions, nil
}

// validate returns a non-empty reason when a row cannot be simulated.
// Zero or missing demand is dead stock rather than bad data, but it is still
// excluded and reported so the run's inputs remain auditable.
func validate(sku domain.SKU, rawQPD string) string {
	switch {
	case sku.Code == "":
		return "missing sku_code"
	case sku.Stock < 0:
		return fmt.Sprintf("negative stock %v", sku.Stock)
	case sku.QPD < 0:
		return fmt.Sprintf("negative demand rate %v", sku.QPD)
	case rawQPD == "" || sku.QPD == 0:
		return "zero demand rate"
	case sku.LeadTimeDays <= 0:
		return fmt.Sprintf("non-positive lead time %d", sku.LeadTimeDays)
	}
	return ""
}

// parseFloat tolerates thousand separators; anything unparseable becomes 0
// and is caught by validation where it matters.
func parseFloat(v string) float64 {
	if v == "" {
		return 0
	}
	v = strings.ReplaceAll(v, ",", "")
	f, _ := strconv.ParseFloat(v, 64)
	return f
}

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(name)
}
