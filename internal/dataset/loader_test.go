package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "starting_table.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadParsesValidRows(t *testing.T) {
	path := writeTempCSV(t, `sku_code,product_name,stock,qpd,lead_time_days
SKU-A,Widget,100,10,5
SKU-B,Gadget,"1,250",2.5,7
`)

	skus, excluded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, skus, 2)
	assert.Empty(t, excluded)

	assert.Equal(t, "SKU-A", skus[0].Code)
	assert.Equal(t, "Widget", skus[0].ProductName)
	assert.Equal(t, 100.0, skus[0].Stock)
	assert.Equal(t, 10.0, skus[0].QPD)
	assert.Equal(t, 5, skus[0].LeadTimeDays)

	// Thousand separators inside quoted fields parse cleanly.
	assert.Equal(t, 1250.0, skus[1].Stock)
	assert.Equal(t, 2.5, skus[1].QPD)
}

func TestLoadAcceptsAlternateHeaderNames(t *testing.T) {
	path := writeTempCSV(t, `SKU,Nama,Stok,Daily Demand Rate,Lead Time
SKU-A,Widget,50,5,3
`)

	skus, _, err := Load(path)
	require.NoError(t, err)
	require.Len(t, skus, 1)
	assert.Equal(t, "SKU-A", skus[0].Code)
	assert.Equal(t, "Widget", skus[0].ProductName)
	assert.Equal(t, 3, skus[0].LeadTimeDays)
}

func TestLoadExcludesInvalidRows(t *testing.T) {
	path := writeTempCSV(t, `sku_code,product_name,stock,qpd,lead_time_days
,NoCode,10,1,3
SKU-NEG,NegStock,-5,1,3
SKU-NEGQPD,NegDemand,10,-1,3
SKU-DEAD,DeadStock,10,0,3
SKU-LEAD,BadLead,10,1,0
SKU-OK,Fine,10,1,3
`)

	skus, excluded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, skus, 1)
	assert.Equal(t, "SKU-OK", skus[0].Code)

	require.Len(t, excluded, 5)
	reasons := make(map[string]string, len(excluded))
	for _, e := range excluded {
		reasons[e.SKUCode] = e.Reason
	}
	assert.Contains(t, reasons[""], "missing sku_code")
	assert.Contains(t, reasons["SKU-NEG"], "negative stock")
	assert.Contains(t, reasons["SKU-NEGQPD"], "negative demand rate")
	assert.Contains(t, reasons["SKU-DEAD"], "zero demand rate")
	assert.Contains(t, reasons["SKU-LEAD"], "non-positive lead time")
}

func TestLoadMissingRequiredColumn(t *testing.T) {
	path := writeTempCSV(t, `sku_code,product_name,stock,lead_time_days
SKU-A,Widget,100,5
`)

	_, _, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "qpd")
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}
