package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	t.Run("canonical headers", func(t *testing.T) {
		sheet := "country,max_weight,option_code,option_name,price,days\n" +
			"US,1,std,Standard,4.50,3\n" +
			"us,5,express,Express,15.00,1\n"

		rows, err := readCSV(strings.NewReader(sheet))
		require.NoError(t, err)
		require.Len(t, rows, 2)

		assert.Equal(t, "US", rows[0].CountryCode)
		assert.True(t, rows[0].MaxWeight.Equal(decimal.NewFromInt(1)))
		assert.Equal(t, "std", rows[0].OptionCode)
		assert.Equal(t, "Standard", rows[0].OptionName)
		assert.True(t, rows[0].Price.Equal(decimal.NewFromFloat(4.50)))
		assert.Equal(t, "3", rows[0].EstimatedDays)

		// country codes are uppercased on the way in
		assert.Equal(t, "US", rows[1].CountryCode)
	})

	t.Run("merchant header variants are accepted", func(t *testing.T) {
		sheet := "Destination,Weight To,Service,Service Name,Rate,Delivery-Days\n" +
			"CA,5,std,Standard,12.00,5\n"

		rows, err := readCSV(strings.NewReader(sheet))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "CA", rows[0].CountryCode)
		assert.True(t, rows[0].Price.Equal(decimal.NewFromFloat(12.00)))
		assert.Equal(t, "5", rows[0].EstimatedDays)
	})

	t.Run("optional columns may be absent", func(t *testing.T) {
		sheet := "country,max_weight,option_code,price\n" +
			"US,1,std,4.50\n"

		rows, err := readCSV(strings.NewReader(sheet))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Empty(t, rows[0].OptionName)
		assert.Empty(t, rows[0].EstimatedDays)
	})

	t.Run("missing required column", func(t *testing.T) {
		sheet := "country,option_code,price\nUS,std,4.50\n"

		_, err := readCSV(strings.NewReader(sheet))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_weight")
	})

	t.Run("bad price reports the line", func(t *testing.T) {
		sheet := "country,max_weight,option_code,price\n" +
			"US,1,std,4.50\n" +
			"US,5,std,free\n"

		_, err := readCSV(strings.NewReader(sheet))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 3")
		assert.Contains(t, err.Error(), "invalid price")
	})

	t.Run("missing country code", func(t *testing.T) {
		sheet := "country,max_weight,option_code,price\n" +
			",1,std,4.50\n"

		_, err := readCSV(strings.NewReader(sheet))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "country code")
	})
}

func TestReadRateSheet(t *testing.T) {
	t.Run("dispatches csv by extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rates.CSV")
		sheet := "country,max_weight,option_code,price\nUS,1,std,4.50\n"
		require.NoError(t, os.WriteFile(path, []byte(sheet), 0o644))

		rows, err := ReadRateSheet(path)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		_, err := ReadRateSheet("rates.pdf")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported rate sheet format")
	})
}
