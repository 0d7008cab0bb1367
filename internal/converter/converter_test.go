package converter

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/onix-export/internal/config"
	"github.com/ginjaninja78/onix-export/internal/onix"
	"github.com/ginjaninja78/onix-export/internal/validation"
	"github.com/ginjaninja78/onix-export/internal/xlsxparser"
)

var fixedClock = func() time.Time { return time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC) }

var catalogueHeaders = []any{
	"id13", "titre_norm", "sous_titre_norm", "contributeurs_onix",
	"Largeur", "Hauteur", "Poids", "Nombre de pages (pages totales imprimées)",
	"date_parution_norm", "price", "availability_label",
	"Sujet THEMA principal", "URL image de couverture", "Description courte", "active_onix",
}

var catalogueRows = [][]any{
	{"9782123456789", "Le titre", "Un sous-titre", "Dupont, Claire, A01", "14", "21", "300", "240",
		"2024-03-15", "19,90", "en stock", "FBA", "https://example.com/c.jpg", "Court résumé", "1"},
	{"9782123456796", "", "", "", "", "", "", "", "", "", "", "", "", "", "1"},
	{"9782123456802", "Inactif", "", "", "", "", "", "", "", "12", "", "", "", "", "0"},
	{"9782123456819", "Sans prix", "", "", "", "", "", "", "2025-01-10", "", "à paraître", "", "http://x/a b.jpg", "", ""},
}

type sheet struct {
	name string
	rows [][]any
}

func writeWorkbook(t *testing.T, sheets ...sheet) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", s.name))
		} else {
			_, err := f.NewSheet(s.name)
			require.NoError(t, err)
		}
		for r, row := range s.rows {
			if row == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(s.name, cell, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "catalogue.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func masterSheet(name string) sheet {
	return sheet{name: name, rows: append([][]any{catalogueHeaders}, catalogueRows...)}
}

func configSheet(pairs ...string) sheet {
	rows := [][]any{{"key", "value"}}
	for i := 0; i+1 < len(pairs); i += 2 {
		rows = append(rows, []any{pairs[i], pairs[i+1]})
	}
	return sheet{name: "CONFIG", rows: rows}
}

func export(t *testing.T, req Request) (Result, string) {
	t.Helper()
	if req.OutputPath == "" {
		req.OutputPath = filepath.Join(t.TempDir(), "onix.xml")
	}
	result, err := Export(req, WithClock(fixedClock))
	require.NoError(t, err)
	data, err := os.ReadFile(result.OutputPath)
	require.NoError(t, err)
	return result, string(data)
}

func decode(t *testing.T, data string) onix.Message {
	t.Helper()
	var msg onix.Message
	require.NoError(t, xml.Unmarshal([]byte(data), &msg))
	return msg
}

func TestExportWorkbook(t *testing.T) {
	input := writeWorkbook(t, masterSheet("Master_Site"), configSheet("onix_sender_name", "Presses Test"))
	report := filepath.Join(t.TempDir(), "onix_QA.csv")

	result, out := export(t, Request{InputPath: input, ReportPath: report})

	assert.Equal(t, "Master_Site", result.Sheet)
	assert.Equal(t, 4, result.Stats.RowsRead)
	assert.Equal(t, 2, result.Stats.Exported)
	assert.Equal(t, 1, result.Stats.Inactive)
	assert.Equal(t, 1, result.Stats.Skipped)
	assert.Equal(t, 2, result.Stats.Warnings)
	assert.Equal(t, report, result.ReportPath)

	require.Len(t, result.Issues, 3)
	assert.Equal(t, validation.MsgMissingIdentifierOrTitle, result.Issues[0].Text)
	assert.Equal(t, 1, result.Issues[0].RowIndex)
	assert.Equal(t, "9782123456796", result.Issues[0].ISBN13)
	assert.Equal(t, 3, result.Issues[1].RowIndex)
	assert.Contains(t, result.Issues[1].Text, "invalid cover URL")
	assert.Contains(t, result.Issues[2].Text, "UnpricedItemType=02")

	assert.Contains(t, out, "<SenderName>Presses Test</SenderName>")
	assert.Contains(t, out, "<SentDateTime>20240315T0930</SentDateTime>")
	assert.NotContains(t, out, "9782123456802")
	assert.NotContains(t, out, "9782123456796")

	reportData, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(reportData), "\n"))

	check, err := validation.CheckDocument(strings.NewReader(out))
	require.NoError(t, err)
	assert.True(t, check.OK(), "%v", check.Violations)
	assert.Equal(t, 2, check.Products)
}

func TestExportElementOrder(t *testing.T) {
	input := writeWorkbook(t, masterSheet("Master_Site"))
	_, out := export(t, Request{InputPath: input})

	first := out[strings.Index(out, "<Product>"):strings.Index(out, "</Product>")]
	measure := strings.Index(first, "<Measure>")
	title := strings.Index(first, "<TitleDetail>")
	contributor := strings.Index(first, "<Contributor>")

	require.NotEqual(t, -1, measure)
	assert.Less(t, measure, title)
	assert.Less(t, title, contributor)
	assert.NotContains(t, first, "<NoContributor")
}

func TestExportPriceOrUnpriced(t *testing.T) {
	input := writeWorkbook(t, masterSheet("Master_Site"))
	_, out := export(t, Request{InputPath: input})

	msg := decode(t, out)
	require.Len(t, msg.Products, 2)
	for _, p := range msg.Products {
		sd := p.ProductSupply.SupplyDetail
		assert.True(t, (sd.Price != nil) != (sd.UnpricedItemType != ""), p.RecordReference)
	}

	priced := msg.Products[0].ProductSupply.SupplyDetail
	require.NotNil(t, priced.Price)
	assert.Equal(t, "19.9", priced.Price.PriceAmount)
	assert.Equal(t, "EUR", priced.Price.CurrencyCode)
	assert.Nil(t, priced.Price.Tax)
	assert.Equal(t, "21", priced.ProductAvailability)

	unpriced := msg.Products[1].ProductSupply.SupplyDetail
	assert.Equal(t, "02", unpriced.UnpricedItemType)
	assert.Equal(t, "10", unpriced.ProductAvailability)
	require.Len(t, unpriced.SupplyDates, 1)
	assert.Equal(t, "20250110", unpriced.SupplyDates[0].Date)
}

func TestExportInvalidCoverURL(t *testing.T) {
	input := writeWorkbook(t, masterSheet("Master_Site"))
	_, out := export(t, Request{InputPath: input})

	assert.Equal(t, 1, strings.Count(out, "<ResourceLink>"))
	assert.NotContains(t, out, "a b.jpg")

	msg := decode(t, out)
	assert.Nil(t, msg.Products[1].CollateralDetail)
}

func TestExportTaxBlock(t *testing.T) {
	input := writeWorkbook(t, masterSheet("Master_Site"), configSheet(
		"onix_default_tax_rate_percent", "5.5",
		"onix_default_currency", "chf",
	))
	_, out := export(t, Request{InputPath: input})

	price := out[strings.Index(out, "<Price>"):strings.Index(out, "</Price>")]
	assert.Less(t, strings.Index(price, "<PriceAmount>"), strings.Index(price, "<Tax>"))
	assert.Less(t, strings.Index(price, "</Tax>"), strings.Index(price, "<CurrencyCode>CHF</CurrencyCode>"))
	assert.Contains(t, price, "<TaxRatePercent>5.5</TaxRatePercent>")
}

func TestExportDefaultsWithoutConfigSheet(t *testing.T) {
	input := writeWorkbook(t, masterSheet("Master_Site"))
	result, out := export(t, Request{InputPath: input})

	assert.Equal(t, config.DefaultPublisherConfig(), result.Publisher)
	assert.Contains(t, out, "<SenderName>Publisher</SenderName>")
	assert.Contains(t, out, `release="3.0"`)
}

func TestExportIdempotent(t *testing.T) {
	input := writeWorkbook(t, masterSheet("Master_Site"), configSheet("onix_sender_name", "Presses Test"))
	_, first := export(t, Request{InputPath: input})
	_, second := export(t, Request{InputPath: input})
	assert.Equal(t, first, second)
}

func TestExportSheetResolution(t *testing.T) {
	t.Run("books_sheet from config", func(t *testing.T) {
		input := writeWorkbook(t, masterSheet("Master_Site"), masterSheet("Catalogue"), configSheet("books_sheet", "Catalogue"))
		result, _ := export(t, Request{InputPath: input})
		assert.Equal(t, "Catalogue", result.Sheet)
	})

	t.Run("explicit sheet wins", func(t *testing.T) {
		input := writeWorkbook(t, masterSheet("Master_Site"), masterSheet("Catalogue"), configSheet("books_sheet", "Catalogue"))
		result, _ := export(t, Request{InputPath: input, MasterSheet: "Master_Site"})
		assert.Equal(t, "Master_Site", result.Sheet)
	})

	t.Run("detected by columns", func(t *testing.T) {
		notes := sheet{name: "Notes", rows: [][]any{{"remarque"}, {"rien"}}}
		input := writeWorkbook(t, notes, configSheet(), masterSheet("Livres"))
		result, _ := export(t, Request{InputPath: input})
		assert.Equal(t, "Livres", result.Sheet)
	})

	t.Run("missing explicit sheet", func(t *testing.T) {
		input := writeWorkbook(t, masterSheet("Master_Site"))
		_, err := Export(Request{InputPath: input, MasterSheet: "Absent", OutputPath: filepath.Join(t.TempDir(), "o.xml")})
		require.Error(t, err)
		assert.True(t, errors.Is(err, xlsxparser.ErrSheetNotFound))
	})
}

// writeCSV writes rows as a semicolon CSV. A nil row becomes an empty line.
func writeCSV(t *testing.T, rows [][]any) string {
	t.Helper()

	var buf bytes.Buffer
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = `"` + v.(string) + `"`
		}
		buf.WriteString(strings.Join(cells, ";") + "\n")
	}
	path := filepath.Join(t.TempDir(), "catalogue.csv")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestExportCSVMatchesWorkbook(t *testing.T) {
	input := writeWorkbook(t, masterSheet("Master_Site"))
	_, fromWorkbook := export(t, Request{InputPath: input})

	csvPath := writeCSV(t, append([][]any{catalogueHeaders}, catalogueRows...))

	result, fromCSV := export(t, Request{InputPath: csvPath})
	assert.Equal(t, "catalogue", result.Sheet)
	assert.Equal(t, fromWorkbook, fromCSV)
}

func TestExportBlankRowKeepsRowIndex(t *testing.T) {
	rows := [][]any{catalogueHeaders, catalogueRows[0], nil}
	rows = append(rows, catalogueRows[1:]...)

	fromWorkbook, _ := export(t, Request{InputPath: writeWorkbook(t, sheet{name: "Master_Site", rows: rows})})
	fromCSV, _ := export(t, Request{InputPath: writeCSV(t, rows)})

	for _, result := range []Result{fromWorkbook, fromCSV} {
		assert.Equal(t, 4, result.Stats.RowsRead)
		require.Len(t, result.Issues, 3)
		assert.Equal(t, 2, result.Issues[0].RowIndex)
		assert.Equal(t, 4, result.Issues[1].RowIndex)
		assert.Equal(t, 4, result.Issues[2].RowIndex)
	}
	assert.Equal(t, fromWorkbook.Issues, fromCSV.Issues)
}

func TestExportLogsIssues(t *testing.T) {
	var buf bytes.Buffer
	input := writeWorkbook(t, masterSheet("Master_Site"))

	_, err := Export(Request{InputPath: input, OutputPath: filepath.Join(t.TempDir(), "onix.xml")},
		WithClock(fixedClock), WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	require.NoError(t, err)

	logs := buf.String()
	assert.Contains(t, logs, "[ERROR] row 1 9782123456796")
	assert.Contains(t, logs, "[WARNING] row 3 9782123456819")
	assert.Contains(t, logs, `"issues":3`)
}

func TestExportExternalPublisherConfig(t *testing.T) {
	input := writeWorkbook(t, masterSheet("Master_Site"), configSheet("onix_sender_name", "Interne"))
	cfgPath := filepath.Join(t.TempDir(), "publisher.csv")
	require.NoError(t, os.WriteFile(cfgPath, []byte("key,value\nonix_sender_name,Externe\n"), 0o644))

	result, out := export(t, Request{InputPath: input, PublisherConfigPath: cfgPath})
	assert.Equal(t, "Externe", result.Publisher.SenderName)
	assert.Contains(t, out, "<SenderName>Externe</SenderName>")
}

func TestExportErrors(t *testing.T) {
	_, err := Export(Request{InputPath: "catalogue.xlsx"})
	assert.ErrorIs(t, err, ErrNoOutputPath)

	_, err = Export(Request{
		InputPath:  filepath.Join(t.TempDir(), "missing.xlsx"),
		OutputPath: filepath.Join(t.TempDir(), "o.xml"),
	})
	assert.Error(t, err)
}
