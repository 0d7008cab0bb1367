package config

import (
	"strings"

	"github.com/ginjaninja78/onix-export/internal/normalize"
	"github.com/ginjaninja78/onix-export/internal/types"
)

// Sheet names used when nothing else is configured.
const (
	DefaultMasterSheet = "Master_Site"
	DefaultConfigSheet = "CONFIG"
)

// Keys recognized in the CONFIG sheet. Any other key is ignored.
const (
	KeyRelease              = "onix_release"
	KeySenderName           = "onix_sender_name"
	KeyPublisherName        = "onix_publisher_name"
	KeyImprintName          = "onix_imprint_name"
	KeyLanguage             = "onix_default_language_of_text"
	KeyCurrency             = "onix_default_currency"
	KeyPriceType            = "onix_default_price_type"
	KeyTaxType              = "onix_default_tax_type"
	KeyTaxRateCode          = "onix_default_tax_rate_code"
	KeyTaxRatePercent       = "onix_default_tax_rate_percent"
	KeyMarketCountries      = "onix_default_market_countries_included"
	KeyCountryOfPublication = "onix_country_of_publication"
	KeyUnpricedItemType     = "onix_default_unpriced_item_type"
	KeyBooksSheet           = "books_sheet"
)

// PublisherConfig holds the defaults applied to every product of one
// export. It is built once and never modified afterwards.
type PublisherConfig struct {
	Release              string
	SenderName           string
	PublisherName        string
	ImprintName          string
	Language             string
	Currency             string
	PriceType            string
	TaxType              string
	TaxRateCode          string
	TaxRatePercent       string // "" means no Tax block
	MarketCountries      string
	CountryOfPublication string
	UnpricedItemType     string

	// BooksSheet optionally names the master catalogue sheet.
	BooksSheet string
}

// HasTax reports whether a tax rate was configured.
func (c PublisherConfig) HasTax() bool {
	return c.TaxRatePercent != ""
}

// DefaultPublisherConfig returns the configuration used when the CONFIG
// sheet is missing or empty.
func DefaultPublisherConfig() PublisherConfig {
	return NewPublisherConfig(nil)
}

// NewPublisherConfig resolves raw key/value pairs into a PublisherConfig,
// substituting defaults for missing or blank values. Publisher name
// defaults to the sender name and imprint name to the publisher name.
func NewPublisherConfig(values map[string]string) PublisherConfig {
	get := func(key, def string) string {
		if v, ok := normalize.Text(values[key]); ok {
			return v
		}
		return def
	}
	code := func(key, def string) string {
		return padCode(get(key, def))
	}

	c := PublisherConfig{
		Release:              releaseValue(get(KeyRelease, "3.0")),
		SenderName:           get(KeySenderName, "Publisher"),
		Language:             get(KeyLanguage, "fre"),
		Currency:             strings.ToUpper(get(KeyCurrency, "EUR")),
		PriceType:            code(KeyPriceType, "04"),
		TaxType:              code(KeyTaxType, "01"),
		TaxRateCode:          get(KeyTaxRateCode, "R"),
		MarketCountries:      get(KeyMarketCountries, "FR"),
		CountryOfPublication: get(KeyCountryOfPublication, "FR"),
		UnpricedItemType:     code(KeyUnpricedItemType, "02"),
		BooksSheet:           get(KeyBooksSheet, ""),
	}
	c.PublisherName = get(KeyPublisherName, c.SenderName)
	c.ImprintName = get(KeyImprintName, c.PublisherName)

	if v, ok := normalize.Decimal(values[KeyTaxRatePercent]); ok && v >= 0 {
		c.TaxRatePercent = normalize.FormatDecimal(v)
	}

	return c
}

// ReadPublisherConfig reads the key/value CONFIG table.
//
// The key and value columns are found by header ("key"/"value", or
// "clé"/"cle"/"valeur", case and accents ignored). When either header is
// missing the first two columns are used. A nil table, or one with fewer
// than two columns, yields the defaults. Rows with a blank key are skipped.
func ReadPublisherConfig(table *types.Table) PublisherConfig {
	return NewPublisherConfig(readKeyValues(table))
}

func readKeyValues(table *types.Table) map[string]string {
	if table == nil {
		return nil
	}

	keyCol, valCol := -1, -1
	for i, h := range table.Headers {
		switch normalize.Fold(h) {
		case "key", "cle":
			if keyCol < 0 {
				keyCol = i
			}
		case "value", "valeur":
			if valCol < 0 {
				valCol = i
			}
		}
	}

	if keyCol < 0 || valCol < 0 {
		if len(table.Headers) < 2 {
			return nil
		}
		keyCol, valCol = 0, 1
	}

	values := make(map[string]string)
	for r := range table.Rows {
		k, ok := normalize.Text(table.Cell(r, keyCol))
		if !ok {
			continue
		}
		values[k] = table.Cell(r, valCol)
	}
	return values
}

// padCode restores the leading zero of two-digit code list values that a
// spreadsheet stored as numbers ("4" -> "04").
func padCode(v string) string {
	if len(v) == 1 && v[0] >= '0' && v[0] <= '9' {
		return "0" + v
	}
	return v
}

// releaseValue keeps "3.0" when a spreadsheet stored the release as the
// number 3.
func releaseValue(v string) string {
	if !strings.Contains(v, ".") {
		return v + ".0"
	}
	return v
}
