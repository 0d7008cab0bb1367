// Package catalogue turns a raw master sheet into typed catalogue rows.
//
// Header positions are resolved once per table against the column mapping.
// A column that is not present resolves to "absent" and every row reads ""
// for it; missing columns are never an error.
package catalogue

import (
	"strings"

	"github.com/ginjaninja78/onix-export/internal/config"
	"github.com/ginjaninja78/onix-export/internal/normalize"
	"github.com/ginjaninja78/onix-export/internal/types"
)

const absent = -1

// Mapper holds the resolved column positions of one table.
type Mapper struct {
	identifier, title, subtitle                            int
	contributors, authors, editors, translators, compilers int
	productForm, productFormDetails                        int
	width, height, thickness, weight, pages                int
	publicationDate                                        int
	price, priceFallback                                   int
	availability, availabilityLabel                        int
	thema, clil, bisac                                     int
	coverURL, shortDescription, longDescription, toc       int
	activeOnix, activeSite                                 int

	missing []string
}

// NewMapper resolves every mapped header against headers. Matching ignores
// case, accents and repeated whitespace; the first matching column wins.
func NewMapper(headers []string, m config.ColumnMapping) *Mapper {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		key := headerKey(h)
		if key == "" {
			continue
		}
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	mp := &Mapper{}
	resolve := func(name string) int {
		if name == "" {
			return absent
		}
		if i, ok := index[headerKey(name)]; ok {
			return i
		}
		mp.missing = append(mp.missing, name)
		return absent
	}

	mp.identifier = resolve(m.Identifier)
	mp.title = resolve(m.Title)
	mp.subtitle = resolve(m.Subtitle)
	mp.contributors = resolve(m.Contributors)
	mp.authors = resolve(m.Authors)
	mp.editors = resolve(m.Editors)
	mp.translators = resolve(m.Translators)
	mp.compilers = resolve(m.Compilers)
	mp.productForm = resolve(m.ProductForm)
	mp.productFormDetails = resolve(m.ProductFormDetails)
	mp.width = resolve(m.Width)
	mp.height = resolve(m.Height)
	mp.thickness = resolve(m.Thickness)
	mp.weight = resolve(m.Weight)
	mp.pages = resolve(m.Pages)
	mp.publicationDate = resolve(m.PublicationDate)
	mp.price = resolve(m.Price)
	mp.priceFallback = resolve(m.PriceFallback)
	mp.availability = resolve(m.Availability)
	mp.availabilityLabel = resolve(m.AvailabilityLabel)
	mp.thema = resolve(m.Thema)
	mp.clil = resolve(m.CLIL)
	mp.bisac = resolve(m.BISAC)
	mp.coverURL = resolve(m.CoverURL)
	mp.shortDescription = resolve(m.ShortDescription)
	mp.longDescription = resolve(m.LongDescription)
	mp.toc = resolve(m.TableOfContents)
	mp.activeOnix = resolve(m.ActiveOnix)
	mp.activeSite = resolve(m.ActiveSite)

	return mp
}

// HasKeyColumns reports whether both the identifier and the title column
// were found.
func (mp *Mapper) HasKeyColumns() bool {
	return mp.identifier != absent && mp.title != absent
}

// Missing lists the mapped headers that were not found, in mapping order.
func (mp *Mapper) Missing() []string {
	return mp.missing
}

// Row maps one raw row. index is the 0-based data row position.
func (mp *Mapper) Row(index int, raw []string) types.CatalogueRow {
	get := func(col int) string {
		if col == absent || col >= len(raw) {
			return ""
		}
		return strings.TrimSpace(raw[col])
	}

	return types.CatalogueRow{
		Index:              index,
		Identifier:         get(mp.identifier),
		Title:              get(mp.title),
		Subtitle:           get(mp.subtitle),
		Contributors:       get(mp.contributors),
		Authors:            get(mp.authors),
		Editors:            get(mp.editors),
		Translators:        get(mp.translators),
		Compilers:          get(mp.compilers),
		ProductForm:        get(mp.productForm),
		ProductFormDetails: get(mp.productFormDetails),
		Width:              get(mp.width),
		Height:             get(mp.height),
		Thickness:          get(mp.thickness),
		Weight:             get(mp.weight),
		Pages:              get(mp.pages),
		PublicationDate:    get(mp.publicationDate),
		Price:              get(mp.price),
		PriceFallback:      get(mp.priceFallback),
		Availability:       get(mp.availability),
		AvailabilityLabel:  get(mp.availabilityLabel),
		Thema:              get(mp.thema),
		CLIL:               get(mp.clil),
		BISAC:              get(mp.bisac),
		CoverURL:           get(mp.coverURL),
		ShortDescription:   get(mp.shortDescription),
		LongDescription:    get(mp.longDescription),
		TableOfContents:    get(mp.toc),
		ActiveOnix:         get(mp.activeOnix),
		ActiveSite:         get(mp.activeSite),
	}
}

// Rows maps every non-blank row of table. Blank rows are skipped but still
// count towards the index of the rows after them.
func Rows(table *types.Table, m config.ColumnMapping) ([]types.CatalogueRow, *Mapper) {
	mp := NewMapper(table.Headers, m)

	rows := make([]types.CatalogueRow, 0, len(table.Rows))
	for i, raw := range table.Rows {
		if isBlank(raw) {
			continue
		}
		rows = append(rows, mp.Row(i, raw))
	}
	return rows, mp
}

func headerKey(h string) string {
	return strings.Join(strings.Fields(normalize.Fold(h)), " ")
}

func isBlank(raw []string) bool {
	for _, c := range raw {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
