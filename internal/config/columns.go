package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ColumnMapping names the master sheet header for each catalogue field.
//
// Headers are matched ignoring case, accents and surrounding spaces. A
// mapping file only needs the fields that differ from the defaults:
//
//	identifier: ISBN
//	title: Titre
//	price: Prix public
type ColumnMapping struct {
	Identifier string `yaml:"identifier"`
	Title      string `yaml:"title"`
	Subtitle   string `yaml:"subtitle"`

	Contributors string `yaml:"contributors"`
	Authors      string `yaml:"authors"`
	Editors      string `yaml:"editors"`
	Translators  string `yaml:"translators"`
	Compilers    string `yaml:"compilers"`

	ProductForm        string `yaml:"product_form"`
	ProductFormDetails string `yaml:"product_form_details"`

	Width     string `yaml:"width"`
	Height    string `yaml:"height"`
	Thickness string `yaml:"thickness"`
	Weight    string `yaml:"weight"`
	Pages     string `yaml:"pages"`

	PublicationDate string `yaml:"publication_date"`

	Price         string `yaml:"price"`
	PriceFallback string `yaml:"price_fallback"`

	Availability      string `yaml:"availability"`
	AvailabilityLabel string `yaml:"availability_label"`

	Thema string `yaml:"thema"`
	CLIL  string `yaml:"clil"`
	BISAC string `yaml:"bisac"`

	CoverURL         string `yaml:"cover_url"`
	ShortDescription string `yaml:"short_description"`
	LongDescription  string `yaml:"long_description"`
	TableOfContents  string `yaml:"table_of_contents"`

	ActiveOnix string `yaml:"active_onix"`
	ActiveSite string `yaml:"active_site"`
}

// DefaultColumnMapping returns the headers of the standard master sheet.
func DefaultColumnMapping() ColumnMapping {
	return ColumnMapping{
		Identifier: "id13",
		Title:      "titre_norm",
		Subtitle:   "sous_titre_norm",

		Contributors: "contributeurs_onix",
		Authors:      "auteurs_onix",
		Editors:      "direction_onix",
		Translators:  "traduction_onix",
		Compilers:    "compilation_onix",

		ProductForm:        "Code support",
		ProductFormDetails: "Product form detail",

		Width:     "Largeur",
		Height:    "Hauteur",
		Thickness: "Epaisseur",
		Weight:    "Poids",
		Pages:     "Nombre de pages (pages totales imprimées)",

		PublicationDate: "date_parution_norm",

		Price:         "price",
		PriceFallback: "prix_ttc",

		Availability:      "availability",
		AvailabilityLabel: "availability_label",

		Thema: "Sujet THEMA principal",
		CLIL:  "Sujet CLIL principal",
		BISAC: "Sujet BISAC principal",

		CoverURL:         "URL image de couverture",
		ShortDescription: "Description courte",
		LongDescription:  "Description longue",
		TableOfContents:  "Table des matières",

		ActiveOnix: "active_onix",
		ActiveSite: "active_site",
	}
}

// LoadColumnMapping reads a YAML mapping file over the defaults. An empty
// path returns the defaults.
func LoadColumnMapping(path string) (ColumnMapping, error) {
	m := DefaultColumnMapping()
	if path == "" {
		return m, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return m, errors.Wrapf(err, "reading column mapping %s", path)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, errors.WithHint(
			errors.Wrapf(err, "parsing column mapping %s", path),
			"the file must be a flat YAML map such as `title: Titre`",
		)
	}
	return m, nil
}
