// Package onix models the subset of the ONIX for Books 3.0 reference tag
// schema written by the exporter.
//
// The schema is sequence-based: child elements must appear in a fixed
// order. encoding/xml marshals struct fields in declaration order, so the
// field order of every type below IS the element order on the wire. Do not
// reorder fields.
package onix

import "encoding/xml"

// Namespace of ONIX 3.0 reference tags.
const Namespace = "http://ns.editeur.org/onix/3.0/reference"

// Code list values used by the exporter.
const (
	NotificationConfirmed = "03"
	ProductIDTypeISBN13   = "15"
	CompositionSingleItem = "00"
	DefaultProductForm    = "BC"

	MeasureHeight    = "01"
	MeasureWidth     = "02"
	MeasureThickness = "03"
	MeasureWeight    = "08"
	UnitCentimetres  = "cm"
	UnitGrams        = "gr"

	TitleTypeDistinctive = "01"
	TitleLevelProduct    = "01"
	LanguageRoleText     = "01"

	ExtentTypeMainContent = "00"
	ExtentUnitPages       = "03"

	SubjectSchemeBISAC = "10"
	SubjectSchemeCLIL  = "29"
	SubjectSchemeThema = "93"

	TextTypeShortDescription = "02"
	TextTypeDescription      = "03"
	TextTypeTableOfContents  = "04"
	AudienceUnrestricted     = "00"

	ResourceFrontCover   = "01"
	ResourceModeImage    = "03"
	ResourceFormDownload = "02"

	PublishingRolePublisher = "01"
	PublishingDatePublished = "01"

	SupplierRolePublisherNonExclusive = "09"
	SupplyDateExpectedAvailability    = "08"
)

// Flag is an empty marker element such as <NoContributor/>.
type Flag struct{}

// Message is the ONIXMessage root.
type Message struct {
	XMLName  xml.Name   `xml:"http://ns.editeur.org/onix/3.0/reference ONIXMessage"`
	Release  string     `xml:"release,attr"`
	Header   Header     `xml:"Header"`
	Products []*Product `xml:"Product"`
}

type Header struct {
	Sender       Sender `xml:"Sender"`
	SentDateTime string `xml:"SentDateTime"`
}

type Sender struct {
	SenderName string `xml:"SenderName"`
}

// Product is one catalogue record.
type Product struct {
	RecordReference    string              `xml:"RecordReference"`
	NotificationType   string              `xml:"NotificationType"`
	ProductIdentifiers []ProductIdentifier `xml:"ProductIdentifier"`
	DescriptiveDetail  DescriptiveDetail   `xml:"DescriptiveDetail"`
	CollateralDetail   *CollateralDetail   `xml:"CollateralDetail,omitempty"`
	PublishingDetail   PublishingDetail    `xml:"PublishingDetail"`
	ProductSupply      ProductSupply       `xml:"ProductSupply"`
}

type ProductIdentifier struct {
	ProductIDType string `xml:"ProductIDType"`
	IDValue       string `xml:"IDValue"`
}

// =============================================================================
// DESCRIPTIVE DETAIL
// =============================================================================

// DescriptiveDetail: measures precede the title, contributors (or the
// NoContributor marker) follow it.
type DescriptiveDetail struct {
	ProductComposition string        `xml:"ProductComposition"`
	ProductForm        string        `xml:"ProductForm"`
	ProductFormDetails []string      `xml:"ProductFormDetail"`
	Measures           []Measure     `xml:"Measure"`
	TitleDetail        TitleDetail   `xml:"TitleDetail"`
	Contributors       []Contributor `xml:"Contributor"`
	NoContributor      *Flag         `xml:"NoContributor,omitempty"`
	Languages          []Language    `xml:"Language"`
	Extents            []Extent      `xml:"Extent"`
	Subjects           []Subject     `xml:"Subject"`
}

type Measure struct {
	MeasureType     string `xml:"MeasureType"`
	Measurement     string `xml:"Measurement"`
	MeasureUnitCode string `xml:"MeasureUnitCode"`
}

type TitleDetail struct {
	TitleType    string       `xml:"TitleType"`
	TitleElement TitleElement `xml:"TitleElement"`
}

type TitleElement struct {
	TitleElementLevel string `xml:"TitleElementLevel"`
	TitleText         string `xml:"TitleText"`
	Subtitle          string `xml:"Subtitle,omitempty"`
}

type Contributor struct {
	SequenceNumber     int      `xml:"SequenceNumber"`
	ContributorRoles   []string `xml:"ContributorRole"`
	PersonNameInverted string   `xml:"PersonNameInverted"`
}

type Language struct {
	LanguageRole string `xml:"LanguageRole"`
	LanguageCode string `xml:"LanguageCode"`
}

type Extent struct {
	ExtentType  string `xml:"ExtentType"`
	ExtentValue string `xml:"ExtentValue"`
	ExtentUnit  string `xml:"ExtentUnit"`
}

type Subject struct {
	MainSubject             *Flag  `xml:"MainSubject,omitempty"`
	SubjectSchemeIdentifier string `xml:"SubjectSchemeIdentifier"`
	SubjectCode             string `xml:"SubjectCode"`
}

// =============================================================================
// COLLATERAL DETAIL
// =============================================================================

type CollateralDetail struct {
	TextContents        []TextContent        `xml:"TextContent"`
	SupportingResources []SupportingResource `xml:"SupportingResource"`
}

// IsEmpty reports whether the block has no children. The schema requires
// at least one.
func (c *CollateralDetail) IsEmpty() bool {
	return c == nil || (len(c.TextContents) == 0 && len(c.SupportingResources) == 0)
}

type TextContent struct {
	TextType        string `xml:"TextType"`
	ContentAudience string `xml:"ContentAudience"`
	Text            string `xml:"Text"`
}

type SupportingResource struct {
	ResourceContentType string            `xml:"ResourceContentType"`
	ContentAudience     string            `xml:"ContentAudience"`
	ResourceMode        string            `xml:"ResourceMode"`
	ResourceVersions    []ResourceVersion `xml:"ResourceVersion"`
}

type ResourceVersion struct {
	ResourceForm string `xml:"ResourceForm"`
	ResourceLink string `xml:"ResourceLink"`
}

// =============================================================================
// PUBLISHING DETAIL
// =============================================================================

type PublishingDetail struct {
	Imprint              Imprint          `xml:"Imprint"`
	Publisher            Publisher        `xml:"Publisher"`
	CountryOfPublication string           `xml:"CountryOfPublication,omitempty"`
	PublishingDates      []PublishingDate `xml:"PublishingDate"`
}

type Imprint struct {
	ImprintName string `xml:"ImprintName"`
}

type Publisher struct {
	PublishingRole string `xml:"PublishingRole"`
	PublisherName  string `xml:"PublisherName"`
}

type PublishingDate struct {
	PublishingDateRole string `xml:"PublishingDateRole"`
	Date               string `xml:"Date"`
}

// =============================================================================
// PRODUCT SUPPLY
// =============================================================================

type ProductSupply struct {
	Market       Market       `xml:"Market"`
	SupplyDetail SupplyDetail `xml:"SupplyDetail"`
}

type Market struct {
	Territory Territory `xml:"Territory"`
}

type Territory struct {
	CountriesIncluded string `xml:"CountriesIncluded"`
}

// SupplyDetail: Supplier precedes ProductAvailability, and exactly one of
// UnpricedItemType or Price is set.
type SupplyDetail struct {
	Supplier            Supplier     `xml:"Supplier"`
	ProductAvailability string       `xml:"ProductAvailability"`
	SupplyDates         []SupplyDate `xml:"SupplyDate"`
	UnpricedItemType    string       `xml:"UnpricedItemType,omitempty"`
	Price               *Price       `xml:"Price,omitempty"`
}

type Supplier struct {
	SupplierRole string `xml:"SupplierRole"`
	SupplierName string `xml:"SupplierName"`
}

type SupplyDate struct {
	SupplyDateRole string `xml:"SupplyDateRole"`
	Date           string `xml:"Date"`
}

// Price: Tax, when present, precedes CurrencyCode.
type Price struct {
	PriceType    string `xml:"PriceType"`
	PriceAmount  string `xml:"PriceAmount"`
	Tax          *Tax   `xml:"Tax,omitempty"`
	CurrencyCode string `xml:"CurrencyCode"`
}

type Tax struct {
	TaxType        string `xml:"TaxType"`
	TaxRateCode    string `xml:"TaxRateCode"`
	TaxRatePercent string `xml:"TaxRatePercent"`
}
