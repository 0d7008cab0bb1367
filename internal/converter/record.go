// =============================================================================
// ONIX Export - Record Exporter
// =============================================================================
//
// BuildProduct turns one catalogue row into one ONIX Product. Elements are
// filled in schema order:
//
//   RecordReference, NotificationType, ProductIdentifier
//   DescriptiveDetail
//     ProductComposition, ProductForm, ProductFormDetail*
//     Measure*                        (before the title)
//     TitleDetail
//     Contributor* | NoContributor    (after the title, never both)
//     Language, Extent?, Subject*
//   CollateralDetail?                 (omitted when it would be empty)
//     TextContent*, SupportingResource?
//   PublishingDetail
//     Imprint, Publisher, CountryOfPublication, PublishingDate?
//   ProductSupply
//     Market
//     SupplyDetail
//       Supplier, ProductAvailability, SupplyDate?
//       Price (Tax? before CurrencyCode) | UnpricedItemType
//
// FIELD POLICY:
//   - no identifier or no title   -> no product, one issue
//   - invalid cover URL           -> resource dropped, one issue
//   - missing/invalid price       -> UnpricedItemType, one issue
//   - bad measure, date, pages    -> element dropped silently
//
// =============================================================================

package converter

import (
	"strconv"

	"github.com/ginjaninja78/onix-export/internal/config"
	"github.com/ginjaninja78/onix-export/internal/normalize"
	"github.com/ginjaninja78/onix-export/internal/onix"
	"github.com/ginjaninja78/onix-export/internal/types"
	"github.com/ginjaninja78/onix-export/internal/validation"
)

// IsActive reports whether a row takes part in the export. active_onix is
// read first, then active_site; when both are blank the row is active.
func IsActive(row types.CatalogueRow) bool {
	flag, ok := normalize.FirstText(row.ActiveOnix, row.ActiveSite)
	if !ok {
		return true
	}
	return normalize.Bool(flag)
}

// BuildProduct builds the Product for row. It returns a nil product and a
// single issue when the row lacks an identifier or a title.
func BuildProduct(row types.CatalogueRow, cfg config.PublisherConfig) (*onix.Product, []validation.Issue) {
	isbn, hasISBN := normalize.Identifier(row.Identifier)
	title, hasTitle := normalize.Text(row.Title)
	if !hasISBN || !hasTitle {
		return nil, []validation.Issue{validation.MissingIdentifierOrTitle(row.Index, isbn, title)}
	}

	b := &recordBuilder{row: row, cfg: cfg, isbn: isbn, title: title}

	p := &onix.Product{
		RecordReference:  isbn,
		NotificationType: onix.NotificationConfirmed,
		ProductIdentifiers: []onix.ProductIdentifier{{
			ProductIDType: onix.ProductIDTypeISBN13,
			IDValue:       isbn,
		}},
	}

	pubDate, hasDate := normalize.Date(row.PublicationDate)

	p.DescriptiveDetail = b.descriptiveDetail()
	p.CollateralDetail = b.collateralDetail()
	p.PublishingDetail = b.publishingDetail(pubDate, hasDate)
	p.ProductSupply = b.productSupply(pubDate, hasDate)

	return p, b.issues
}

type recordBuilder struct {
	row    types.CatalogueRow
	cfg    config.PublisherConfig
	isbn   string
	title  string
	issues []validation.Issue
}

// =============================================================================
// DESCRIPTIVE DETAIL
// =============================================================================

func (b *recordBuilder) descriptiveDetail() onix.DescriptiveDetail {
	row := b.row

	form, ok := normalize.Text(row.ProductForm)
	if !ok {
		form = onix.DefaultProductForm
	}

	d := onix.DescriptiveDetail{
		ProductComposition: onix.CompositionSingleItem,
		ProductForm:        form,
		ProductFormDetails: normalize.Codes(row.ProductFormDetails),
	}

	for _, m := range []struct {
		kind, raw, unit string
	}{
		{onix.MeasureWidth, row.Width, onix.UnitCentimetres},
		{onix.MeasureHeight, row.Height, onix.UnitCentimetres},
		{onix.MeasureThickness, row.Thickness, onix.UnitCentimetres},
		{onix.MeasureWeight, row.Weight, onix.UnitGrams},
	} {
		if v, ok := normalize.Measure(m.raw); ok {
			d.Measures = append(d.Measures, onix.Measure{MeasureType: m.kind, Measurement: v, MeasureUnitCode: m.unit})
		}
	}

	subtitle, _ := normalize.Text(row.Subtitle)
	d.TitleDetail = onix.TitleDetail{
		TitleType: onix.TitleTypeDistinctive,
		TitleElement: onix.TitleElement{
			TitleElementLevel: onix.TitleLevelProduct,
			TitleText:         b.title,
			Subtitle:          subtitle,
		},
	}

	contributors := normalize.CombineContributors(row.Contributors, row.Authors, row.Editors, row.Translators, row.Compilers)
	for _, c := range contributors {
		d.Contributors = append(d.Contributors, onix.Contributor{
			SequenceNumber:     c.Sequence,
			ContributorRoles:   c.Roles,
			PersonNameInverted: c.Name,
		})
	}
	if len(d.Contributors) == 0 {
		d.NoContributor = &onix.Flag{}
	}

	d.Languages = []onix.Language{{LanguageRole: onix.LanguageRoleText, LanguageCode: b.cfg.Language}}

	if pages, ok := normalize.Pages(row.Pages); ok {
		d.Extents = []onix.Extent{{
			ExtentType:  onix.ExtentTypeMainContent,
			ExtentValue: strconv.Itoa(pages),
			ExtentUnit:  onix.ExtentUnitPages,
		}}
	}

	for _, s := range []struct{ scheme, raw string }{
		{onix.SubjectSchemeThema, row.Thema},
		{onix.SubjectSchemeCLIL, row.CLIL},
		{onix.SubjectSchemeBISAC, row.BISAC},
	} {
		code, ok := normalize.Text(s.raw)
		if !ok {
			continue
		}
		subject := onix.Subject{SubjectSchemeIdentifier: s.scheme, SubjectCode: code}
		if len(d.Subjects) == 0 {
			subject.MainSubject = &onix.Flag{}
		}
		d.Subjects = append(d.Subjects, subject)
	}

	return d
}

// =============================================================================
// COLLATERAL DETAIL
// =============================================================================

func (b *recordBuilder) collateralDetail() *onix.CollateralDetail {
	row := b.row
	c := &onix.CollateralDetail{}

	for _, tc := range []struct{ kind, raw string }{
		{onix.TextTypeShortDescription, row.ShortDescription},
		{onix.TextTypeDescription, row.LongDescription},
		{onix.TextTypeTableOfContents, row.TableOfContents},
	} {
		if text, ok := normalize.Text(tc.raw); ok {
			c.TextContents = append(c.TextContents, onix.TextContent{
				TextType:        tc.kind,
				ContentAudience: onix.AudienceUnrestricted,
				Text:            text,
			})
		}
	}

	if raw, present := normalize.Text(row.CoverURL); present {
		if link, ok := normalize.CoverURL(raw); ok {
			c.SupportingResources = append(c.SupportingResources, onix.SupportingResource{
				ResourceContentType: onix.ResourceFrontCover,
				ContentAudience:     onix.AudienceUnrestricted,
				ResourceMode:        onix.ResourceModeImage,
				ResourceVersions: []onix.ResourceVersion{{
					ResourceForm: onix.ResourceFormDownload,
					ResourceLink: link,
				}},
			})
		} else {
			b.issues = append(b.issues, validation.InvalidCoverURL(row.Index, b.isbn, b.title, raw))
		}
	}

	if c.IsEmpty() {
		return nil
	}
	return c
}

// =============================================================================
// PUBLISHING DETAIL
// =============================================================================

func (b *recordBuilder) publishingDetail(pubDate string, hasDate bool) onix.PublishingDetail {
	d := onix.PublishingDetail{
		Imprint: onix.Imprint{ImprintName: b.cfg.ImprintName},
		Publisher: onix.Publisher{
			PublishingRole: onix.PublishingRolePublisher,
			PublisherName:  b.cfg.PublisherName,
		},
		CountryOfPublication: b.cfg.CountryOfPublication,
	}
	if hasDate {
		d.PublishingDates = []onix.PublishingDate{{PublishingDateRole: onix.PublishingDatePublished, Date: pubDate}}
	}
	return d
}

// =============================================================================
// PRODUCT SUPPLY
// =============================================================================

func (b *recordBuilder) productSupply(pubDate string, hasDate bool) onix.ProductSupply {
	row := b.row

	label, _ := normalize.FirstText(row.Availability, row.AvailabilityLabel)
	availability := normalize.Availability(label)

	sd := onix.SupplyDetail{
		Supplier: onix.Supplier{
			SupplierRole: onix.SupplierRolePublisherNonExclusive,
			SupplierName: b.cfg.PublisherName,
		},
		ProductAvailability: availability,
	}

	if availability == normalize.AvailabilityNotYetAvailable && hasDate {
		sd.SupplyDates = []onix.SupplyDate{{SupplyDateRole: onix.SupplyDateExpectedAvailability, Date: pubDate}}
	}

	rawPrice, _ := normalize.FirstText(row.Price, row.PriceFallback)
	if amount, ok := normalize.Price(rawPrice); ok {
		price := &onix.Price{
			PriceType:    b.cfg.PriceType,
			PriceAmount:  normalize.FormatPrice(amount),
			CurrencyCode: b.cfg.Currency,
		}
		if b.cfg.HasTax() {
			price.Tax = &onix.Tax{
				TaxType:        b.cfg.TaxType,
				TaxRateCode:    b.cfg.TaxRateCode,
				TaxRatePercent: b.cfg.TaxRatePercent,
			}
		}
		sd.Price = price
	} else {
		sd.UnpricedItemType = b.cfg.UnpricedItemType
		b.issues = append(b.issues, validation.MissingPrice(row.Index, b.isbn, b.title, b.cfg.UnpricedItemType))
	}

	return onix.ProductSupply{
		Market:       onix.Market{Territory: onix.Territory{CountriesIncluded: b.cfg.MarketCountries}},
		SupplyDetail: sd,
	}
}
