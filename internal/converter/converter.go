// =============================================================================
// ONIX Export - Converter Module
// =============================================================================
//
// This module orchestrates the export of one catalogue workbook (or CSV
// extract) to one ONIX 3.0 file.
//
// EXPORT PIPELINE:
//   1. Open the input (XLSX workbook or CSV file)
//   2. Read the publisher configuration (CONFIG sheet, external file, or
//      built-in defaults)
//   3. Resolve and read the catalogue sheet
//   4. Map every data row onto the known catalogue columns
//   5. Skip inactive rows, build one Product per remaining row
//   6. Assemble the ONIXMessage and write it atomically
//   7. Write the QA report next to it
//
// CONCURRENCY:
//   A Converter handles exactly one input. Several converters may run in
//   parallel; they share no state.
//
// =============================================================================

package converter

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ginjaninja78/onix-export/internal/catalogue"
	"github.com/ginjaninja78/onix-export/internal/config"
	"github.com/ginjaninja78/onix-export/internal/csvparser"
	"github.com/ginjaninja78/onix-export/internal/onix"
	"github.com/ginjaninja78/onix-export/internal/types"
	"github.com/ginjaninja78/onix-export/internal/validation"
	"github.com/ginjaninja78/onix-export/internal/xlsxparser"
	"github.com/ginjaninja78/onix-export/internal/xmlwriter"
)

// ErrNoOutputPath is returned when a request does not say where to write.
var ErrNoOutputPath = errors.New("output path is required")

// =============================================================================
// REQUEST AND RESULT STRUCTURES
// =============================================================================

// Request describes one export.
type Request struct {
	// InputPath is the catalogue workbook (.xlsx, .xlsm) or CSV extract.
	InputPath string

	// OutputPath is where the ONIX file is written.
	OutputPath string

	// ReportPath is where the QA report is written. Empty means no report.
	ReportPath string

	// MasterSheet forces the catalogue sheet. When empty the sheet is
	// resolved from the CONFIG books_sheet key, then Master_Site, then the
	// first sheet carrying identifier and title columns.
	MasterSheet string

	// ConfigSheet is the key/value sheet holding the publisher settings.
	// Default: "CONFIG"
	ConfigSheet string

	// PublisherConfigPath optionally points at an external key/value file
	// (.csv or .xlsx) that replaces the workbook's CONFIG sheet.
	PublisherConfigPath string

	// Columns overrides the catalogue column headers. Nil means defaults.
	Columns *config.ColumnMapping

	// CSV controls how CSV inputs are decoded.
	CSV config.CSVSettings

	// Strict is accepted for compatibility and currently changes nothing.
	Strict bool
}

// Result represents the outcome of one export.
type Result struct {
	// InputPath is the input that was exported.
	InputPath string

	// OutputPath is the written ONIX file.
	OutputPath string

	// ReportPath is the written QA report, empty when none was requested.
	ReportPath string

	// Sheet is the catalogue sheet that was read.
	Sheet string

	// Publisher is the publisher configuration in effect.
	Publisher config.PublisherConfig

	// Issues lists every QA finding, in row order.
	Issues []validation.Issue

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about one export.
type ProcessingStats struct {
	// RowsRead is the number of non-blank catalogue rows.
	RowsRead int

	// Inactive is the number of rows filtered out by the active flags.
	Inactive int

	// Exported is the number of Product records written.
	Exported int

	// Skipped is the number of active rows with no identifier or title.
	Skipped int

	// Warnings is the number of warning issues.
	Warnings int

	// ProcessingTime is the time taken by the export.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter exports a single catalogue.
type Converter struct {
	req    Request
	logger zerolog.Logger
	now    func() time.Time
}

// Option customizes a Converter.
type Option func(*Converter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Converter) { c.logger = logger }
}

// WithClock replaces time.Now for the message SentDateTime.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) { c.now = now }
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a Converter for req.
func New(req Request, opts ...Option) *Converter {
	if req.ConfigSheet == "" {
		req.ConfigSheet = config.DefaultConfigSheet
	}
	c := &Converter{
		req:    req,
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With().
		Str("run", uuid.NewString()).
		Str("file", filepath.Base(req.InputPath)).
		Logger()
	return c
}

// Export is a shorthand for New(req, opts...).Run().
func Export(req Request, opts ...Option) (Result, error) {
	return New(req, opts...).Run()
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the export pipeline. Row-level problems end up in
// Result.Issues; only input, sheet and write failures return an error.
func (c *Converter) Run() (Result, error) {
	start := time.Now()
	result := Result{InputPath: c.req.InputPath}

	if c.req.OutputPath == "" {
		return result, ErrNoOutputPath
	}

	c.logger.Info().Msg("exporting catalogue")
	if c.req.Strict {
		c.logger.Debug().Msg("strict mode requested, no extra checks are applied")
	}

	// =========================================================================
	// STEP 1-3: LOAD SOURCE
	// =========================================================================

	src, err := c.loadSource()
	if err != nil {
		return result, err
	}
	result.Sheet = src.sheet
	result.Publisher = src.publisher

	log := c.logger.With().Str("sheet", src.sheet).Logger()

	// =========================================================================
	// STEP 4: MAP COLUMNS
	// =========================================================================

	columns := config.DefaultColumnMapping()
	if c.req.Columns != nil {
		columns = *c.req.Columns
	}

	rows, mapper := catalogue.Rows(src.table, columns)
	if missing := mapper.Missing(); len(missing) > 0 {
		log.Debug().Strs("columns", missing).Msg("columns not found, fields left empty")
	}
	if !mapper.HasKeyColumns() {
		log.Warn().Msg("identifier or title column not found, every row will be skipped")
	}
	result.Stats.RowsRead = len(rows)

	// =========================================================================
	// STEP 5: BUILD PRODUCTS
	// =========================================================================

	var (
		products  []*onix.Product
		collector validation.Collector
	)
	for _, row := range rows {
		if !IsActive(row) {
			result.Stats.Inactive++
			continue
		}

		product, issues := BuildProduct(row, src.publisher)
		collector.Add(issues...)
		for _, issue := range issues {
			log.Debug().Msg(issue.String())
		}
		if product == nil {
			result.Stats.Skipped++
			continue
		}
		products = append(products, product)
	}

	result.Issues = collector.Issues()
	result.Stats.Exported = len(products)
	_, result.Stats.Warnings = collector.Counts()

	// =========================================================================
	// STEP 6: WRITE ONIX FILE
	// =========================================================================

	msg := xmlwriter.NewMessage(src.publisher, c.now(), products)
	if err := xmlwriter.WriteFile(c.req.OutputPath, msg); err != nil {
		return result, err
	}
	result.OutputPath = c.req.OutputPath

	// =========================================================================
	// STEP 7: WRITE QA REPORT
	// =========================================================================

	if c.req.ReportPath != "" {
		if err := validation.WriteReportFile(c.req.ReportPath, result.Issues); err != nil {
			return result, err
		}
		result.ReportPath = c.req.ReportPath
	}

	result.Stats.ProcessingTime = time.Since(start)

	log.Info().
		Str("output", result.OutputPath).
		Int("rows", result.Stats.RowsRead).
		Int("exported", result.Stats.Exported).
		Int("inactive", result.Stats.Inactive).
		Int("skipped", result.Stats.Skipped).
		Int("issues", collector.Len()).
		Dur("duration", result.Stats.ProcessingTime).
		Msg("export complete")

	return result, nil
}

// =============================================================================
// SOURCE LOADING
// =============================================================================

type source struct {
	table     *types.Table
	sheet     string
	publisher config.PublisherConfig
}

func (c *Converter) loadSource() (source, error) {
	if isCSV(c.req.InputPath) {
		return c.loadCSV()
	}
	return c.loadWorkbook()
}

func (c *Converter) loadCSV() (source, error) {
	table, err := csvparser.Parse(c.req.InputPath, c.req.CSV)
	if err != nil {
		return source{}, err
	}

	publisher := config.DefaultPublisherConfig()
	if c.req.PublisherConfigPath != "" {
		publisher, err = c.readExternalPublisherConfig()
		if err != nil {
			return source{}, err
		}
	} else {
		c.logger.Debug().Msg("CSV input without publisher config, using defaults")
	}

	return source{table: table, sheet: table.Name, publisher: publisher}, nil
}

func (c *Converter) loadWorkbook() (source, error) {
	wb, err := xlsxparser.Open(c.req.InputPath)
	if err != nil {
		return source{}, err
	}
	defer wb.Close()

	var publisher config.PublisherConfig
	if c.req.PublisherConfigPath != "" {
		publisher, err = c.readExternalPublisherConfig()
		if err != nil {
			return source{}, err
		}
	} else {
		publisher = c.readPublisherConfig(wb)
	}

	sheet := c.resolveSheet(wb, publisher)
	table, err := wb.ReadSheet(sheet)
	if err != nil {
		return source{}, err
	}

	return source{table: table, sheet: table.Name, publisher: publisher}, nil
}

// readPublisherConfig never fails: an absent or unreadable CONFIG sheet
// falls back to the built-in defaults.
func (c *Converter) readPublisherConfig(wb *xlsxparser.Workbook) config.PublisherConfig {
	table, err := wb.ReadSheet(c.req.ConfigSheet)
	switch {
	case errors.Is(err, xlsxparser.ErrSheetNotFound):
		c.logger.Debug().Str("sheet", c.req.ConfigSheet).Msg("no config sheet, using defaults")
		return config.DefaultPublisherConfig()
	case err != nil:
		c.logger.Warn().Err(err).Str("sheet", c.req.ConfigSheet).Msg("config sheet unreadable, using defaults")
		return config.DefaultPublisherConfig()
	}
	return config.ReadPublisherConfig(table)
}

func (c *Converter) readExternalPublisherConfig() (config.PublisherConfig, error) {
	path := c.req.PublisherConfigPath
	if isCSV(path) {
		table, err := csvparser.ParseKeyValues(path, c.req.CSV)
		if err != nil {
			return config.PublisherConfig{}, errors.Wrap(err, "reading publisher config")
		}
		return config.ReadPublisherConfig(table), nil
	}

	wb, err := xlsxparser.Open(path)
	if err != nil {
		return config.PublisherConfig{}, errors.Wrap(err, "reading publisher config")
	}
	defer wb.Close()

	table, err := wb.ReadSheet(c.req.ConfigSheet)
	if err != nil {
		return config.PublisherConfig{}, errors.Wrap(err, "reading publisher config")
	}
	return config.ReadPublisherConfig(table), nil
}

// resolveSheet picks the catalogue sheet. The name it returns may not
// exist, in which case ReadSheet reports the available sheets.
func (c *Converter) resolveSheet(wb *xlsxparser.Workbook, publisher config.PublisherConfig) string {
	if c.req.MasterSheet != "" {
		return c.req.MasterSheet
	}
	if publisher.BooksSheet != "" {
		if wb.HasSheet(publisher.BooksSheet) {
			return publisher.BooksSheet
		}
		c.logger.Warn().Str("sheet", publisher.BooksSheet).Msg("books_sheet not found in workbook")
	}
	if wb.HasSheet(config.DefaultMasterSheet) {
		return config.DefaultMasterSheet
	}

	columns := config.DefaultColumnMapping()
	if c.req.Columns != nil {
		columns = *c.req.Columns
	}
	for _, name := range wb.SheetNames() {
		if strings.EqualFold(name, c.req.ConfigSheet) {
			continue
		}
		table, err := wb.ReadSheet(name)
		if err != nil {
			continue
		}
		if catalogue.NewMapper(table.Headers, columns).HasKeyColumns() {
			c.logger.Debug().Str("sheet", name).Msg("catalogue sheet detected")
			return name
		}
	}
	return config.DefaultMasterSheet
}

func isCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}
