// =============================================================================
// ONIX Export - Export Command
// =============================================================================
//
// This file defines the 'export' command, the main command of the tool. It
// turns catalogue workbooks into ONIX 3.0 feeds.
//
// COMMAND USAGE:
//   onixexport export <file-or-dir>... [flags]
//
// FLAGS:
//   --out               : output .xml file (single input) or directory
//   --report            : QA report path (single input only)
//   --no-report         : do not write QA reports
//   --sheet             : catalogue sheet name
//   --strict            : accepted, currently no effect
//   --publisher-config  : external CONFIG key/value file (.csv or .xlsx)
//   --columns           : YAML column mapping
//
// PROCESSING:
//   1. Expand arguments into input files
//   2. Plan output and report paths for each input, warning about outputs
//      that already exist
//   3. Export inputs concurrently, bounded by max_concurrency
//   4. Print a summary table
//
// A failing input does not stop the others. The command exits non-zero if
// any input failed.
//
// =============================================================================

package cmd

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/onix-export/internal/config"
	"github.com/ginjaninja78/onix-export/internal/converter"
	"github.com/ginjaninja78/onix-export/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var exportFlags struct {
	out             string
	report          string
	noReport        bool
	sheet           string
	strict          bool
	publisherConfig string
	columns         string
}

// =============================================================================
// EXPORT COMMAND DEFINITION
// =============================================================================

var exportCmd = &cobra.Command{
	Use:   "export <file-or-dir>...",
	Short: "Export catalogue workbooks to ONIX 3.0 XML",
	Long: `The export command reads each catalogue workbook (.xlsx, .xlsm) or CSV
extract and writes one ONIX 3.0 file per input.

The publisher settings come from the workbook's CONFIG sheet (or
--publisher-config). Without one, built-in defaults are used.

Each input is exported independently. A broken workbook is reported and
the remaining inputs are still exported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(args)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	f := exportCmd.Flags()
	f.StringVarP(&exportFlags.out, "out", "o", "", "Output .xml file (single input) or output directory")
	f.StringVar(&exportFlags.report, "report", "", "QA report path (single input only)")
	f.BoolVar(&exportFlags.noReport, "no-report", false, "Do not write QA reports")
	f.StringVar(&exportFlags.sheet, "sheet", "", "Catalogue sheet name")
	f.BoolVar(&exportFlags.strict, "strict", false, "Strict mode (no effect yet)")
	f.StringVar(&exportFlags.publisherConfig, "publisher-config", "", "External publisher key/value file (.csv or .xlsx)")
	f.StringVar(&exportFlags.columns, "columns", "", "YAML column mapping file")
}

// =============================================================================
// TARGET PLANNING
// =============================================================================

// target is where one input gets written. overwrite is set when the
// output file already exists.
type target struct {
	input     string
	output    string
	report    string
	overwrite bool
}

type targetOptions struct {
	out        string
	report     string
	withReport bool
}

// planTargets decides the output and report path of every input. An --out
// ending in .xml is a file and needs exactly one input; anything else is a
// directory that replaces fm.OutputDir. Two inputs may not share an output
// path. Existing outputs are marked so the caller can warn before replacing
// them.
func planTargets(inputs []string, opts targetOptions, fm *utils.FileManager) ([]target, error) {
	outIsFile := strings.EqualFold(filepath.Ext(opts.out), ".xml")
	if outIsFile && len(inputs) > 1 {
		return nil, errors.WithHint(
			errors.Newf("--out %s names a file but %d inputs were given", opts.out, len(inputs)),
			"pass a directory to --out when exporting several inputs")
	}
	if opts.report != "" && len(inputs) > 1 {
		return nil, errors.New("--report can only be used with a single input")
	}

	if opts.out != "" && !outIsFile {
		fm.OutputDir = opts.out
	}

	targets := make([]target, 0, len(inputs))
	owners := make(map[string]string, len(inputs))
	for _, in := range inputs {
		t := target{input: in, output: fm.OutputPath(in)}
		if outIsFile {
			t.output = opts.out
		}
		if prev, ok := owners[t.output]; ok {
			return nil, errors.WithHintf(
				errors.Newf("%s and %s would both be written to %s", prev, in, t.output),
				"add {uuid} or {timestamp} to output_name_format, or rename one input")
		}
		owners[t.output] = in
		t.overwrite = utils.FileExists(t.output)

		switch {
		case opts.report != "":
			t.report = opts.report
		case opts.withReport:
			t.report = utils.ReportPathFor(t.output)
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

type outcome struct {
	target target
	result converter.Result
	err    error
}

func runExport(args []string) error {
	inputs, err := utils.DiscoverInputFiles(args)
	if err != nil {
		return err
	}

	columnsFile := exportFlags.columns
	if columnsFile == "" {
		columnsFile = settings.ColumnsFile
	}
	columns, err := config.LoadColumnMapping(columnsFile)
	if err != nil {
		return err
	}

	fm := utils.NewFileManager(settings.OutputDir, settings.OutputNameFormat)
	targets, err := planTargets(inputs, targetOptions{
		out:        exportFlags.out,
		report:     exportFlags.report,
		withReport: settings.Report && !exportFlags.noReport,
	}, fm)
	if err != nil {
		return err
	}

	sheet := exportFlags.sheet
	if sheet == "" {
		sheet = settings.MasterSheet
	}

	for _, t := range targets {
		if t.overwrite {
			logger.Warn().Str("file", t.input).Str("output", t.output).Msg("output exists and will be replaced")
		}
	}
	logger.Debug().Int("inputs", len(targets)).Msg("starting export")

	outcomes := make([]outcome, len(targets))
	var g errgroup.Group
	g.SetLimit(settings.MaxConcurrency)
	for i, t := range targets {
		g.Go(func() error {
			result, err := converter.Export(converter.Request{
				InputPath:           t.input,
				OutputPath:          t.output,
				ReportPath:          t.report,
				MasterSheet:         sheet,
				ConfigSheet:         settings.ConfigSheet,
				PublisherConfigPath: exportFlags.publisherConfig,
				Columns:             &columns,
				CSV:                 settings.CSV,
				Strict:              exportFlags.strict || settings.Strict,
			}, converter.WithLogger(logger))
			if err != nil {
				logger.Error().Err(err).Str("file", t.input).Msg("export failed")
			}
			outcomes[i] = outcome{target: t, result: result, err: err}
			return nil
		})
	}
	_ = g.Wait()

	return printSummary(outcomes)
}

// =============================================================================
// SUMMARY
// =============================================================================

func printSummary(outcomes []outcome) error {
	data := pterm.TableData{{"Input", "Sheet", "Products", "Skipped", "Inactive", "Warnings", "Output"}}
	failed := 0
	for _, o := range outcomes {
		name := filepath.Base(o.target.input)
		if o.err != nil {
			failed++
			data = append(data, []string{name, "-", "-", "-", "-", "-", pterm.Red("failed")})
			continue
		}
		s := o.result.Stats
		data = append(data, []string{
			name,
			o.result.Sheet,
			strconv.Itoa(s.Exported),
			strconv.Itoa(s.Skipped),
			strconv.Itoa(s.Inactive),
			strconv.Itoa(s.Warnings),
			o.result.OutputPath,
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return errors.Wrap(err, "rendering summary")
	}

	for _, o := range outcomes {
		switch {
		case o.err != nil:
			pterm.Error.Printf("%s: %v\n", filepath.Base(o.target.input), o.err)
			if hint := errors.FlattenHints(o.err); hint != "" {
				pterm.Info.Println(hint)
			}
		case len(o.result.Issues) > 0 && o.result.ReportPath != "":
			pterm.Warning.Printf("%s: %d issue(s), see %s\n", filepath.Base(o.target.input), len(o.result.Issues), o.result.ReportPath)
		case len(o.result.Issues) > 0:
			pterm.Warning.Printf("%s: %d issue(s)\n", filepath.Base(o.target.input), len(o.result.Issues))
		}
	}

	if failed > 0 {
		return errors.Newf("%d of %d export(s) failed", failed, len(outcomes))
	}
	pterm.Success.Printf("%d file(s) exported\n", len(outcomes))
	return nil
}
