// =============================================================================
// ONIX Export - Check Command
// =============================================================================
//
// This file defines the 'check' command. It re-reads generated ONIX files
// and reports structural problems: element order inside DescriptiveDetail
// and Price, Contributor/NoContributor and Price/UnpricedItemType exclusion,
// empty CollateralDetail, links containing whitespace.
//
// COMMAND USAGE:
//   onixexport check <file.xml>...
//
// =============================================================================

package cmd

import (
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/onix-export/internal/validation"
)

var checkCmd = &cobra.Command{
	Use:   "check <file.xml>...",
	Short: "Check generated ONIX files for structural problems",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(args)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(paths []string) error {
	data := pterm.TableData{{"File", "Products", "Violations"}}
	bad := 0

	for _, path := range paths {
		result, err := validation.CheckFile(path)
		if err != nil {
			return err
		}
		data = append(data, []string{filepath.Base(path), strconv.Itoa(result.Products), strconv.Itoa(len(result.Violations))})

		if !result.OK() {
			bad++
		}
		for _, v := range result.Violations {
			logger.Debug().Str("file", path).Str("product", v.Product).Str("path", v.Path).Msg(v.Message)
			pterm.Warning.Printf("%s: %s\n", filepath.Base(path), v)
		}
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return errors.Wrap(err, "rendering summary")
	}
	if bad > 0 {
		return errors.Newf("%d of %d file(s) have structural problems", bad, len(paths))
	}
	pterm.Success.Printf("%d file(s) OK\n", len(paths))
	return nil
}
