// =============================================================================
// ONIX Export - Main Entry Point
// =============================================================================
//
// onixexport converts book catalogue workbooks into ONIX 3.0 feeds.
//
// USAGE:
//   onixexport export <files>...  - Export workbooks to ONIX XML
//   onixexport check <files>...   - Check generated ONIX files
//   onixexport version            - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : export pipeline (parsing, normalization, ONIX model)
//   - pkg/       : shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/onix-export/cmd"
)

func main() {
	cmd.Execute()
}
