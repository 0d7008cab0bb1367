// =============================================================================
// ONIX Export - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   onixexport version
//
// OUTPUT:
//   onixexport
//   Version:      1.0.0
//   ONIX release: 3.0
//   Build Date:   2024-01-01
//   Go Version:   go1.24.0
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/onix-export/internal/config"
)

// Version and BuildDate are set at build time using ldflags:
//
//	go build -ldflags "-X 'github.com/ginjaninja78/onix-export/cmd.Version=1.0.0'"
var (
	Version   = "dev"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "onixexport")
		fmt.Fprintf(out, "Version:      %s\n", Version)
		fmt.Fprintf(out, "ONIX release: %s\n", config.DefaultPublisherConfig().Release)
		fmt.Fprintf(out, "Build Date:   %s\n", BuildDate)
		fmt.Fprintf(out, "Go Version:   %s\n", runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
