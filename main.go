// =============================================================================
// Pledge Reminders - Main Entry Point
// =============================================================================
//
// USAGE:
//   reminders <input-file>        - Split an export into a workbook
//   reminders validate [file]     - Check configuration (and an export)
//   reminders version             - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : taxonomy, records, grouping, workbook, parsers, pipeline
//   - pkg/           : file side effects (naming, cleanup, viewer)
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/pledge-reminders/cmd"
)

func main() {
	cmd.Execute()
}
