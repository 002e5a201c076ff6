// =============================================================================
// Pledge Reminders - File Manager Utility
// =============================================================================
//
// This module provides the file side effects of a run:
//   - Output file naming ({timestamp}, {uuid}, ... placeholders)
//   - Cleanup of previous workbooks in the output directory
//   - Opening the finished workbook with the platform's default viewer
//
// All of these run only after the workbook has been finalized successfully.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName expands the placeholders of format.
//
// PARAMETERS:
//   - format: The file name format.
//             Placeholders:
//               {timestamp} - now formatted with layout
//               {date}      - now as YYYYMMDD
//               {time}      - now as HHMMSS
//               {uuid}      - a random UUID
//   - now: The run time.
//   - layout: Go time layout for {timestamp}.
//
// EXAMPLE:
//   format: "devoff_pldg_reminders_{timestamp}.xlsx"
//   layout: "060102T150405-0700"
//   output: "devoff_pldg_reminders_261017T093012-0500.xlsx"
func GenerateOutputFileName(format string, now time.Time, layout string) string {
	replacer := strings.NewReplacer(
		"{timestamp}", now.Format(layout),
		"{date}", now.Format("20060102"),
		"{time}", now.Format("150405"),
		"{uuid}", uuid.New().String(),
	)
	return replacer.Replace(format)
}

// =============================================================================
// CLEANUP
// =============================================================================

// CleanupOutputs deletes the files in dir matching any of patterns, except the
// paths listed in keep. Directories are never removed.
//
// RETURNS:
//   - The removed paths, sorted.
//   - An error if a pattern is malformed or a file cannot be removed. Files
//     removed before the failure stay removed.
func CleanupOutputs(dir string, patterns []string, keep ...string) ([]string, error) {
	keepSet := make(map[string]bool, len(keep))
	for _, k := range keep {
		if abs, err := filepath.Abs(k); err == nil {
			keepSet[abs] = true
		}
	}

	matches := make(map[string]bool)
	for _, pattern := range patterns {
		found, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid cleanup pattern %q: %w", pattern, err)
		}
		for _, f := range found {
			matches[f] = true
		}
	}

	paths := make([]string, 0, len(matches))
	for p := range matches {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var removed []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil || keepSet[abs] {
			continue
		}

		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}

		if err := os.Remove(p); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", p, err)
		}
		removed = append(removed, p)
	}

	return removed, nil
}

// =============================================================================
// VIEWER
// =============================================================================

// ViewerCommand returns the command that opens path with the default
// application on goos.
func ViewerCommand(goos, path string) (string, []string) {
	switch goos {
	case "windows":
		// The empty argument is the window title expected by start.
		return "cmd", []string{"/c", "start", "", path}
	case "darwin":
		return "open", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}

// OpenWithViewer launches the default application for path without waiting
// for it to exit.
func OpenWithViewer(path string) error {
	name, args := ViewerCommand(runtime.GOOS, path)

	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", name, err)
	}

	// The viewer outlives us; reap it in the background.
	go cmd.Wait()

	return nil
}
