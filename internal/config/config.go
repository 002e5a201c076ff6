// =============================================================================
// Pledge Reminders - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a YAML file. Every
// setting has a default, so the tool runs without any configuration file.
//
// CONFIGURATION FILE (config.yaml):
//   output_dir: "."
//   output_name_format: "devoff_pldg_reminders_{timestamp}.xlsx"
//   classification_field: COLL_CODE
//   sort_field: AREA
//   csv_settings:
//     delimiter: ","
//     encoding: "UTF-8"
//   groups:                       # optional, replaces the built-in taxonomy
//     - id: "02"
//       name: AG
//       members: ["02", "14"]
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/pledge-reminders/internal/taxonomy"
)

// DefaultSkipLinesPattern drops blank separator lines and the report footer
// ("N rows selected.") of the legacy export.
const DefaultSkipLinesPattern = `^[,\s]+$|rows selected`

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the application configuration.
type MainConfig struct {
	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is the directory the workbook is written to.
	// Default: "."
	OutputDir string `yaml:"output_dir"`

	// OutputNameFormat is the workbook file name.
	// Placeholders:
	//   {timestamp} - run time formatted with TimestampLayout
	//   {uuid}      - a random UUID
	// Default: "devoff_pldg_reminders_{timestamp}.xlsx"
	OutputNameFormat string `yaml:"output_name_format"`

	// TimestampLayout is the Go time layout used for {timestamp}.
	// Default: "060102T150405-0700"
	TimestampLayout string `yaml:"timestamp_layout"`

	// OpenViewer launches the platform's default opener on the finished
	// workbook.
	// Default: true
	OpenViewer *bool `yaml:"open_viewer"`

	// Cleanup controls deletion of previous workbooks.
	Cleanup CleanupSettings `yaml:"cleanup"`

	// =========================================================================
	// WORKBOOK SETTINGS
	// =========================================================================

	// ResidualSheet is the name of the catch-all sheet.
	// Default: "OTHER"
	ResidualSheet string `yaml:"residual_sheet"`

	// SheetNameSeparator joins group id and display name.
	// Default: "-"
	SheetNameSeparator string `yaml:"sheet_name_separator"`

	// AutoFitColumns sizes each column to its longest value.
	// Default: true
	AutoFitColumns *bool `yaml:"autofit_columns"`

	// HeaderStyle colors the header row of every sheet.
	HeaderStyle HeaderStyle `yaml:"header_style"`

	// =========================================================================
	// CLASSIFICATION SETTINGS
	// =========================================================================

	// ClassificationField is the column holding the college code.
	// Default: "COLL_CODE"
	ClassificationField string `yaml:"classification_field"`

	// SortField is the column each sheet is sorted by.
	// Default: "AREA"
	SortField string `yaml:"sort_field"`

	// CodeWidth is the width college codes are zero-padded to.
	// Default: 2
	CodeWidth int `yaml:"code_width"`

	// Groups replaces the built-in taxonomy when non-empty. Order matters:
	// it is the order of the sheets.
	Groups []GroupConfig `yaml:"groups"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// CSVSettings controls parsing of delimited input files.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// XLSXSettings controls parsing of .xlsx input files.
	XLSXSettings XLSXSettings `yaml:"xlsx_settings"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// CleanupSettings controls deletion of previous output workbooks.
type CleanupSettings struct {
	// Enabled turns cleanup on. It is off unless set here or via --clean.
	Enabled bool `yaml:"enabled"`

	// Patterns are glob patterns matched inside OutputDir.
	// Default: ["*.xls", "*.xlsx"]
	Patterns []string `yaml:"patterns"`
}

// HeaderStyle holds header row colors as RRGGBB hex strings.
type HeaderStyle struct {
	Bold      *bool  `yaml:"bold"`
	FontColor string `yaml:"font_color"`
	FillColor string `yaml:"fill_color"`
}

// GroupConfig is one taxonomy entry in YAML form.
type GroupConfig struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Members []string `yaml:"members"`
}

// =============================================================================
// INPUT SETTINGS STRUCTURES
// =============================================================================

// CSVSettings contains settings for parsing delimited files.
type CSVSettings struct {
	// Delimiter separates fields. Accepts "," "|" ";" "tab".
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding is the character encoding of the file, e.g. "UTF-8",
	// "Windows-1252", "ISO-8859-1". A UTF-8 byte order mark is always removed.
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`

	// SkipLinesPattern is a regular expression; raw lines matching it are
	// dropped before parsing.
	// Default: DefaultSkipLinesPattern
	SkipLinesPattern string `yaml:"skip_lines_pattern"`
}

// XLSXSettings contains settings for parsing spreadsheet exports.
type XLSXSettings struct {
	// Sheet is the sheet to read. Empty means the first sheet.
	Sheet string `yaml:"sheet"`

	// SkipLinesPattern is matched against the comma-joined cells of each row.
	// Default: DefaultSkipLinesPattern
	SkipLinesPattern string `yaml:"skip_lines_pattern"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// LoadMainConfig loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//   - required: When false, a missing file yields the defaults instead of an
//     error. The --config flag sets this to true when given explicitly.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string, required bool) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.OutputDir == "" {
		config.OutputDir = "."
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "devoff_pldg_reminders_{timestamp}.xlsx"
	}
	if config.TimestampLayout == "" {
		config.TimestampLayout = "060102T150405-0700"
	}
	if config.OpenViewer == nil {
		config.OpenViewer = boolPtr(true)
	}
	if len(config.Cleanup.Patterns) == 0 {
		config.Cleanup.Patterns = []string{"*.xls", "*.xlsx"}
	}
	if config.ResidualSheet == "" {
		config.ResidualSheet = "OTHER"
	}
	if config.SheetNameSeparator == "" {
		config.SheetNameSeparator = "-"
	}
	if config.AutoFitColumns == nil {
		config.AutoFitColumns = boolPtr(true)
	}
	if config.HeaderStyle.Bold == nil {
		config.HeaderStyle.Bold = boolPtr(true)
	}
	if config.HeaderStyle.FontColor == "" {
		config.HeaderStyle.FontColor = "FFFFFF"
	}
	if config.HeaderStyle.FillColor == "" {
		config.HeaderStyle.FillColor = "800000" // maroon
	}
	if config.ClassificationField == "" {
		config.ClassificationField = "COLL_CODE"
	}
	if config.SortField == "" {
		config.SortField = "AREA"
	}
	if config.CodeWidth == 0 {
		config.CodeWidth = 2
	}
	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ","
	}
	if config.CSVSettings.Encoding == "" {
		config.CSVSettings.Encoding = "UTF-8"
	}
	if config.CSVSettings.SkipLinesPattern == "" {
		config.CSVSettings.SkipLinesPattern = DefaultSkipLinesPattern
	}
	if config.XLSXSettings.SkipLinesPattern == "" {
		config.XLSXSettings.SkipLinesPattern = DefaultSkipLinesPattern
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}

// validateMainConfig validates the configuration.
func validateMainConfig(config *MainConfig) error {
	if config.CodeWidth < 0 {
		return fmt.Errorf("code_width must not be negative")
	}

	for name, pattern := range map[string]string{
		"csv_settings.skip_lines_pattern":  config.CSVSettings.SkipLinesPattern,
		"xlsx_settings.skip_lines_pattern": config.XLSXSettings.SkipLinesPattern,
	} {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	switch config.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", config.LogLevel)
	}

	if _, err := config.Taxonomy(); err != nil {
		return fmt.Errorf("groups: %w", err)
	}

	return nil
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// Taxonomy returns the configured taxonomy: the groups list when present,
// otherwise the built-in table.
func (c *MainConfig) Taxonomy() (*taxonomy.Taxonomy, error) {
	if len(c.Groups) == 0 {
		return taxonomy.Default(), nil
	}

	groups := make([]taxonomy.Group, len(c.Groups))
	for i, g := range c.Groups {
		groups[i] = taxonomy.Group{ID: g.ID, Name: g.Name, Members: g.Members}
	}
	return taxonomy.New(groups)
}

// ShouldOpenViewer reports whether the finished workbook is opened.
func (c *MainConfig) ShouldOpenViewer() bool {
	return c.OpenViewer == nil || *c.OpenViewer
}

// ShouldAutoFit reports whether columns are auto-sized.
func (c *MainConfig) ShouldAutoFit() bool {
	return c.AutoFitColumns == nil || *c.AutoFitColumns
}

func boolPtr(b bool) *bool {
	return &b
}
