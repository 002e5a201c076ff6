package converter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/ginjaninja78/pledge-reminders/internal/config"
	"github.com/ginjaninja78/pledge-reminders/internal/validation"
	"github.com/ginjaninja78/pledge-reminders/internal/workbook"
)

const export = "MSU-ID,NAME,COLL_CODE,AREA\n" +
	"1,Ann   ,02,Soil\n" +
	"2,Bob,14,Crops\n" +
	"3,Cy,77,Misc\n" +
	"4,Di,,General\n" +
	"5,Ed,02,Animals\n" +
	",,,\n" +
	"5 rows selected.\n"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedNow = time.Date(2024, 3, 7, 14, 5, 9, 0, time.UTC)

const wantName = "devoff_pldg_reminders_240307T140509+0000.xlsx"

func setup(t *testing.T, input string) (string, *config.MainConfig) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(input), 0o644))

	cfg := config.Default()
	cfg.OutputDir = dir
	return path, cfg
}

func newConverter(t *testing.T, input string, cfg *config.MainConfig, opts Options) *Converter {
	t.Helper()

	opts.Now = func() time.Time { return fixedNow }
	if opts.Viewer == nil {
		opts.Viewer = func(string) error {
			t.Fatal("viewer must not be launched")
			return nil
		}
	}
	return New(input, cfg, opts, zaptest.NewLogger(t))
}

func TestRunWritesWorkbook(t *testing.T) {
	input, cfg := setup(t, export)

	result := newConverter(t, input, cfg, Options{}).Run()
	require.NoError(t, result.Error)
	require.True(t, result.Success)

	assert.Equal(t, filepath.Join(cfg.OutputDir, wantName), result.OutputFile)
	assert.Equal(t, 5, result.Stats.RowsProcessed)
	assert.Equal(t, 2, result.Stats.SkippedLines)
	assert.Equal(t, []string{"00", "02"}, result.Stats.PresentGroups)
	assert.Equal(t, 1, result.Stats.ResidualRows)

	want := []workbook.SheetSummary{
		{Name: "00-General University", GroupID: "00", Rows: 1},
		{Name: "02-AG", GroupID: "02", Rows: 3},
		{Name: "OTHER", Rows: 1},
	}
	if diff := cmp.Diff(want, result.Sheets); diff != "" {
		t.Errorf("sheets mismatch (-want +got):\n%s", diff)
	}

	f, err := excelize.OpenFile(result.OutputFile)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"00-General University", "02-AG", "OTHER"}, f.GetSheetList())

	rows, err := f.GetRows("02-AG")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"MSU-ID", "NAME", "COLL_CODE", "AREA"},
		{"5", "Ed", "02", "Animals"},
		{"2", "Bob", "14", "Crops"},
		{"1", "Ann", "02", "Soil"},
	}, rows)
}

func TestRunDryRun(t *testing.T) {
	input, cfg := setup(t, export)

	result := newConverter(t, input, cfg, Options{DryRun: true}).Run()
	require.NoError(t, result.Error)

	assert.True(t, result.Success)
	assert.Empty(t, result.OutputFile)
	assert.Len(t, result.Sheets, 3)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, wantName))
}

func TestRunCleanKeepsNewWorkbook(t *testing.T) {
	input, cfg := setup(t, export)
	old := filepath.Join(cfg.OutputDir, "devoff_pldg_reminders_old.xls")
	require.NoError(t, os.WriteFile(old, []byte("old"), 0o644))

	result := newConverter(t, input, cfg, Options{Clean: true}).Run()
	require.NoError(t, result.Error)

	assert.Equal(t, []string{old}, result.Removed)
	assert.NoFileExists(t, old)
	assert.FileExists(t, result.OutputFile)
	assert.FileExists(t, input)
}

func TestRunWithoutCleanLeavesPreviousWorkbooks(t *testing.T) {
	input, cfg := setup(t, export)
	old := filepath.Join(cfg.OutputDir, "previous.xlsx")
	require.NoError(t, os.WriteFile(old, []byte("old"), 0o644))

	result := newConverter(t, input, cfg, Options{}).Run()
	require.NoError(t, result.Error)

	assert.Empty(t, result.Removed)
	assert.FileExists(t, old)
}

func TestRunOpensViewer(t *testing.T) {
	input, cfg := setup(t, export)

	var opened []string
	viewer := func(path string) error {
		opened = append(opened, path)
		return errors.New("no display")
	}

	result := newConverter(t, input, cfg, Options{OpenViewer: true, Viewer: viewer}).Run()

	require.NoError(t, result.Error, "viewer failures are not fatal")
	assert.Equal(t, []string{result.OutputFile}, opened)
}

func TestRunMissingCodeColumn(t *testing.T) {
	input, cfg := setup(t, "MSU-ID,AREA\n1,Soil\n")

	result := newConverter(t, input, cfg, Options{}).Run()

	require.Error(t, result.Error)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error.Error(), "COLL_CODE")
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, wantName))
}

func TestRunRejectsTaxonomyThatDropsRecords(t *testing.T) {
	input, cfg := setup(t, "COLL_CODE,AREA\nEX,Misc\n")
	cfg.Groups = []config.GroupConfig{{ID: "X", Name: "Ext", Members: []string{"EX"}}}

	result := newConverter(t, input, cfg, Options{}).Run()

	assert.ErrorIs(t, result.Error, validation.ErrUnreachableMember)
	assert.False(t, result.Success)
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, wantName))
}

func TestRunMissingInput(t *testing.T) {
	_, cfg := setup(t, export)

	result := newConverter(t, filepath.Join(cfg.OutputDir, "nope.csv"), cfg, Options{}).Run()

	assert.ErrorIs(t, result.Error, os.ErrNotExist)
	assert.False(t, result.Success)
}

func TestRunMissingOutputDir(t *testing.T) {
	input, cfg := setup(t, export)
	cfg.OutputDir = filepath.Join(cfg.OutputDir, "missing")

	result := newConverter(t, input, cfg, Options{}).Run()

	require.Error(t, result.Error)
	assert.Empty(t, result.OutputFile)
	assert.NoDirExists(t, cfg.OutputDir)
}

func TestRunCountsCoercedCodes(t *testing.T) {
	input, cfg := setup(t, "COLL_CODE,AREA\nXX,b\nYY,a\n04,c\n")

	result := newConverter(t, input, cfg, Options{DryRun: true}).Run()
	require.NoError(t, result.Error)

	assert.Equal(t, 2, result.Stats.CoercedCodes)
	assert.Equal(t, []string{"00", "04"}, result.Stats.PresentGroups)
	assert.Equal(t, 2, result.Stats.ResidualRows)
}

func TestRunXLSXInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "export.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"COLL_CODE", "AREA"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"13", "Campus"}))
	require.NoError(t, f.SaveAs(input))
	require.NoError(t, f.Close())

	cfg := config.Default()
	cfg.OutputDir = dir

	result := newConverter(t, input, cfg, Options{DryRun: true}).Run()
	require.NoError(t, result.Error)

	assert.Equal(t, []string{"13"}, result.Stats.PresentGroups)
}
