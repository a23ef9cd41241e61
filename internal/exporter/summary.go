package exporter

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"reportsplit/internal/config"
	"reportsplit/pkg/contracts/domain"
)

const summarySheet = "Summary"

// SummaryHeaders are the columns of the batch summary report
var SummaryHeaders = []string{
	"source",
	"encoding",
	"bucket",
	"output_file",
	"rows",
	"duplicates_removed",
	"unparsable_timestamps",
	"status",
	"error",
}

// SummaryRows flattens a batch into one row per written bucket, plus one
// row for every file that produced no outputs.
func SummaryRows(summary domain.BatchSummary) [][]string {
	var rows [][]string

	for _, file := range summary.Files {
		source := filepath.Base(file.Source)
		if len(file.Outputs) == 0 {
			rows = append(rows, []string{
				source,
				file.Encoding,
				"",
				"",
				formatInt(0),
				formatInt(file.DuplicatesRemoved),
				formatInt(file.UnparsableTimestamps),
				string(file.Status),
				formatError(file.Err),
			})
			continue
		}

		for _, out := range file.Outputs {
			rows = append(rows, []string{
				source,
				file.Encoding,
				string(out.Key),
				out.Name,
				formatInt(out.Rows),
				formatInt(file.DuplicatesRemoved),
				formatInt(file.UnparsableTimestamps),
				string(file.Status),
				formatError(file.Err),
			})
		}
	}

	return rows
}

// SummaryWriter writes batch summary reports into an output directory
type SummaryWriter struct {
	outputDir string
	csv       *CSVWriter
}

// NewSummaryWriter creates a summary writer for outputDir
func NewSummaryWriter(outputDir string) *SummaryWriter {
	return &SummaryWriter{
		outputDir: outputDir,
		csv:       NewCSVWriter(outputDir),
	}
}

// Write stores the summary as split_summary.<format> and returns its path.
// Supported formats are "csv" and "xlsx".
func (w *SummaryWriter) Write(summary domain.BatchSummary, format string) (string, error) {
	name := config.SummaryFileBase + "." + format
	path := filepath.Join(w.outputDir, name)
	rows := SummaryRows(summary)

	var err error
	switch format {
	case config.SummaryFormatCSV:
		err = w.csv.WriteSimpleCSV(name, SummaryHeaders, rows)
	case config.SummaryFormatXLSX:
		err = writeSummaryWorkbook(path, rows)
	default:
		return "", fmt.Errorf("unsupported summary format %q", format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to write summary %s: %w", path, err)
	}

	slog.Debug("Summary written",
		slog.String("path", path),
		slog.Int("rows", len(rows)))

	return path, nil
}

func writeSummaryWorkbook(path string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return err
	}

	if err := setRow(f, 1, SummaryHeaders, nil); err != nil {
		return err
	}

	// numeric columns are stored as numbers so the sheet can be summed
	numeric := map[int]bool{4: true, 5: true, 6: true}
	for i, row := range rows {
		if err := setRow(f, i+2, row, numeric); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(SummaryHeaders))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", lastCol+"1", bold); err != nil {
		return err
	}
	if err := f.SetPanes(summarySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func setRow(f *excelize.File, rowNum int, values []string, numeric map[int]bool) error {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
		if numeric[i] {
			if n, err := strconv.Atoi(v); err == nil {
				cells[i] = n
			}
		}
	}

	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(summarySheet, cell, &cells)
}
