package importer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/example/vocabdrill/internal/drill"
	"github.com/example/vocabdrill/pkg/models"
)

// ImportConfig defines where the word columns are in a CSV or Excel file
type ImportConfig struct {
	FilePath          string // Path to the JSON, CSV or Excel file
	TextColumn        string // Column with the target-language text
	TranslationColumn string // Column with the translation
	GradeColumn       string
	UnitColumn        string
	LevelColumn       string
	SheetName         string // Sheet to import; the first sheet when empty
	StartRow          int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TextColumn:        "A",
		TranslationColumn: "B",
		GradeColumn:       "C",
		UnitColumn:        "D",
		LevelColumn:       "E",
		StartRow:          2, // By default, start from the second row (skip header)
	}
}

// WordRecord is one word as read from an import file
type WordRecord struct {
	Text        string  `validate:"required"`
	Translation string  `validate:"required"`
	Grade       *int    `validate:"omitempty,gte=0"`
	Unit        *string `validate:"omitempty"`
	Level       *int    `validate:"omitempty,gte=0"`
}

// wordJSON accepts both text/translation and english/japanese keys
type wordJSON struct {
	Text        string      `json:"text"`
	English     string      `json:"english"`
	Translation string      `json:"translation"`
	Japanese    string      `json:"japanese"`
	Grade       *int        `json:"grade"`
	Unit        *flexString `json:"unit"`
	Level       *int        `json:"level"`
}

func (w wordJSON) record() WordRecord {
	rec := WordRecord{
		Text:        strings.TrimSpace(w.Text),
		Translation: strings.TrimSpace(w.Translation),
		Grade:       w.Grade,
		Unit:        w.Unit.ptr(),
		Level:       w.Level,
	}
	if rec.Text == "" {
		rec.Text = strings.TrimSpace(w.English)
	}
	if rec.Translation == "" {
		rec.Translation = strings.TrimSpace(w.Japanese)
	}
	return rec
}

// ImportWords imports words from a JSON, CSV or Excel file chosen by extension
func (im *Importer) ImportWords(ctx context.Context, cfg ImportConfig) (*ImportResult, error) {
	switch strings.ToLower(filepath.Ext(cfg.FilePath)) {
	case ".json":
		file, err := os.Open(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open JSON file: %w", err)
		}
		defer file.Close()
		return im.ImportWordsJSON(ctx, file)
	case ".csv":
		file, err := os.Open(cfg.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer file.Close()
		return im.ImportWordsCSV(ctx, file, cfg)
	default:
		return im.importWordsExcel(ctx, cfg)
	}
}

// ImportWordsJSON imports a JSON array of words
func (im *Importer) ImportWordsJSON(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var items []wordJSON
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to decode words JSON: %w", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, item := range items {
		if err := im.importWord(ctx, item.record(), result, fmt.Sprintf("Item %d", i+1)); err != nil {
			return result, err
		}
	}

	logSummary(ctx, "words", result)
	return result, nil
}

// ImportWordsCSV imports words from CSV using the configured columns
func (im *Importer) ImportWordsCSV(ctx context.Context, r io.Reader, cfg ImportConfig) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return im.importRows(ctx, rows, cfg)
}

// importWordsExcel imports words from the configured sheet of an Excel file
func (im *Importer) importWordsExcel(ctx context.Context, cfg ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return im.importRows(ctx, rows, cfg)
}

func (im *Importer) importRows(ctx context.Context, rows [][]string, cfg ImportConfig) (*ImportResult, error) {
	result := &ImportResult{Errors: make([]string, 0)}

	for i, row := range rows {
		// Skip header rows
		if i < cfg.StartRow-1 || isBlank(row) {
			continue
		}

		rowLabel := fmt.Sprintf("Row %d", i+1)
		rec, err := recordFromRow(row, cfg)
		if err != nil {
			result.TotalProcessed++
			result.addError("%s: %v", rowLabel, err)
			continue
		}
		if err := im.importWord(ctx, rec, result, rowLabel); err != nil {
			return result, err
		}
	}

	logSummary(ctx, "words", result)
	return result, nil
}

func recordFromRow(row []string, cfg ImportConfig) (WordRecord, error) {
	rec := WordRecord{
		Text:        cell(row, cfg.TextColumn),
		Translation: cell(row, cfg.TranslationColumn),
	}

	var err error
	if rec.Grade, err = parseOptionalInt(cell(row, cfg.GradeColumn)); err != nil {
		return rec, fmt.Errorf("invalid grade: %v", err)
	}
	if rec.Level, err = parseOptionalInt(cell(row, cfg.LevelColumn)); err != nil {
		return rec, fmt.Errorf("invalid level: %v", err)
	}
	if unit := cell(row, cfg.UnitColumn); unit != "" {
		rec.Unit = &unit
	}
	return rec, nil
}

// importWord validates and stores one record. Only storage failures that make
// further rows pointless are returned; everything else lands in result.Errors.
func (im *Importer) importWord(ctx context.Context, rec WordRecord, result *ImportResult, label string) error {
	result.TotalProcessed++

	if err := im.validate.Struct(rec); err != nil {
		result.addError("%s: %v", label, err)
		return nil
	}

	existing, err := im.words.FindWordByText(ctx, rec.Text)
	if err != nil {
		return abortOrRecord(err, result, label)
	}
	if existing != nil {
		slog.DebugContext(ctx, "skipping existing word", "text", rec.Text)
		result.Skipped++
		return nil
	}

	word := &models.Word{
		Text:        rec.Text,
		Translation: rec.Translation,
		Grade:       rec.Grade,
		Unit:        rec.Unit,
		Level:       rec.Level,
	}
	if err := im.words.CreateWord(ctx, word); err != nil {
		return abortOrRecord(err, result, label)
	}

	slog.DebugContext(ctx, "imported word", "id", word.ID, "text", word.Text)
	result.Created++
	return nil
}

func abortOrRecord(err error, result *ImportResult, label string) error {
	if errors.Is(err, drill.ErrStoreUnavailable) {
		return err
	}
	result.addError("%s: %v", label, err)
	return nil
}

func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	index := 0
	for i := 0; i < len(column); i++ {
		if column[i] < 'A' || column[i] > 'Z' {
			return -1
		}
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
