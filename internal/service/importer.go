package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"parceldesk/api/internal/csvcodec"
	"parceldesk/api/internal/model"
	"parceldesk/api/internal/store"
)

const (
	importSheetName = "Locations"
	importBatchSize = 100
	maxKeptErrors   = 50
	maxKeptTasks    = 100
)

// LocationImporter runs bulk location imports: parse, validate, then
// create rows through the sync coordinator so an upstream outage
// degrades to locally-cached records instead of failing the import.
type LocationImporter struct {
	coord *store.Coordinator[*model.Location]
	tasks map[string]*model.ImportResult
	// failedRows keeps the original cells of rejected rows per task so
	// the error report can be downloaded after the import finished.
	failedRows map[string][]model.LocationImportRow
	tasksMu    sync.RWMutex
}

// NewLocationImporter creates a new location importer.
func NewLocationImporter(coord *store.Coordinator[*model.Location]) *LocationImporter {
	return &LocationImporter{
		coord:      coord,
		tasks:      make(map[string]*model.ImportResult),
		failedRows: make(map[string][]model.LocationImportRow),
	}
}

// Template generates the XLSX import template: a data sheet with
// headers and one example row, plus a notes sheet describing each
// column.
func (s *LocationImporter) Template() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", importSheetName)

	columns := model.LocationImportColumns()
	for i, col := range columns {
		cell := fmt.Sprintf("%c1", 'A'+i)
		header := col.Name
		if col.Required {
			header += "*"
		}
		f.SetCellValue(importSheetName, cell, header)
	}
	for i, col := range columns {
		cell := fmt.Sprintf("%c2", 'A'+i)
		f.SetCellValue(importSheetName, cell, col.Example)
	}
	for i := range columns {
		col := string(rune('A' + i))
		f.SetColWidth(importSheetName, col, col, 20)
	}

	f.NewSheet("Notes")
	f.SetCellValue("Notes", "A1", "column")
	f.SetCellValue("Notes", "B1", "required")
	f.SetCellValue("Notes", "C1", "description")
	f.SetCellValue("Notes", "D1", "example")
	for i, col := range columns {
		row := i + 2
		required := "no"
		if col.Required {
			required = "yes"
		}
		f.SetCellValue("Notes", fmt.Sprintf("A%d", row), col.Name)
		f.SetCellValue("Notes", fmt.Sprintf("B%d", row), required)
		f.SetCellValue("Notes", fmt.Sprintf("C%d", row), col.Description)
		f.SetCellValue("Notes", fmt.Sprintf("D%d", row), col.Example)
	}
	f.SetColWidth("Notes", "A", "B", 12)
	f.SetColWidth("Notes", "C", "C", 50)
	f.SetColWidth("Notes", "D", "D", 20)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

// ParseCSV decodes CSV text into import rows. Unknown headers are
// ignored and missing trailing fields come back empty; the codec raises
// no row-level errors, validation happens in ValidateRows.
func (s *LocationImporter) ParseCSV(text string) []model.LocationImportRow {
	decoded := csvcodec.Decode(text)
	rows := make([]model.LocationImportRow, 0, len(decoded))
	for i, rec := range decoded {
		rows = append(rows, model.LocationImportRow{
			RowNum:  i + 2, // 1-based, after the header line
			Name:    strings.TrimSpace(rec["name"]),
			Slug:    strings.TrimSpace(rec["slug"]),
			Country: strings.TrimSpace(rec["country"]),
		})
	}
	return rows
}

// ParseXLSX decodes the first sheet of an Excel upload, preferring the
// template's data sheet when present.
func (s *LocationImporter) ParseXLSX(reader io.Reader) ([]model.LocationImportRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("cannot read xlsx file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file has no sheets")
	}
	sheetName := sheets[0]
	for _, name := range sheets {
		if name == importSheetName {
			sheetName = name
			break
		}
	}

	raw, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %s: %w", sheetName, err)
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("file needs a header row and at least one data row")
	}

	headerIdx := make(map[string]int)
	for i, cell := range raw[0] {
		headerIdx[strings.TrimSuffix(strings.ToLower(strings.TrimSpace(cell)), "*")] = i
	}
	for _, required := range []string{"name", "country"} {
		if _, ok := headerIdx[required]; !ok {
			return nil, fmt.Errorf("missing required column: %s", required)
		}
	}

	cellAt := func(row []string, header string) string {
		if idx, ok := headerIdx[header]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []model.LocationImportRow
	for i := 1; i < len(raw); i++ {
		row := raw[i]
		if isEmptyRow(row) {
			continue
		}
		rows = append(rows, model.LocationImportRow{
			RowNum:  i + 1,
			Name:    cellAt(row, "name"),
			Slug:    cellAt(row, "slug"),
			Country: cellAt(row, "country"),
		})
	}
	return rows, nil
}

// ValidateRows annotates rows with validation errors: required fields,
// length limits and duplicate names within the file.
func (s *LocationImporter) ValidateRows(rows []model.LocationImportRow) []model.LocationImportRow {
	seen := make(map[string]int)

	for i := range rows {
		row := &rows[i]
		var errs []string

		if row.Name == "" {
			errs = append(errs, "name is required")
		} else {
			if len(row.Name) > 100 {
				errs = append(errs, "name must not exceed 100 characters")
			}
			if prev, ok := seen[strings.ToLower(row.Name)]; ok {
				errs = append(errs, fmt.Sprintf("duplicate of row %d", prev))
			} else {
				seen[strings.ToLower(row.Name)] = row.RowNum
			}
		}
		if row.Country == "" {
			errs = append(errs, "country is required")
		}

		if len(errs) > 0 {
			row.Error = strings.Join(errs, "; ")
		}
	}
	return rows
}

// Preview validates without importing and returns a bounded sample for
// the confirmation screen.
func (s *LocationImporter) Preview(rows []model.LocationImportRow) map[string]interface{} {
	validated := s.ValidateRows(rows)

	validCount := 0
	invalidCount := 0
	var preview []map[string]interface{}
	for _, row := range validated {
		item := map[string]interface{}{
			"row_num": row.RowNum,
			"name":    row.Name,
			"slug":    row.Slug,
			"country": row.Country,
			"valid":   row.Error == "",
		}
		if row.Error != "" {
			item["error"] = row.Error
			invalidCount++
		} else {
			validCount++
		}
		preview = append(preview, item)
	}
	if len(preview) > 20 {
		preview = preview[:20]
	}

	return map[string]interface{}{
		"total":         len(rows),
		"valid_count":   validCount,
		"invalid_count": invalidCount,
		"preview":       preview,
	}
}

// Import runs the import asynchronously and tracks progress under the
// task id.
func (s *LocationImporter) Import(ctx context.Context, taskID string, rows []model.LocationImportRow) {
	result := &model.ImportResult{
		TaskID:     taskID,
		Status:     "processing",
		TotalCount: len(rows),
	}

	s.tasksMu.Lock()
	s.tasks[taskID] = result
	s.tasksMu.Unlock()

	go s.processImport(context.WithoutCancel(ctx), taskID, rows)
}

func (s *LocationImporter) processImport(ctx context.Context, taskID string, rows []model.LocationImportRow) {
	total := len(rows)
	successCount := 0
	errorCount := 0
	var importErrors []model.ImportError
	var failed []model.LocationImportRow

	for i, row := range rows {
		if row.Error != "" {
			errorCount++
			importErrors = append(importErrors, model.ImportError{RowNum: row.RowNum, Error: row.Error})
			if len(failed) < maxKeptErrors {
				failed = append(failed, row)
			}
		} else {
			loc := &model.Location{
				Name:    row.Name,
				Slug:    row.Slug,
				Country: row.Country,
			}
			if loc.Slug == "" {
				loc.Slug = Slugify(loc.Name)
			}
			// The offset keeps fallback ids distinct when the whole
			// batch is created while the upstream is down.
			s.coord.CreateAt(ctx, loc, i)
			successCount++
		}

		if (i+1)%importBatchSize == 0 || i == total-1 {
			progress := int(float64(i+1) / float64(total) * 100)
			s.tasksMu.Lock()
			if task, ok := s.tasks[taskID]; ok {
				task.Progress = progress
				task.SuccessCount = successCount
				task.ErrorCount = errorCount
			}
			s.tasksMu.Unlock()
			time.Sleep(10 * time.Millisecond)
		}
	}

	s.tasksMu.Lock()
	if task, ok := s.tasks[taskID]; ok {
		task.Status = "completed"
		task.SuccessCount = successCount
		task.ErrorCount = errorCount
		if len(importErrors) > maxKeptErrors {
			task.Errors = importErrors[:maxKeptErrors]
		} else {
			task.Errors = importErrors
		}
		s.failedRows[taskID] = failed
	}
	s.tasksMu.Unlock()

	s.cleanupTasks()
}

// Result returns the live state of an import task.
func (s *LocationImporter) Result(taskID string) (*model.ImportResult, bool) {
	s.tasksMu.RLock()
	defer s.tasksMu.RUnlock()
	result, ok := s.tasks[taskID]
	return result, ok
}

// ErrorReport renders the failed rows of a finished task as XLSX.
func (s *LocationImporter) ErrorReport(taskID string) (*bytes.Buffer, bool, error) {
	s.tasksMu.RLock()
	rows, ok := s.failedRows[taskID]
	s.tasksMu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Import errors"
	f.SetSheetName("Sheet1", sheetName)

	headers := []string{"row", "name", "slug", "country", "error"}
	for i, header := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%c1", 'A'+i), header)
	}

	rowNum := 2
	for _, row := range rows {
		if row.Error == "" {
			continue
		}
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", rowNum), row.RowNum)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", rowNum), row.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", rowNum), row.Slug)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", rowNum), row.Country)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", rowNum), row.Error)
		rowNum++
	}
	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "D", 20)
	f.SetColWidth(sheetName, "E", "E", 50)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, true, err
	}
	return &buf, true, nil
}

// cleanupTasks bounds the in-memory task map.
func (s *LocationImporter) cleanupTasks() {
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	if len(s.tasks) <= maxKeptTasks {
		return
	}
	for id, task := range s.tasks {
		if len(s.tasks) <= maxKeptTasks {
			break
		}
		if task.Status == "completed" {
			delete(s.tasks, id)
			delete(s.failedRows, id)
		}
	}
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
