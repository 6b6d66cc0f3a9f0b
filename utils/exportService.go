package utils

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/xuri/excelize/v2"
)

// ExcelSheet is one sheet of a spreadsheet export; the first row is the header
type ExcelSheet struct {
	Name string
	Rows [][]interface{}
}

// ExportFileInfo describes one file in the export directory
type ExportFileInfo struct {
	Filename   string `json:"filename"`
	Size       int64  `json:"size"`
	ModifiedAt string `json:"modified_at"`
}

// WriteCSV writes a header row followed by data rows
func WriteCSV(path string, header []string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// WriteExcel writes one sheet per entry; comprehensive exports pass several
func WriteExcel(path string, sheets []ExcelSheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			// reuse the default sheet for the first entry
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return err
			}
		} else {
			if _, err := f.NewSheet(sheet.Name); err != nil {
				return err
			}
		}
		for r, row := range sheet.Rows {
			for col, val := range row {
				cell, err := excelize.CoordinatesToCellName(col+1, r+1)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet.Name, cell, val); err != nil {
					return err
				}
			}
		}
	}

	return f.SaveAs(path)
}

// WriteJSON writes an indented JSON document
func WriteJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ListExports enumerates the export directory, newest first
func ListExports(dir string) ([]ExportFileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []ExportFileInfo{}, nil
		}
		return nil, err
	}

	files := make([]ExportFileInfo, 0, len(entries))
	modTimes := make(map[string]int64, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, ExportFileInfo{
			Filename:   entry.Name(),
			Size:       info.Size(),
			ModifiedAt: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		modTimes[entry.Name()] = info.ModTime().UnixNano()
	}

	sort.Slice(files, func(i, j int) bool {
		return modTimes[files[i].Filename] > modTimes[files[j].Filename]
	})

	return files, nil
}
