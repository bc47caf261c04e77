package excel

import (
	"fmt"

	"github.com/example/deutschbot/pkg/models"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Vocabulary"

var header = []string{"German", "English", "Date learned", "Topic", "Difficulty", "Times seen", "Mastery"}

// ExportVocabulary writes the vocabulary list to an Excel workbook and returns
// the file contents.
func ExportVocabulary(entries []models.VocabularyEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %v", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %v", err)
	}

	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute header cell: %v", err)
		}
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return nil, fmt.Errorf("failed to write header: %v", err)
		}
	}

	for row, entry := range entries {
		values := []interface{}{
			entry.German,
			entry.English,
			entry.DateLearned,
			entry.Topic,
			entry.Difficulty,
			entry.TimesSeen,
			entry.MasteryLevel,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("failed to compute cell: %v", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %v", row+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %v", err)
	}
	return buf.Bytes(), nil
}
