package export

import (
	"bytes"
	"fmt"

	"github.com/igfollow/snapshot-service/internal/model"
	"github.com/xuri/excelize/v2"
)

// WriteXLSX serializes rows into a single-sheet workbook named after the
// snapshot type.
func WriteXLSX(sheetName string, rows []model.SnapshotRow) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}
	if err := file.SetSheetRow(sheetName, "A1", &[]interface{}{"username", "full_name"}); err != nil {
		return nil, err
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := file.SetSheetRow(sheetName, cell, &[]interface{}{row.Username, fullName(row)}); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
