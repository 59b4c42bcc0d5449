package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"parceldesk/api/internal/csvcodec"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// writeCSVExport encodes rows with the screen's header order and serves
// them as a download.
func writeCSVExport(c *gin.Context, filename string, rows []csvcodec.Row, headers []string) {
	text := csvcodec.Encode(rows, headers)
	csvcodec.WriteDownload(c.Writer, filename, []byte(text), "")
}

// writeXLSXExport renders the same tabular data as a spreadsheet for
// screens that prefer Excel.
func writeXLSXExport(c *gin.Context, filename, sheet string, rows []csvcodec.Row, headers []string) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetSheetName("Sheet1", sheet)

	for i, h := range headers {
		f.SetCellValue(sheet, fmt.Sprintf("%c1", 'A'+i), h)
	}
	for r, row := range rows {
		for i, h := range headers {
			f.SetCellValue(sheet, fmt.Sprintf("%c%d", 'A'+i, r+2), row[h])
		}
	}

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
