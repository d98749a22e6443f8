package adminapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"

	"github.com/merabestie/sellerhub/internal/domain"
	"github.com/merabestie/sellerhub/internal/webserver"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportHeader = []string{
	"productId", "name", "price", "category", "rating",
	"inStockValue", "soldStockValue", "description", "visibility", "createdAt",
}

func registerExportRoutes() {
	webserver.ApiGET("/export-products", exportProducts)
}

func exportProducts(c echo.Context) error {
	var rows []domain.Product
	if err := GetDB(c).Order("created_at ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	stamp := time.Now().Format("20060102")
	switch c.QueryParam("format") {
	case "", "csv":
		buf := &bytes.Buffer{}
		if err := gocsv.Marshal(&rows, buf); err != nil {
			return fail(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to export products", err.Error())
		}
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="products-%s.csv"`, stamp))
		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "xlsx":
		buf := &bytes.Buffer{}
		if err := writeProductSheet(buf, rows); err != nil {
			return fail(c, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to export products", err.Error())
		}
		c.Response().Header().Set(echo.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="products-%s.xlsx"`, stamp))
		return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
	default:
		return fail(c, http.StatusBadRequest, "INVALID_FORMAT", "Unsupported export format", "use csv or xlsx")
	}
}

func cellName(col, row int) string {
	return fmt.Sprintf("%c%d", 'A'+col, row)
}

func writeProductSheet(w *bytes.Buffer, rows []domain.Product) error {
	const sheet = "Sheet1"
	f := excelize.NewFile()
	for i, h := range exportHeader {
		f.SetCellValue(sheet, cellName(i, 1), h)
	}
	for r, p := range rows {
		line := r + 2
		values := []interface{}{
			p.ProductId, p.Name, p.Price.StringFixed(2), p.Category, p.Rating,
			p.InStockValue, p.SoldStockValue, p.Description, p.Visibility,
			p.CreatedAt.Format(time.RFC3339),
		}
		for i, v := range values {
			f.SetCellValue(sheet, cellName(i, line), v)
		}
	}
	return f.Write(w)
}
