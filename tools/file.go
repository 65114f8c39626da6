package tools

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const (
	ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SendExcel 把工作簿作为附件写回，displayName 不含扩展名
func SendExcel(c *gin.Context, f *excelize.File, displayName string) error {
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return err
	}
	escaped := url.QueryEscape(displayName + ".xlsx")
	c.Header(
		"Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, escaped, escaped),
	)
	c.Data(http.StatusOK, ExcelContentType, buf.Bytes())
	return nil
}
