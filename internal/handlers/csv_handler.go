package handlers

import (
	"bytes"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-toudou/internal/services"
)

// CSVHandler はCSVの入出力エンドポイントを管理します。
type CSVHandler struct {
	csvService *services.CSVService
}

// NewCSVHandler は新しいCSVHandlerを作成します。
func NewCSVHandler(csvService *services.CSVService) *CSVHandler {
	return &CSVHandler{csvService: csvService}
}

// ExportHandler は全Todoをtodos.csvとしてダウンロードさせます。
// 認証済みであればロールを問いません。
func (h *CSVHandler) ExportHandler(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.csvService.Export(&buf); err != nil {
		log.Printf("Failed to export todos: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export todos"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename=todos.csv`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ImportHandler はアップロードされたCSVファイルを取り込みます。adminのみ。
// ファイルが無い・空の場合はストアに触れずに400を返します。
func (h *CSVHandler) ImportHandler(c *gin.Context) {
	role, ok := roleFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found in context"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}
	if fileHeader.Size == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file"})
		return
	}
	defer file.Close()

	imported, err := h.csvService.Import(file, role)
	if err != nil {
		if errors.Is(err, services.ErrForbidden) {
			forbidden(c)
			return
		}
		var importErr *services.ImportError
		if errors.As(err, &importErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": importErr.Error()})
			return
		}
		log.Printf("Failed to import todos: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import todos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Import successful", "imported": imported})
}
