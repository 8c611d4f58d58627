// Package handler 提供 HTTP 请求处理器
package handler

import (
	"fmt"
	"net/http"

	"journal-cover-ai-api/internal/application/export"
	"journal-cover-ai-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// ExportHandler 封面导出处理器
type ExportHandler struct {
	exporter *export.Service
}

// NewExportHandler 创建导出处理器
func NewExportHandler(exporter *export.Service) *ExportHandler {
	return &ExportHandler{
		exporter: exporter,
	}
}

// ExportCover 导出封面 PDF
// @Summary 导出封面为 A4 PDF
// @Description 将当前封面连同排版文字渲染为单页 A4 PDF 下载，导出期间会话被锁定，结束后恢复导出前的编辑器模式
// @Tags Export
// @Accept json
// @Produce application/pdf
// @Param sid path string true "会话 ID"
// @Success 200 {file} binary "PDF 文件"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "已有导出在途"
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/export [post]
func (h *ExportHandler) ExportCover(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := dto.BindSessionID(c)

	result, err := h.exporter.Export(ctx, sessionID)
	if err != nil {
		respondError(c, err, "failed to export cover")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, "application/pdf", result.Data)
}
