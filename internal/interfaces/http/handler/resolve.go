// Package handler 提供 HTTP 请求处理器
package handler

import (
	"fmt"
	"io"

	"journal-cover-ai-api/internal/application/resolver"
	"journal-cover-ai-api/internal/interfaces/http/dto"
	"journal-cover-ai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// maxPDFBytes 上传 PDF 的大小上限，与后端内联数据限制对齐
const maxPDFBytes = 20 << 20

// ResolveHandler 文章元数据解析处理器
type ResolveHandler struct {
	resolver *resolver.Service
}

// NewResolveHandler 创建解析处理器
func NewResolveHandler(resolverSvc *resolver.Service) *ResolveHandler {
	return &ResolveHandler{
		resolver: resolverSvc,
	}
}

// ResolveDOI 按 DOI 解析文章元数据
// @Summary DOI 解析
// @Description 查询文献目录服务，返回标题、摘要、作者与期刊名；查不到摘要时返回固定占位文案
// @Tags Resolve
// @Accept json
// @Produce json
// @Param body body dto.ResolveDOIRequest true "DOI"
// @Success 200 {object} dto.Response[dto.ArticleRecordResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "DOI 未收录"
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/resolve/doi [post]
func (h *ResolveHandler) ResolveDOI(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ResolveDOIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	record, err := h.resolver.ResolveDOI(ctx, req.DOI)
	if err != nil {
		respondError(c, err, "failed to resolve doi")
		return
	}

	dto.Success(c, dto.ToArticleRecordResponse(record))
}

// ExtractPDF 从上传的 PDF 提取文章元数据
// @Summary PDF 元数据提取
// @Description 上传 PDF 首页后由生成后端提取标题、摘要、作者与期刊名，提取不到的字段为空串
// @Tags Resolve
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF 文件"
// @Success 200 {object} dto.Response[dto.ArticleRecordResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse "提取失败"
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/resolve/pdf [post]
func (h *ResolveHandler) ExtractPDF(c *gin.Context) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		dto.BadRequest(c, "missing pdf file: "+err.Error())
		return
	}
	if fileHeader.Size > maxPDFBytes {
		dto.BadRequest(c, fmt.Sprintf("pdf exceeds %d bytes", maxPDFBytes))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error(ctx, "failed to open uploaded pdf", err)
		dto.InternalError(c, "failed to read pdf")
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(io.LimitReader(file, maxPDFBytes+1))
	if err != nil {
		logger.Error(ctx, "failed to read uploaded pdf", err)
		dto.InternalError(c, "failed to read pdf")
		return
	}
	if len(payload) > maxPDFBytes {
		dto.BadRequest(c, fmt.Sprintf("pdf exceeds %d bytes", maxPDFBytes))
		return
	}

	record, err := h.resolver.ResolvePDF(ctx, payload)
	if err != nil {
		respondError(c, err, "failed to extract pdf metadata")
		return
	}

	dto.Success(c, dto.ToArticleRecordResponse(record))
}
