package handler

import (
	"journal-cover-ai-api/internal/interfaces/http/dto"
	"journal-cover-ai-api/pkg/errors"
	"journal-cover-ai-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// respondError 将应用层错误映射为统一错误响应
// AppError 按自带的 HTTP 状态码返回，其余错误记日志并返回 500
func respondError(c *gin.Context, err error, fallback string) {
	if errors.IsAppError(err) {
		appErr := errors.AsAppError(err)
		var detail *dto.ErrorDetail
		if appErr.Detail != "" {
			detail = &dto.ErrorDetail{
				ErrorCode: string(appErr.Code),
				Details:   appErr.Detail,
			}
		}
		dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, detail)
		return
	}

	logger.Error(c.Request.Context(), fallback, err, "path", c.Request.URL.Path)
	dto.InternalError(c, fallback)
}
