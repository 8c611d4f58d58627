// Package router 提供 HTTP 路由配置
package router

import (
	"journal-cover-ai-api/internal/interfaces/http/handler"

	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(
	v1 *gin.RouterGroup,
	sessionHandler *handler.SessionHandler,
	resolveHandler *handler.ResolveHandler,
	generateHandler *handler.GenerateHandler,
	layoutHandler *handler.LayoutHandler,
	exportHandler *handler.ExportHandler,
) {
	// 文章元数据解析
	resolve := v1.Group("/resolve")
	{
		resolve.POST("/doi", resolveHandler.ResolveDOI)
		resolve.POST("/pdf", resolveHandler.ExtractPDF)
	}

	// 会话管理
	sessions := v1.Group("/sessions")
	{
		sessions.POST("", sessionHandler.CreateSession)
		sessions.GET("/:sid", sessionHandler.GetSession)
		sessions.DELETE("/:sid", sessionHandler.DeleteSession)
		sessions.POST("/:sid/reset", sessionHandler.ResetSession)

		// 生成与润色
		sessions.POST("/:sid/generate", generateHandler.GenerateCover)
		sessions.POST("/:sid/refine", generateHandler.RefineCover)

		// 排版编辑
		sessions.PUT("/:sid/mode", layoutHandler.SetMode)
		sessions.POST("/:sid/layout/drag", layoutHandler.Drag)
		sessions.PUT("/:sid/focus", layoutHandler.SetFocus)
		sessions.PUT("/:sid/cover-text", layoutHandler.UpdateCoverText)
		sessions.POST("/:sid/font-offset", layoutHandler.AdjustFontOffset)

		// 导出
		sessions.POST("/:sid/export", exportHandler.ExportCover)
	}
}
