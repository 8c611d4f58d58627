// Package handler 提供 HTTP 请求处理器
package handler

import (
	"journal-cover-ai-api/internal/application/pipeline"
	"journal-cover-ai-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// GenerateHandler 封面生成处理器
type GenerateHandler struct {
	pipeline *pipeline.Service
}

// NewGenerateHandler 创建生成处理器
func NewGenerateHandler(pipelineSvc *pipeline.Service) *GenerateHandler {
	return &GenerateHandler{
		pipeline: pipelineSvc,
	}
}

// GenerateCover 提交封面生成
// @Summary 提交封面生成
// @Description 校验文章记录后异步执行描述与生成两阶段，立即返回 analyzing 状态的会话快照，进度通过轮询会话获取
// @Tags Generation
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.GenerateCoverRequest true "文章记录与生成配置"
// @Success 202 {object} dto.Response[dto.SessionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "会话已有操作在途"
// @Failure 503 {object} dto.ErrorResponse "模型凭证未配置"
// @Router /v1/sessions/{sid}/generate [post]
func (h *GenerateHandler) GenerateCover(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := dto.BindSessionID(c)

	var req dto.GenerateCoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	sess, err := h.pipeline.Submit(ctx, sessionID, req.ToArticleRecord(), req.ToGenerationConfig())
	if err != nil {
		respondError(c, err, "failed to submit generation")
		return
	}

	dto.Accepted(c, dto.ToSessionResponse(sess))
}

// RefineCover 润色当前封面
// @Summary 润色当前封面
// @Description 基于当前图像与润色指令异步生成新图像，失败时保留原图像
// @Tags Generation
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.RefineCoverRequest true "润色指令"
// @Success 202 {object} dto.Response[dto.SessionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "会话不在已完成状态"
// @Failure 503 {object} dto.ErrorResponse "模型凭证未配置"
// @Router /v1/sessions/{sid}/refine [post]
func (h *GenerateHandler) RefineCover(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := dto.BindSessionID(c)

	var req dto.RefineCoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	sess, err := h.pipeline.Refine(ctx, sessionID, req.Instruction)
	if err != nil {
		respondError(c, err, "failed to submit refinement")
		return
	}

	dto.Accepted(c, dto.ToSessionResponse(sess))
}
