// Package handler 提供 HTTP 请求处理器
package handler

import (
	"journal-cover-ai-api/internal/application/layout"
	"journal-cover-ai-api/internal/domain/entity"
	"journal-cover-ai-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// LayoutHandler 排版编辑处理器
type LayoutHandler struct {
	layout *layout.Service
}

// NewLayoutHandler 创建排版处理器
func NewLayoutHandler(layoutSvc *layout.Service) *LayoutHandler {
	return &LayoutHandler{
		layout: layoutSvc,
	}
}

// SetMode 切换编辑器模式
// @Summary 切换编辑器模式
// @Description 在 edit 与 layout 两种模式间切换，切换会结束在途拖拽
// @Tags Layout
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.SetModeRequest true "目标模式"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "未知模式"
// @Router /v1/sessions/{sid}/mode [put]
func (h *LayoutHandler) SetMode(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := dto.BindSessionID(c)

	var req dto.SetModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	sess, err := h.layout.SetMode(ctx, sessionID, entity.EditorMode(req.Mode))
	if err != nil {
		respondError(c, err, "failed to set editor mode")
		return
	}

	dto.Success(c, dto.ToSessionResponse(sess))
}

// Drag 处理拖拽指针事件
// @Summary 拖拽文字分组
// @Description 接收 begin/move/end 指针事件并返回最新排版，位移按画布尺寸折算为百分比，move 与 end 在无拖拽时为无操作
// @Tags Layout
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.DragRequest true "指针事件"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "当前不在排版模式"
// @Router /v1/sessions/{sid}/layout/drag [post]
func (h *LayoutHandler) Drag(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := dto.BindSessionID(c)

	var req dto.DragRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	sess, err := h.layout.HandleDrag(ctx, sessionID, layout.DragEvent{
		Phase:        layout.DragPhase(req.Phase),
		Group:        entity.GroupKey(req.Group),
		PointerX:     req.PointerX,
		PointerY:     req.PointerY,
		CanvasWidth:  req.CanvasWidth,
		CanvasHeight: req.CanvasHeight,
	})
	if err != nil {
		respondError(c, err, "failed to handle drag event")
		return
	}

	dto.Success(c, dto.ToSessionResponse(sess))
}

// SetFocus 设置输入焦点
// @Summary 设置输入焦点字段
// @Description 记录当前持有输入焦点的封面文字字段，空字段名清除焦点
// @Tags Layout
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.SetFocusRequest true "焦点字段"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/focus [put]
func (h *LayoutHandler) SetFocus(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := dto.BindSessionID(c)

	var req dto.SetFocusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	sess, err := h.layout.SetFocus(ctx, sessionID, entity.FieldName(req.Field))
	if err != nil {
		respondError(c, err, "failed to set focus")
		return
	}

	dto.Success(c, dto.ToSessionResponse(sess))
}

// UpdateCoverText 更新封面文字
// @Summary 更新封面文字字段
// @Description 批量更新请求中出现的封面文字字段，未出现的字段保持不变
// @Tags Layout
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.UpdateCoverTextRequest true "待更新字段"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/cover-text [put]
func (h *LayoutHandler) UpdateCoverText(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := dto.BindSessionID(c)

	var req dto.UpdateCoverTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	sess, err := h.layout.UpdateMetadata(ctx, sessionID, req.FieldMap())
	if err != nil {
		respondError(c, err, "failed to update cover text")
		return
	}

	dto.Success(c, dto.ToSessionResponse(sess))
}

// AdjustFontOffset 调整字号偏移
// @Summary 调整字号偏移
// @Description 对目标字段叠加一档字号偏移，delta 只接受 +1 或 -1，field 为空时作用于焦点字段
// @Tags Layout
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Param body body dto.FontOffsetRequest true "偏移请求"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/font-offset [post]
func (h *LayoutHandler) AdjustFontOffset(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := dto.BindSessionID(c)

	var req dto.FontOffsetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	sess, err := h.layout.AdjustFontOffset(ctx, sessionID, entity.FieldName(req.Field), req.Delta)
	if err != nil {
		respondError(c, err, "failed to adjust font offset")
		return
	}

	dto.Success(c, dto.ToSessionResponse(sess))
}
