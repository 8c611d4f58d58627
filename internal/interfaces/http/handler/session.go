// Package handler 提供 HTTP 请求处理器
package handler

import (
	"journal-cover-ai-api/internal/application/session"
	"journal-cover-ai-api/internal/interfaces/http/dto"

	"github.com/gin-gonic/gin"
)

// SessionHandler 会话处理器
type SessionHandler struct {
	sessions *session.Service
}

// NewSessionHandler 创建会话处理器
func NewSessionHandler(sessions *session.Service) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
	}
}

// CreateSession 创建会话
// @Summary 创建封面生成会话
// @Description 创建一个空闲状态的新会话，返回默认排版与占位封面文字
// @Tags Sessions
// @Accept json
// @Produce json
// @Success 201 {object} dto.Response[dto.SessionResponse]
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	ctx := c.Request.Context()

	sess, err := h.sessions.Create(ctx)
	if err != nil {
		respondError(c, err, "failed to create session")
		return
	}

	dto.Created(c, dto.ToSessionResponse(sess))
}

// GetSession 获取会话
// @Summary 获取会话详情
// @Description 返回会话当前状态、生成结果、排版与封面文字
// @Tags Sessions
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := dto.BindSessionID(c)

	sess, err := h.sessions.Get(ctx, sessionID)
	if err != nil {
		respondError(c, err, "failed to get session")
		return
	}

	dto.Success(c, dto.ToSessionResponse(sess))
}

// DeleteSession 删除会话
// @Summary 删除会话
// @Description 删除会话及其生成结果，删除不存在的会话同样返回成功
// @Tags Sessions
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 204
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := dto.BindSessionID(c)

	if err := h.sessions.Delete(ctx, sessionID); err != nil {
		respondError(c, err, "failed to delete session")
		return
	}

	dto.NoContent(c)
}

// ResetSession 重置会话
// @Summary 重置会话
// @Description 清除生成结果与文章记录回到空闲状态，排版与封面文字保留
// @Tags Sessions
// @Accept json
// @Produce json
// @Param sid path string true "会话 ID"
// @Success 200 {object} dto.Response[dto.SessionResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/sessions/{sid}/reset [post]
func (h *SessionHandler) ResetSession(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := dto.BindSessionID(c)

	sess, err := h.sessions.Reset(ctx, sessionID)
	if err != nil {
		respondError(c, err, "failed to reset session")
		return
	}

	dto.Success(c, dto.ToSessionResponse(sess))
}
