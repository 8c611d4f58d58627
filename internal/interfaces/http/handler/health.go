// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"journal-cover-ai-api/internal/application/port"
	"journal-cover-ai-api/internal/domain/entity"
	"journal-cover-ai-api/internal/domain/repository"
	"journal-cover-ai-api/internal/infrastructure/persistence/redis"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	store   repository.SessionRepository
	backend port.GenerativeBackend
	redis   *redis.Client
}

// NewHealthHandler 创建健康检查处理器，redisClient 可为 nil
func NewHealthHandler(store repository.SessionRepository, backend port.GenerativeBackend, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		store:   store,
		backend: backend,
		redis:   redisClient,
	}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

type readinessCheck struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Sessions  int    `json:"sessions,omitempty"`
}

type readinessResponse struct {
	Status string                     `json:"status"`
	Checks map[string]*readinessCheck `json:"checks,omitempty"`
}

// Health 健康检查接口
// @Summary 健康检查
// @Description 检查服务健康状态
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}

// Ready 就绪检查接口
// @Summary 就绪检查
// @Description 检查会话存储、生成后端凭证与可选的 Redis；凭证缺失与 Redis 故障只降级不拦截流量
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]*readinessCheck{
		"session_store": {Status: "unknown"},
		"backend":       {Status: "unknown"},
	}

	ready := true

	// 会话存储（必需）
	if h == nil || h.store == nil {
		checks["session_store"].Status = "missing"
		checks["session_store"].Error = "session store not configured"
		ready = false
	} else {
		start := time.Now()
		count, err := h.store.Count(ctx)
		checks["session_store"].LatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			checks["session_store"].Status = "error"
			checks["session_store"].Error = err.Error()
			ready = false
		} else {
			checks["session_store"].Status = "ok"
			checks["session_store"].Sessions = count
		}
	}

	// 生成后端（凭证缺失只降级，排版与导出不依赖后端）
	if h == nil || h.backend == nil {
		checks["backend"].Status = "missing"
		checks["backend"].Error = "generative backend not configured"
		ready = false
	} else if err := h.backend.EnsureModelAccess(entity.ImageModelFast); err != nil {
		checks["backend"].Status = "degraded"
		checks["backend"].Error = err.Error()
	} else {
		checks["backend"].Status = "ok"
	}

	// Redis（可选，限流器故障时放行，不影响就绪态）
	if h != nil && h.redis != nil {
		checks["redis"] = &readinessCheck{Status: "unknown"}
		start := time.Now()
		err := h.redis.HealthCheck(ctx)
		checks["redis"].LatencyMs = time.Since(start).Milliseconds()
		if err != nil {
			checks["redis"].Status = "degraded"
			checks["redis"].Error = err.Error()
		} else {
			checks["redis"].Status = "ok"
		}
	}

	resp := readinessResponse{
		Status: "ok",
		Checks: checks,
	}
	if !ready {
		resp.Status = "not_ready"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Live 存活检查接口
// @Summary 存活检查
// @Description 检查服务是否存活
// @Tags System
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
	})
}
