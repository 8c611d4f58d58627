// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"github.com/gin-gonic/gin"
)

// BindSessionID 从 URI 取出会话 ID
func BindSessionID(c *gin.Context) string {
	return c.Param("sid")
}
