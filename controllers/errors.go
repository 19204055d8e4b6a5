// file: controllers/errors.go
package controllers

import (
	"errors"
	"math"
	"strconv"

	"crazy88/services"
	"crazy88/utils"

	"github.com/gin-gonic/gin"
)

// assignmentNumberParam 解析路径里的任务编号。
// 越界值直接拒绝，不允许 uint16 截断把它变成另一个合法编号。
func assignmentNumberParam(c *gin.Context) (uint16, bool) {
	n, err := strconv.Atoi(c.Param("number"))
	if err != nil || n < 1 || n > math.MaxUint16 {
		utils.Error(c, 1002, "无效的任务编号")
		return 0, false
	}
	return uint16(n), true
}

// respondServiceError 统一把服务层的哨兵错误映射为应用错误码。
// 前置校验类失败在任何写入之前就被拒绝，直接回给调用方。
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrAssignmentNotFound):
		utils.Error(c, 4004, err.Error())
	case errors.Is(err, services.ErrCompletionClosed),
		errors.Is(err, services.ErrAlreadyCompleted),
		errors.Is(err, services.ErrAssignmentInactive),
		errors.Is(err, services.ErrClockRunning),
		errors.Is(err, services.ErrClockNotRunning),
		errors.Is(err, services.ErrNoDuration):
		utils.Error(c, 4009, err.Error())
	case errors.Is(err, services.ErrEvidenceTooLarge),
		errors.Is(err, services.ErrEvidenceType):
		utils.Error(c, 1002, err.Error())
	case errors.Is(err, services.ErrUploadExhausted):
		utils.Error(c, 5002, err.Error())
	default:
		utils.Error(c, 5000, "服务器内部错误: "+err.Error())
	}
}
