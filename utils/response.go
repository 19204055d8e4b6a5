// file: utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应信封。code 为 0 表示成功，非 0 为应用错误码；
// HTTP 状态恒为 200，调用方只看 code 判断结果。
type Response struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// Success 按信封格式返回成功结果，data 为空时省略
func Success(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Msg: msg, Data: data})
}

// Error 返回应用错误码与描述
func Error(c *gin.Context, code int, msg string) {
	c.JSON(http.StatusOK, Response{Code: code, Msg: msg})
}
