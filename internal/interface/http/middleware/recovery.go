package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookcatalog/pkg/errors"
	"github.com/xiebiao/bookcatalog/pkg/response"
)

// Recovery panic恢复,记录堆栈并返回统一的500响应
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered",
					zap.String("request_id", GetRequestID(c)),
					zap.Any("panic", rec),
					zap.StackSkip("stack", 1),
				)
				if !c.Writer.Written() {
					response.ErrorWithCode(c, apperrors.ErrCodeInternal, "系统内部错误")
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
