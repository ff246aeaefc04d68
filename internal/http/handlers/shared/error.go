package shared

import (
	"errors"

	"github.com/boxorder-next/internal/boxorder"
	"github.com/boxorder-next/internal/http/response"
	"github.com/boxorder-next/internal/i18n"
	"github.com/boxorder-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	locale := i18n.ResolveLocale(c)
	msg := i18n.T(locale, key)
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// MappedError 业务错误到接口错误响应的映射关系
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// RespondWithMappedError 分箱校验错误原样返回 400，其余按规则映射，未命中时记录日志并返回兜底错误
func RespondWithMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	if verr, ok := boxorder.AsValidationError(err); ok {
		RespondValidationError(c, verr)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// RespondValidationError 分箱校验失败，data 中携带出错的箱子与商品
func RespondValidationError(c *gin.Context, verr *boxorder.ValidationError) {
	RequestLog(c).Infow("box_validation_rejected",
		"code", verr.Code,
		"box", verr.BoxLabel,
		"product_id", verr.ProductID,
		"variation_id", verr.VariantID,
	)
	response.ErrorWithData(c, response.CodeBadRequest, verr.Error(), gin.H{
		"code":         verr.Code,
		"box":          verr.BoxLabel,
		"product_id":   verr.ProductID,
		"variation_id": verr.VariantID,
		"limit":        verr.Limit,
	})
}
