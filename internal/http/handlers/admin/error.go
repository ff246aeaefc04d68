package admin

import (
	handlershared "github.com/boxorder-next/internal/http/handlers/shared"
	"github.com/boxorder-next/internal/http/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

var boxOrderEditErrorRules = handlershared.ConcatMappedErrors(
	handlershared.BoxOrderErrorRules,
	handlershared.FulfillmentErrorRules,
)

func respondBoxOrderError(c *gin.Context, err error) {
	handlershared.RespondWithMappedError(c, err, boxOrderEditErrorRules, response.CodeInternal, "error.internal")
}
