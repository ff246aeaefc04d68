package public

import (
	handlershared "github.com/boxorder-next/internal/http/handlers/shared"
	"github.com/boxorder-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

var boxOrderFormErrorRules = handlershared.ConcatMappedErrors(
	handlershared.BoxOrderErrorRules,
	handlershared.CaptchaErrorRules,
)

func respondBoxOrderFormError(c *gin.Context, err error) {
	handlershared.RespondWithMappedError(c, err, boxOrderFormErrorRules, response.CodeInternal, "error.internal")
}
