package admin

import (
	"strconv"

	handlershared "github.com/boxorder-next/internal/http/handlers/shared"
	"github.com/boxorder-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, handlershared.ContextKeyAdminID, "error.unauthorized", "error.internal")
}

// currentAccount 当前登录账号，未登录时已写入 401 响应
func currentAccount(c *gin.Context) (handlershared.Account, bool) {
	if _, ok := getAdminID(c); !ok {
		return handlershared.Account{}, false
	}
	return handlershared.CurrentAccount(c), true
}

func parseOrderID(c *gin.Context) (uint, bool) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || orderID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(orderID), true
}
