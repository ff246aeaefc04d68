package public

import (
	"strings"

	handlershared "github.com/boxorder-next/internal/http/handlers/shared"
	"github.com/boxorder-next/internal/http/response"
	"github.com/boxorder-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetProducts 下单表单商品搜索，仅返回上架商品及其规格
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := handlershared.ReadPagination(c)
	products, total, err := h.CatalogService.Search(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     strings.TrimSpace(c.Query("q")),
		OnlyActive: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, products, handlershared.BuildPagination(page, pageSize, total))
}

// GetCart 当前会话购物车
func (h *Handler) GetCart(c *gin.Context) {
	view, err := h.CartService.View(handlershared.ReadSessionKey(c))
	if err != nil {
		respondBoxOrderFormError(c, err)
		return
	}
	response.Success(c, view)
}
