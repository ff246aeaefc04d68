package admin

import (
	"errors"
	"strconv"
	"strings"

	handlershared "github.com/boxorder-next/internal/http/handlers/shared"
	"github.com/boxorder-next/internal/http/response"
	"github.com/boxorder-next/internal/repository"
	"github.com/boxorder-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListCustomers 客户搜索（下单表单选择客户）
func (h *Handler) ListCustomers(c *gin.Context) {
	page, pageSize := handlershared.ReadPagination(c)
	customers, total, err := h.CustomerService.Search(strings.TrimSpace(c.Query("q")), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, customers, handlershared.BuildPagination(page, pageSize, total))
}

// GetCustomer 客户详情，用于回填账单地址
func (h *Handler) GetCustomer(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	customer, err := h.CustomerService.Get(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			respondError(c, response.CodeNotFound, "error.customer_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, customer)
}

// ListProducts 商品搜索（含下架商品）
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := handlershared.ReadPagination(c)
	products, total, err := h.CatalogService.Search(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   strings.TrimSpace(c.Query("q")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, products, handlershared.BuildPagination(page, pageSize, total))
}
