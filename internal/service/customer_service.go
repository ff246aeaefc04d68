package service

import (
	"strings"

	"github.com/boxorder-next/internal/models"
	"github.com/boxorder-next/internal/repository"
)

// CustomerService 后台下单时的客户检索
type CustomerService struct {
	repo repository.CustomerRepository
}

// NewCustomerService 创建客户服务
func NewCustomerService(repo repository.CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

// Search 按姓名或邮箱检索客户
func (s *CustomerService) Search(keyword string, page, pageSize int) ([]models.Customer, int64, error) {
	page, pageSize = normalizePagination(page, pageSize)
	return s.repo.Search(repository.CustomerListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(keyword),
	})
}

// Get 获取客户
func (s *CustomerService) Get(id uint) (*models.Customer, error) {
	customer, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	return customer, nil
}
