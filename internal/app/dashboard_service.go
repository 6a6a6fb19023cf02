package app

import (
	"shopy/internal/model"
	"shopy/internal/repository"
)

// DashboardService aggregates the admin landing-page numbers. Straight
// counts and a sum; fine at this catalog's scale.
type DashboardService struct {
	orderRepo   *repository.OrderRepository
	productRepo *repository.ProductRepository
	userRepo    *repository.UserRepository
}

type DashboardMetrics struct {
	Revenue      float64       `json:"revenue"`
	Orders       int64         `json:"orders"`
	Products     int64         `json:"products"`
	Customers    int64         `json:"customers"`
	RecentOrders []model.Order `json:"recent_orders"`
}

func NewDashboardService(
	orderRepo *repository.OrderRepository,
	productRepo *repository.ProductRepository,
	userRepo *repository.UserRepository,
) *DashboardService {
	return &DashboardService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

func (s *DashboardService) Metrics() (*DashboardMetrics, error) {
	revenue, err := s.orderRepo.SumTotals()
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.Count()
	if err != nil {
		return nil, err
	}
	products, err := s.productRepo.Count()
	if err != nil {
		return nil, err
	}
	customers, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	recent, err := s.orderRepo.ListRecent(5)
	if err != nil {
		return nil, err
	}

	return &DashboardMetrics{
		Revenue:      revenue,
		Orders:       orders,
		Products:     products,
		Customers:    customers,
		RecentOrders: recent,
	}, nil
}
