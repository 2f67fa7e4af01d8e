package services

import (
	"context"

	"github.com/XdebronneX/backend-TeamPOOR/repository"
)

// ReportService exposes the read-only sales and service analytics.
type ReportService struct {
	reports repository.ReportRepository
}

func NewReportService(reports repository.ReportRepository) *ReportService {
	return &ReportService{reports: reports}
}

func (s *ReportService) MonthlySales(ctx context.Context) ([]repository.MonthlySalesRow, error) {
	rows, err := s.reports.MonthlySales(ctx)
	if err != nil {
		return nil, internal("Failed to compute monthly sales")
	}
	return rows, nil
}

func (s *ReportService) MostPurchasedProducts(ctx context.Context) ([]repository.ProductSalesRow, error) {
	rows, err := s.reports.MostPurchasedProducts(ctx)
	if err != nil {
		return nil, internal("Failed to compute product sales")
	}
	return rows, nil
}

func (s *ReportService) MostLoyalCustomers(ctx context.Context) ([]repository.CustomerSpendRow, error) {
	rows, err := s.reports.MostLoyalCustomers(ctx)
	if err != nil {
		return nil, internal("Failed to compute customer spend")
	}
	return rows, nil
}

func (s *ReportService) MostPurchasedBrands(ctx context.Context) ([]repository.BrandSalesRow, error) {
	rows, err := s.reports.MostPurchasedBrands(ctx)
	if err != nil {
		return nil, internal("Failed to compute brand sales")
	}
	return rows, nil
}

func (s *ReportService) TopRatedMechanics(ctx context.Context) ([]repository.MechanicRatingRow, error) {
	rows, err := s.reports.TopRatedMechanics(ctx)
	if err != nil {
		return nil, internal("Failed to compute mechanic ratings")
	}
	return rows, nil
}
