package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/XdebronneX/backend-TeamPOOR/services"
)

// ReportController handles the admin analytics endpoints.
type ReportController struct {
	reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{reports: reports}
}

// MonthlySales handles GET /admin/reports/monthly-sales.
func (rc *ReportController) MonthlySales(ctx *gin.Context) {
	rows, err := rc.reports.MonthlySales(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "totalPercent": rows})
}

// MostPurchasedProducts handles GET /admin/reports/product-sales.
func (rc *ReportController) MostPurchasedProducts(ctx *gin.Context) {
	rows, err := rc.reports.MostPurchasedProducts(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "mostPurchasedProducts": rows})
}

// MostLoyalCustomers handles GET /admin/reports/loyal-customers.
func (rc *ReportController) MostLoyalCustomers(ctx *gin.Context) {
	rows, err := rc.reports.MostLoyalCustomers(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "mostLoyalUsers": rows})
}

// MostPurchasedBrands handles GET /admin/reports/brand-sales.
func (rc *ReportController) MostPurchasedBrands(ctx *gin.Context) {
	rows, err := rc.reports.MostPurchasedBrands(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "mostPurchasedBrands": rows})
}

// TopRatedMechanics handles GET /admin/reports/mechanic-ratings.
func (rc *ReportController) TopRatedMechanics(ctx *gin.Context) {
	rows, err := rc.reports.TopRatedMechanics(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "mostRatedMechanics": rows})
}
