package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/XdebronneX/backend-TeamPOOR/services"
)

// ServiceController handles the bookable repair service catalog.
type ServiceController struct {
	catalog *services.CatalogService
}

func NewServiceController(catalog *services.CatalogService) *ServiceController {
	return &ServiceController{catalog: catalog}
}

// CreateService handles POST /admin/services.
func (sc *ServiceController) CreateService(ctx *gin.Context) {
	var input services.ServiceInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}
	service, err := sc.catalog.CreateService(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"success": true, "service": service})
}

// ListServices handles GET /services (public); only available services
// are returned there. The admin listing returns everything.
func (sc *ServiceController) ListServices(ctx *gin.Context) {
	list, err := sc.catalog.ListAvailableServices(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "services": list})
}

// AdminListServices handles GET /admin/services.
func (sc *ServiceController) AdminListServices(ctx *gin.Context) {
	list, err := sc.catalog.ListServices(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "services": list})
}

// GetService handles GET /service/:id.
func (sc *ServiceController) GetService(ctx *gin.Context) {
	service, err := sc.catalog.GetService(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "service": service})
}

// UpdateService handles PUT /admin/service/:id.
func (sc *ServiceController) UpdateService(ctx *gin.Context) {
	var input services.ServiceInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}
	service, err := sc.catalog.UpdateService(ctx.Request.Context(), ctx.Param("id"), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "service": service})
}

// DeleteService handles DELETE /admin/service/:id.
func (sc *ServiceController) DeleteService(ctx *gin.Context) {
	if err := sc.catalog.DeleteService(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Service deleted"})
}
