package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/XdebronneX/backend-TeamPOOR/middleware"
	"github.com/XdebronneX/backend-TeamPOOR/services"
)

// GarageController handles the customer address book, motorcycle
// registry, and fuel logs.
type GarageController struct {
	garage *services.GarageService
}

func NewGarageController(garage *services.GarageService) *GarageController {
	return &GarageController{garage: garage}
}

// AddAddress handles POST /addresses.
func (gc *GarageController) AddAddress(ctx *gin.Context) {
	var input services.AddressInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}
	user := middleware.CurrentUser(ctx)
	address, err := gc.garage.AddAddress(ctx.Request.Context(), user.ID.Hex(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"success": true, "address": address})
}

// MyAddresses handles GET /me/addresses.
func (gc *GarageController) MyAddresses(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	list, err := gc.garage.MyAddresses(ctx.Request.Context(), user.ID.Hex())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "addresses": list})
}

// GetAddress handles GET /address/:id.
func (gc *GarageController) GetAddress(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	address, err := gc.garage.GetAddress(ctx.Request.Context(), user.ID.Hex(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "address": address})
}

// UpdateAddress handles PUT /address/:id.
func (gc *GarageController) UpdateAddress(ctx *gin.Context) {
	var input services.AddressInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}
	user := middleware.CurrentUser(ctx)
	address, err := gc.garage.UpdateAddress(ctx.Request.Context(), user.ID.Hex(), ctx.Param("id"), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "address": address})
}

// SetDefaultAddress handles PUT /address/:id/default.
func (gc *GarageController) SetDefaultAddress(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	address, err := gc.garage.SetDefaultAddress(ctx.Request.Context(), user.ID.Hex(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "address": address})
}

// DeleteAddress handles DELETE /address/:id.
func (gc *GarageController) DeleteAddress(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if err := gc.garage.DeleteAddress(ctx.Request.Context(), user.ID.Hex(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// RegisterMotorcycle handles POST /motorcycles.
func (gc *GarageController) RegisterMotorcycle(ctx *gin.Context) {
	var input services.MotorcycleInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}
	user := middleware.CurrentUser(ctx)
	motorcycle, err := gc.garage.RegisterMotorcycle(ctx.Request.Context(), user.ID.Hex(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"success": true, "motorcycle": motorcycle})
}

// MyMotorcycles handles GET /me/motorcycles.
func (gc *GarageController) MyMotorcycles(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	list, err := gc.garage.MyMotorcycles(ctx.Request.Context(), user.ID.Hex())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "motorcycles": list})
}

// GetMotorcycle handles GET /motorcycle/:id for the unit's owner.
func (gc *GarageController) GetMotorcycle(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	motorcycle, err := gc.garage.GetOwnedMotorcycle(ctx.Request.Context(), user.ID.Hex(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "motorcycle": motorcycle})
}

// AdminGetMotorcycle handles GET /admin/motorcycle/:id.
func (gc *GarageController) AdminGetMotorcycle(ctx *gin.Context) {
	motorcycle, err := gc.garage.GetMotorcycle(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "motorcycle": motorcycle})
}

// UpdateMotorcycle handles PUT /motorcycle/:id.
func (gc *GarageController) UpdateMotorcycle(ctx *gin.Context) {
	var input services.MotorcycleInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}
	user := middleware.CurrentUser(ctx)
	motorcycle, err := gc.garage.UpdateMotorcycle(ctx.Request.Context(), user.ID.Hex(), ctx.Param("id"), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "motorcycle": motorcycle})
}

// DeleteMotorcycle handles DELETE /motorcycle/:id.
func (gc *GarageController) DeleteMotorcycle(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if err := gc.garage.DeleteMotorcycle(ctx.Request.Context(), user.ID.Hex(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminListMotorcycles handles GET /admin/motorcycles.
func (gc *GarageController) AdminListMotorcycles(ctx *gin.Context) {
	list, total, err := gc.garage.ListMotorcycles(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "totalMotorcycles": total, "motorcycles": list})
}

// LogFuel handles POST /fuels.
func (gc *GarageController) LogFuel(ctx *gin.Context) {
	var input services.FuelInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}
	user := middleware.CurrentUser(ctx)
	fuel, err := gc.garage.LogFuel(ctx.Request.Context(), user.ID.Hex(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"success": true, "fuel": fuel})
}

// MyFuelLogs handles GET /me/fuels.
func (gc *GarageController) MyFuelLogs(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	list, err := gc.garage.MyFuelLogs(ctx.Request.Context(), user.ID.Hex())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "fuels": list})
}

// MotorcycleFuelLogs handles GET /motorcycle/:id/fuels.
func (gc *GarageController) MotorcycleFuelLogs(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	list, err := gc.garage.MotorcycleFuelLogs(ctx.Request.Context(), user.ID.Hex(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "fuels": list})
}

// DeleteFuelLog handles DELETE /fuel/:id.
func (gc *GarageController) DeleteFuelLog(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if err := gc.garage.DeleteFuelLog(ctx.Request.Context(), user.ID.Hex(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
