package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/XdebronneX/backend-TeamPOOR/middleware"
	"github.com/XdebronneX/backend-TeamPOOR/models"
	"github.com/XdebronneX/backend-TeamPOOR/services"
)

// OrderController handles the order lifecycle endpoints.
type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// CreateOrder handles POST /orders. COD responds with the persisted
// order; GCash responds with the checkout URL to redirect to.
func (oc *OrderController) CreateOrder(ctx *gin.Context) {
	var input services.CreateOrderInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	result, err := oc.orders.CreateOrder(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if result.CheckoutURL != "" {
		ctx.JSON(http.StatusCreated, gin.H{"success": true, "checkoutUrl": result.CheckoutURL, "order": result.Order})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"success": true, "order": result.Order})
}

// PaymentOrder handles POST /order/:id/payment, re-requesting a GCash
// checkout session for an unpaid order.
func (oc *OrderController) PaymentOrder(ctx *gin.Context) {
	checkoutURL, err := oc.orders.PaymentOrder(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "checkoutUrl": checkoutURL})
}

// ConfirmPayment handles GET /payment/success/:id/:token — the
// public callback target of the GCash success redirect.
func (oc *OrderController) ConfirmPayment(ctx *gin.Context) {
	order, err := oc.orders.ConfirmGCashPayment(ctx.Request.Context(), ctx.Param("id"), ctx.Param("token"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

type updateOrderStatusRequest struct {
	Status string `json:"orderStatus" binding:"required"`
}

// UpdateStatus handles PUT /secretary/order/:id.
func (oc *OrderController) UpdateStatus(ctx *gin.Context) {
	var req updateOrderStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	employee := middleware.CurrentUser(ctx)
	order, err := oc.orders.UpdateStatus(ctx.Request.Context(), ctx.Param("id"), req.Status, employee)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// MyOrders handles GET /me/orders.
func (oc *OrderController) MyOrders(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	orders, err := oc.orders.MyOrders(ctx.Request.Context(), user.ID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// AllOrders handles GET /secretary/orders.
func (oc *OrderController) AllOrders(ctx *gin.Context) {
	orders, totalAmount, err := oc.orders.AllOrders(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "orders": orders, "totalAmount": totalAmount})
}

// GetOrder handles GET /order/:id, resolving the line documents too.
func (oc *OrderController) GetOrder(ctx *gin.Context) {
	order, err := oc.orders.GetOrder(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	items, err := oc.orders.OrderItems(ctx.Request.Context(), order)
	if err != nil {
		items = []models.OrderItem{}
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "order": order, "orderItems": items})
}

// DeleteOrder handles DELETE /admin/order/:id.
func (oc *OrderController) DeleteOrder(ctx *gin.Context) {
	if err := oc.orders.DeleteOrder(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Order deleted"})
}
