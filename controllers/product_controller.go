package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/XdebronneX/backend-TeamPOOR/middleware"
	"github.com/XdebronneX/backend-TeamPOOR/repository"
	"github.com/XdebronneX/backend-TeamPOOR/services"
)

// ProductController handles catalog, stock, review and supplier
// delivery endpoints.
type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// CreateProduct handles POST /admin/products.
func (pc *ProductController) CreateProduct(ctx *gin.Context) {
	var input services.CreateProductInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	actor := middleware.CurrentUser(ctx)
	product, err := pc.products.CreateProduct(ctx.Request.Context(), input, actor)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"success": true, "product": product})
}

// parseProductFilter reads the public listing query parameters,
// including the keyword search and gt/gte/lt/lte comparison filters.
func parseProductFilter(ctx *gin.Context) repository.ProductFilter {
	filter := repository.ProductFilter{Keyword: ctx.Query("keyword")}

	if raw := ctx.Query("category"); raw != "" {
		if id, err := primitive.ObjectIDFromHex(raw); err == nil {
			filter.Category = &id
		}
	}
	if raw := ctx.Query("price[gte]"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinPrice = &v
		}
	}
	if raw := ctx.Query("price[gt]"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinPrice = &v
		}
	}
	if raw := ctx.Query("price[lte]"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxPrice = &v
		}
	}
	if raw := ctx.Query("price[lt]"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MaxPrice = &v
		}
	}
	if raw := ctx.Query("ratings[gte]"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filter.MinRating = &v
		}
	}
	return filter
}

// ListProducts handles GET /products (public).
func (pc *ProductController) ListProducts(ctx *gin.Context) {
	page, perPage := parsePaginationParams(ctx)
	filter := parseProductFilter(ctx)

	result, err := pc.products.ListProducts(ctx.Request.Context(), filter, page, perPage)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"success":               true,
		"products":              result.Products,
		"productsCount":         result.ProductsCount,
		"filteredProductsCount": result.FilteredCount,
	})
}

// AdminListProducts handles GET /admin/products.
func (pc *ProductController) AdminListProducts(ctx *gin.Context) {
	result, err := pc.products.ListProducts(ctx.Request.Context(), repository.ProductFilter{}, 1, 0)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"success":       true,
		"products":      result.Products,
		"productsCount": result.ProductsCount,
	})
}

// GetProduct handles GET /product/:id (public).
func (pc *ProductController) GetProduct(ctx *gin.Context) {
	product, err := pc.products.GetProduct(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

// UpdateProduct handles PUT /admin/product/:id.
func (pc *ProductController) UpdateProduct(ctx *gin.Context) {
	var input services.UpdateProductInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}

	product, err := pc.products.UpdateProduct(ctx.Request.Context(), ctx.Param("id"), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

// DeleteProduct handles DELETE /admin/product/:id.
func (pc *ProductController) DeleteProduct(ctx *gin.Context) {
	if err := pc.products.DeleteProduct(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted"})
}

type updateStockRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// UpdateStock handles PUT /admin/product/:id/stock with a signed delta.
func (pc *ProductController) UpdateStock(ctx *gin.Context) {
	var req updateStockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	actor := middleware.CurrentUser(ctx)
	product, err := pc.products.UpdateStock(ctx.Request.Context(), ctx.Param("id"), req.Quantity, actor)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

// StockHistory handles GET /admin/stock/history.
func (pc *ProductController) StockHistory(ctx *gin.Context) {
	logs, err := pc.products.StockHistory(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "stockLogs": logs})
}

// PriceHistory handles GET /admin/price/history.
func (pc *ProductController) PriceHistory(ctx *gin.Context) {
	logs, err := pc.products.PriceHistoryLogs(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "priceHistory": logs})
}

type reviewRequest struct {
	Rating  float64 `json:"rating" binding:"required,gte=1,lte=5"`
	Comment string  `json:"comment"`
}

// SubmitReview handles PUT /product/:id/review.
func (pc *ProductController) SubmitReview(ctx *gin.Context) {
	var req reviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(ctx, err)
		return
	}

	user := middleware.CurrentUser(ctx)
	product, err := pc.products.SubmitReview(ctx.Request.Context(), ctx.Param("id"), user, req.Rating, req.Comment)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "reviews": product.Reviews, "ratings": product.Ratings})
}

// DeleteReview handles DELETE /product/:id/review/:reviewId.
func (pc *ProductController) DeleteReview(ctx *gin.Context) {
	product, err := pc.products.DeleteReview(ctx.Request.Context(), ctx.Param("id"), ctx.Param("reviewId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "reviews": product.Reviews, "ratings": product.Ratings})
}

// ---- Brands ----

// CreateBrand handles POST /admin/brands.
func (pc *ProductController) CreateBrand(ctx *gin.Context) {
	var input services.BrandInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}
	brand, err := pc.products.CreateBrand(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"success": true, "brand": brand})
}

// ListBrands handles GET /brands (public).
func (pc *ProductController) ListBrands(ctx *gin.Context) {
	brands, err := pc.products.ListBrands(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "brands": brands})
}

// GetBrand handles GET /brand/:id.
func (pc *ProductController) GetBrand(ctx *gin.Context) {
	brand, err := pc.products.GetBrand(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "brand": brand})
}

// UpdateBrand handles PUT /admin/brand/:id.
func (pc *ProductController) UpdateBrand(ctx *gin.Context) {
	var input services.BrandInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}
	brand, err := pc.products.UpdateBrand(ctx.Request.Context(), ctx.Param("id"), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "brand": brand})
}

// DeleteBrand handles DELETE /admin/brand/:id.
func (pc *ProductController) DeleteBrand(ctx *gin.Context) {
	if err := pc.products.DeleteBrand(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Brand deleted"})
}

// ---- Categories ----

// CreateCategory handles POST /admin/categories.
func (pc *ProductController) CreateCategory(ctx *gin.Context) {
	var input services.CategoryInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}
	category, err := pc.products.CreateCategory(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"success": true, "category": category})
}

// ListCategories handles GET /categories (public).
func (pc *ProductController) ListCategories(ctx *gin.Context) {
	categories, err := pc.products.ListCategories(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "categories": categories})
}

// GetCategory handles GET /category/:id.
func (pc *ProductController) GetCategory(ctx *gin.Context) {
	category, err := pc.products.GetCategory(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "category": category})
}

// UpdateCategory handles PUT /admin/category/:id.
func (pc *ProductController) UpdateCategory(ctx *gin.Context) {
	var input services.CategoryInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}
	category, err := pc.products.UpdateCategory(ctx.Request.Context(), ctx.Param("id"), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "category": category})
}

// DeleteCategory handles DELETE /admin/category/:id.
func (pc *ProductController) DeleteCategory(ctx *gin.Context) {
	if err := pc.products.DeleteCategory(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted"})
}

// ---- Supplier deliveries ----

// RecordSupplierDelivery handles POST /secretary/supplier-logs.
func (pc *ProductController) RecordSupplierDelivery(ctx *gin.Context) {
	var input services.SupplierDeliveryInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		respondBindError(ctx, err)
		return
	}
	log, err := pc.products.RecordSupplierDelivery(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"success": true, "supplierLog": log})
}

// ListSupplierLogs handles GET /secretary/supplier-logs.
func (pc *ProductController) ListSupplierLogs(ctx *gin.Context) {
	logs, err := pc.products.ListSupplierLogs(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "supplierLogs": logs})
}

// GetSupplierLog handles GET /secretary/supplier-log/:id.
func (pc *ProductController) GetSupplierLog(ctx *gin.Context) {
	log, err := pc.products.GetSupplierLog(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "supplierLog": log})
}

// parsePaginationParams extracts and bounds pagination parameters.
func parsePaginationParams(ctx *gin.Context) (int, int) {
	const maxLimit = 100

	page := 1
	limit := 10
	if p, err := strconv.Atoi(ctx.DefaultQuery("page", "1")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(ctx.DefaultQuery("limit", "10")); err == nil && l > 0 {
		limit = l
		if limit > maxLimit {
			limit = maxLimit
		}
	}
	return page, limit
}
