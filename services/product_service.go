package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/XdebronneX/backend-TeamPOOR/models"
	"github.com/XdebronneX/backend-TeamPOOR/repository"
)

// Stock log status labels.
const (
	StockInitial    = "Initial"
	StockSold       = "Sold"
	StockRestocked  = "Restocked"
	StockAdditional = "Additional"
)

// ProductService manages the parts catalog: products with embedded
// reviews and stock logs, price history, brands, categories and
// supplier deliveries.
type ProductService struct {
	products     repository.ProductRepository
	brands       repository.BrandRepository
	categories   repository.CategoryRepository
	priceHistory repository.PriceHistoryRepository
	supplierLogs repository.SupplierLogRepository
	storage      ImageStorage
	cache        *CacheManager
}

func NewProductService(
	products repository.ProductRepository,
	brands repository.BrandRepository,
	categories repository.CategoryRepository,
	priceHistory repository.PriceHistoryRepository,
	supplierLogs repository.SupplierLogRepository,
	storage ImageStorage,
	cache *CacheManager,
) *ProductService {
	return &ProductService{
		products:     products,
		brands:       brands,
		categories:   categories,
		priceHistory: priceHistory,
		supplierLogs: supplierLogs,
		storage:      storage,
		cache:        cache,
	}
}

// CreateProductInput carries the admin product form. Images arrive as
// base64 data URIs.
type CreateProductInput struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Type        string   `json:"type"`
	Brand       string   `json:"brand" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Stock       int      `json:"stock" binding:"required,gte=0"`
	Images      []string `json:"images"`
}

// CreateProduct inserts a product with an "Initial" stock log attributed
// to the creating user.
func (s *ProductService) CreateProduct(ctx context.Context, input CreateProductInput, actor *models.User) (*models.Product, error) {
	brandID, err := primitive.ObjectIDFromHex(input.Brand)
	if err != nil {
		return nil, badRequest("Invalid brand")
	}
	categoryID, err := primitive.ObjectIDFromHex(input.Category)
	if err != nil {
		return nil, badRequest("Invalid category")
	}

	brand, err := s.brands.FindByID(ctx, brandID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Brand not found")
	}
	if err != nil {
		return nil, internal("Failed to create product")
	}
	if _, err := s.categories.FindByID(ctx, categoryID); errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Category not found")
	} else if err != nil {
		return nil, internal("Failed to create product")
	}

	images := make([]models.Image, 0, len(input.Images))
	for _, payload := range input.Images {
		image, err := s.storage.Upload(ctx, payload, "products")
		if err != nil {
			return nil, badRequest("Invalid product image")
		}
		images = append(images, image)
	}

	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Type:        input.Type,
		Brand:       brandID,
		Category:    categoryID,
		Stock:       input.Stock,
		Images:      images,
		StockLogs: []models.StockLog{{
			Name:      input.Name,
			Brand:     brand.Name,
			Quantity:  input.Stock,
			Status:    StockInitial,
			By:        actor.ActorLabel(),
			CreatedAt: time.Now(),
		}},
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, internal("Failed to create product")
	}

	if err := s.priceHistory.Create(ctx, &models.PriceHistory{
		Product:   product.ID,
		Price:     product.Price,
		Status:    models.PriceInitial,
		CreatedAt: time.Now(),
	}); err != nil {
		zap.L().Warn("Failed to record initial price", zap.Error(err), zap.String("product_id", product.ID.Hex()))
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			zap.L().Warn("Failed to invalidate product cache", zap.Error(err))
		}
	}
	return product, nil
}

// GetProduct loads one product by its hex id; a malformed id reads as a
// miss.
func (s *ProductService) GetProduct(ctx context.Context, hexID string) (*models.Product, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, notFound("Product ID not found!")
	}

	if s.cache != nil {
		if cached, ok := s.cache.GetProduct(ctx, hexID); ok {
			return cached, nil
		}
	}

	product, err := s.products.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Product ID not found!")
	}
	if err != nil {
		return nil, internal("Failed to load product")
	}

	if s.cache != nil {
		s.cache.SetProductAsync(hexID, product)
	}
	return product, nil
}

// ListProducts returns the filtered catalog with the total and filtered
// counts, served cache-aside when a cache is wired.
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter, page, perPage int) (*CachedProductList, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetProductList(ctx, page, perPage, filter); ok {
			return cached, nil
		}
	}

	products, err := s.products.Find(ctx, filter)
	if err != nil {
		return nil, internal("Failed to list products")
	}
	total, err := s.products.Count(ctx)
	if err != nil {
		return nil, internal("Failed to list products")
	}

	entry := &CachedProductList{
		Products:      products,
		ProductsCount: total,
		FilteredCount: int64(len(products)),
	}
	if s.cache != nil {
		s.cache.SetProductListAsync(page, perPage, filter, entry)
	}
	return entry, nil
}

// UpdateProductInput carries the admin product edit form. A non-empty
// Images list replaces the stored images.
type UpdateProductInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Type        string   `json:"type"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
}

// UpdateProduct applies catalog edits. A price change appends a price
// history record with its direction label.
func (s *ProductService) UpdateProduct(ctx context.Context, hexID string, input UpdateProductInput) (*models.Product, error) {
	product, err := s.GetProduct(ctx, hexID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		product.Name = input.Name
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.Type != "" {
		product.Type = input.Type
	}
	if input.Brand != "" {
		brandID, err := primitive.ObjectIDFromHex(input.Brand)
		if err != nil {
			return nil, badRequest("Invalid brand")
		}
		product.Brand = brandID
	}
	if input.Category != "" {
		categoryID, err := primitive.ObjectIDFromHex(input.Category)
		if err != nil {
			return nil, badRequest("Invalid category")
		}
		product.Category = categoryID
	}

	if input.Price != nil && *input.Price != product.Price {
		status := models.PriceChangeStatus(product.Price, *input.Price)
		product.Price = *input.Price
		if err := s.priceHistory.Create(ctx, &models.PriceHistory{
			Product:   product.ID,
			Price:     product.Price,
			Status:    status,
			CreatedAt: time.Now(),
		}); err != nil {
			zap.L().Warn("Failed to record price change", zap.Error(err), zap.String("product_id", product.ID.Hex()))
		}
	}

	if len(input.Images) > 0 {
		for _, old := range product.Images {
			if err := s.storage.Delete(ctx, old.PublicID); err != nil {
				zap.L().Warn("Failed to delete product image", zap.Error(err), zap.String("public_id", old.PublicID))
			}
		}
		images := make([]models.Image, 0, len(input.Images))
		for _, payload := range input.Images {
			image, err := s.storage.Upload(ctx, payload, "products")
			if err != nil {
				return nil, badRequest("Invalid product image")
			}
			images = append(images, image)
		}
		product.Images = images
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, internal("Failed to update product")
	}
	if s.cache != nil {
		s.cache.InvalidateProduct(ctx, hexID)
	}
	return product, nil
}

// DeleteProduct removes the product and its stored images.
func (s *ProductService) DeleteProduct(ctx context.Context, hexID string) error {
	product, err := s.GetProduct(ctx, hexID)
	if err != nil {
		return err
	}
	for _, image := range product.Images {
		if err := s.storage.Delete(ctx, image.PublicID); err != nil {
			zap.L().Warn("Failed to delete product image", zap.Error(err), zap.String("public_id", image.PublicID))
		}
	}
	if err := s.products.Delete(ctx, product.ID); err != nil {
		return internal("Failed to delete product")
	}
	if s.cache != nil {
		s.cache.InvalidateProduct(ctx, hexID)
	}
	return nil
}

// UpdateStock moves stock by a signed delta, logging "Restocked" for
// positive deltas and "Sold" for negative ones.
func (s *ProductService) UpdateStock(ctx context.Context, hexID string, delta int, actor *models.User) (*models.Product, error) {
	product, err := s.GetProduct(ctx, hexID)
	if err != nil {
		return nil, err
	}

	brandName := s.brandName(ctx, product.Brand)
	log := models.StockLog{
		Name:      product.Name,
		Brand:     brandName,
		Quantity:  delta,
		By:        actor.ActorLabel(),
		CreatedAt: time.Now(),
	}

	switch {
	case delta > 0:
		log.Status = StockRestocked
		err = s.products.IncrementStock(ctx, product.ID, delta, log)
	case delta < 0:
		log.Status = StockSold
		err = s.products.DecrementStock(ctx, product.ID, -delta, log)
	default:
		return product, nil
	}
	if errors.Is(err, repository.ErrInsufficientStock) {
		return nil, badRequest(fmt.Sprintf("Insufficient stock for product: %s", product.Name))
	}
	if err != nil {
		return nil, internal("Failed to update stock")
	}

	if s.cache != nil {
		s.cache.InvalidateProduct(ctx, hexID)
	}
	return s.GetProduct(ctx, hexID)
}

// StockHistory concatenates every product's stock logs, newest first.
func (s *ProductService) StockHistory(ctx context.Context) ([]models.StockLog, error) {
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, internal("Failed to load stock history")
	}

	var logs []models.StockLog
	for _, product := range products {
		logs = append(logs, product.StockLogs...)
	}
	if len(logs) == 0 {
		return nil, notFound("No stock history found")
	}

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].CreatedAt.After(logs[j].CreatedAt)
	})
	return logs, nil
}

// PriceHistoryLogs returns every price change record, newest first.
func (s *ProductService) PriceHistoryLogs(ctx context.Context) ([]models.PriceHistory, error) {
	logs, err := s.priceHistory.FindAllSorted(ctx)
	if err != nil {
		return nil, internal("Failed to load price history")
	}
	return logs, nil
}

// SubmitReview upserts the user's review on a product and rederives the
// rating mean. A user keeps at most one review per product.
func (s *ProductService) SubmitReview(ctx context.Context, hexID string, user *models.User, rating float64, comment string) (*models.Product, error) {
	product, err := s.GetProduct(ctx, hexID)
	if err != nil {
		return nil, err
	}

	updated := false
	for i := range product.Reviews {
		if product.Reviews[i].User == user.ID {
			product.Reviews[i].Rating = rating
			product.Reviews[i].Comment = comment
			product.Reviews[i].Name = user.FullName()
			product.Reviews[i].Date = time.Now()
			updated = true
			break
		}
	}
	if !updated {
		product.Reviews = append(product.Reviews, models.Review{
			ID:      primitive.NewObjectID(),
			User:    user.ID,
			Name:    user.FullName(),
			Rating:  rating,
			Comment: comment,
			Date:    time.Now(),
		})
	}
	product.RecomputeRatings()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, internal("Failed to submit review")
	}
	if s.cache != nil {
		s.cache.InvalidateProduct(ctx, hexID)
	}
	return product, nil
}

// DeleteReview removes one review by id and rederives the rating mean.
func (s *ProductService) DeleteReview(ctx context.Context, hexID, reviewHexID string) (*models.Product, error) {
	product, err := s.GetProduct(ctx, hexID)
	if err != nil {
		return nil, err
	}
	reviewID, err := primitive.ObjectIDFromHex(reviewHexID)
	if err != nil {
		return nil, notFound("Review not found")
	}

	kept := product.Reviews[:0]
	found := false
	for _, review := range product.Reviews {
		if review.ID == reviewID {
			found = true
			continue
		}
		kept = append(kept, review)
	}
	if !found {
		return nil, notFound("Review not found")
	}
	product.Reviews = kept
	product.RecomputeRatings()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, internal("Failed to delete review")
	}
	if s.cache != nil {
		s.cache.InvalidateProduct(ctx, hexID)
	}
	return product, nil
}

// ---- Brands & categories ----

type BrandInput struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

func (s *ProductService) CreateBrand(ctx context.Context, input BrandInput) (*models.Brand, error) {
	if existing, err := s.brands.FindByName(ctx, input.Name); err == nil && existing != nil {
		return nil, badRequest("Brand name already exists")
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, internal("Failed to create brand")
	}

	images, err := s.uploadAll(ctx, input.Images, "brands")
	if err != nil {
		return nil, err
	}
	brand := &models.Brand{
		Name:        input.Name,
		Description: input.Description,
		Images:      images,
	}
	if err := s.brands.Create(ctx, brand); err != nil {
		return nil, internal("Failed to create brand")
	}
	return brand, nil
}

func (s *ProductService) ListBrands(ctx context.Context) ([]models.Brand, error) {
	brands, err := s.brands.FindAll(ctx)
	if err != nil {
		return nil, internal("Failed to list brands")
	}
	return brands, nil
}

func (s *ProductService) GetBrand(ctx context.Context, hexID string) (*models.Brand, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, notFound("Brand not found")
	}
	brand, err := s.brands.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Brand not found")
	}
	if err != nil {
		return nil, internal("Failed to load brand")
	}
	return brand, nil
}

func (s *ProductService) UpdateBrand(ctx context.Context, hexID string, input BrandInput) (*models.Brand, error) {
	brand, err := s.GetBrand(ctx, hexID)
	if err != nil {
		return nil, err
	}
	if input.Name != "" && input.Name != brand.Name {
		if existing, err := s.brands.FindByName(ctx, input.Name); err == nil && existing != nil {
			return nil, badRequest("Brand name already exists")
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, internal("Failed to update brand")
		}
		brand.Name = input.Name
	}
	if input.Description != "" {
		brand.Description = input.Description
	}
	if len(input.Images) > 0 {
		for _, old := range brand.Images {
			if err := s.storage.Delete(ctx, old.PublicID); err != nil {
				zap.L().Warn("Failed to delete brand image", zap.Error(err), zap.String("public_id", old.PublicID))
			}
		}
		images, err := s.uploadAll(ctx, input.Images, "brands")
		if err != nil {
			return nil, err
		}
		brand.Images = images
	}
	if err := s.brands.Update(ctx, brand); err != nil {
		return nil, internal("Failed to update brand")
	}
	return brand, nil
}

func (s *ProductService) DeleteBrand(ctx context.Context, hexID string) error {
	brand, err := s.GetBrand(ctx, hexID)
	if err != nil {
		return err
	}
	for _, image := range brand.Images {
		if err := s.storage.Delete(ctx, image.PublicID); err != nil {
			zap.L().Warn("Failed to delete brand image", zap.Error(err), zap.String("public_id", image.PublicID))
		}
	}
	if err := s.brands.Delete(ctx, brand.ID); err != nil {
		return internal("Failed to delete brand")
	}
	return nil
}

type CategoryInput struct {
	Name   string   `json:"name" binding:"required"`
	Images []string `json:"images"`
}

func (s *ProductService) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	images, err := s.uploadAll(ctx, input.Images, "categories")
	if err != nil {
		return nil, err
	}
	category := &models.Category{Name: input.Name, Images: images}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, internal("Failed to create category")
	}
	return category, nil
}

func (s *ProductService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, internal("Failed to list categories")
	}
	return categories, nil
}

func (s *ProductService) GetCategory(ctx context.Context, hexID string) (*models.Category, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, notFound("Category not found")
	}
	category, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Category not found")
	}
	if err != nil {
		return nil, internal("Failed to load category")
	}
	return category, nil
}

func (s *ProductService) UpdateCategory(ctx context.Context, hexID string, input CategoryInput) (*models.Category, error) {
	category, err := s.GetCategory(ctx, hexID)
	if err != nil {
		return nil, err
	}
	if input.Name != "" {
		category.Name = input.Name
	}
	if len(input.Images) > 0 {
		for _, old := range category.Images {
			if err := s.storage.Delete(ctx, old.PublicID); err != nil {
				zap.L().Warn("Failed to delete category image", zap.Error(err), zap.String("public_id", old.PublicID))
			}
		}
		images, err := s.uploadAll(ctx, input.Images, "categories")
		if err != nil {
			return nil, err
		}
		category.Images = images
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, internal("Failed to update category")
	}
	return category, nil
}

func (s *ProductService) DeleteCategory(ctx context.Context, hexID string) error {
	category, err := s.GetCategory(ctx, hexID)
	if err != nil {
		return err
	}
	for _, image := range category.Images {
		if err := s.storage.Delete(ctx, image.PublicID); err != nil {
			zap.L().Warn("Failed to delete category image", zap.Error(err), zap.String("public_id", image.PublicID))
		}
	}
	if err := s.categories.Delete(ctx, category.ID); err != nil {
		return internal("Failed to delete category")
	}
	return nil
}

// ---- Supplier deliveries ----

// SupplierDeliveryLine is one delivered product line.
type SupplierDeliveryLine struct {
	ProductID string  `json:"productId" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	Price     float64 `json:"price" binding:"required,gte=0"`
}

// SupplierDeliveryInput records a supplier delivery that restocks the
// listed products.
type SupplierDeliveryInput struct {
	Supplier      string                 `json:"supplier" binding:"required"`
	InvoiceID     string                 `json:"invoiceId"`
	Notes         string                 `json:"notes"`
	DateDelivered *time.Time             `json:"dateDelivered"`
	Lines         []SupplierDeliveryLine `json:"products" binding:"required,min=1"`
}

// RecordSupplierDelivery restocks each delivered line and persists the
// delivery log with line snapshots.
func (s *ProductService) RecordSupplierDelivery(ctx context.Context, input SupplierDeliveryInput) (*models.SupplierLog, error) {
	supplierID, err := primitive.ObjectIDFromHex(input.Supplier)
	if err != nil {
		return nil, badRequest("Invalid supplier")
	}

	var (
		snapshots []models.SupplierLogProduct
		total     float64
	)
	for _, line := range input.Lines {
		productID, err := primitive.ObjectIDFromHex(line.ProductID)
		if err != nil {
			return nil, badRequest("Invalid product in delivery")
		}
		product, err := s.products.FindByID(ctx, productID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Product not found in delivery")
		}
		if err != nil {
			return nil, internal("Failed to record delivery")
		}

		brandName := s.brandName(ctx, product.Brand)
		log := models.StockLog{
			Name:      product.Name,
			Brand:     brandName,
			Quantity:  line.Quantity,
			Status:    StockRestocked,
			By:        models.RoleSecretary.String(),
			CreatedAt: time.Now(),
		}
		if err := s.products.IncrementStock(ctx, product.ID, line.Quantity, log); err != nil {
			return nil, internal("Failed to record delivery")
		}

		snapshots = append(snapshots, models.SupplierLogProduct{
			ProductName: product.Name,
			BrandName:   brandName,
			Quantity:    line.Quantity,
			Price:       line.Price,
		})
		total += float64(line.Quantity) * line.Price
	}

	delivered := time.Now()
	if input.DateDelivered != nil {
		delivered = *input.DateDelivered
	}
	entry := &models.SupplierLog{
		Supplier:      supplierID,
		Products:      snapshots,
		InvoiceID:     input.InvoiceID,
		Notes:         input.Notes,
		DateDelivered: delivered,
		TotalPrice:    total,
	}
	if err := s.supplierLogs.Create(ctx, entry); err != nil {
		return nil, internal("Failed to record delivery")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			zap.L().Warn("Failed to invalidate product cache", zap.Error(err))
		}
	}
	return entry, nil
}

func (s *ProductService) ListSupplierLogs(ctx context.Context) ([]models.SupplierLog, error) {
	logs, err := s.supplierLogs.FindAllSorted(ctx)
	if err != nil {
		return nil, internal("Failed to load supplier logs")
	}
	return logs, nil
}

func (s *ProductService) GetSupplierLog(ctx context.Context, hexID string) (*models.SupplierLog, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, notFound("Supplier log not found")
	}
	log, err := s.supplierLogs.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Supplier log not found")
	}
	if err != nil {
		return nil, internal("Failed to load supplier log")
	}
	return log, nil
}

// ---- helpers ----

func (s *ProductService) uploadAll(ctx context.Context, payloads []string, folder string) ([]models.Image, error) {
	images := make([]models.Image, 0, len(payloads))
	for _, payload := range payloads {
		image, err := s.storage.Upload(ctx, payload, folder)
		if err != nil {
			return nil, badRequest("Invalid image")
		}
		images = append(images, image)
	}
	return images, nil
}

// brandName resolves a brand reference for stock log snapshots; a
// lookup failure degrades to an empty label.
func (s *ProductService) brandName(ctx context.Context, id primitive.ObjectID) string {
	brand, err := s.brands.FindByID(ctx, id)
	if err != nil {
		return ""
	}
	return brand.Name
}
