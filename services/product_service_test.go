package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/XdebronneX/backend-TeamPOOR/models"
	"github.com/XdebronneX/backend-TeamPOOR/services"
)

type productFixture struct {
	products     *mockProductRepo
	brands       *mockBrandRepo
	categories   *mockCategoryRepo
	priceHistory *mockPriceHistoryRepo
	supplierLogs *mockSupplierLogRepo
	storage      *mockStorage
	svc          *services.ProductService
}

func newProductFixture() *productFixture {
	f := &productFixture{
		products:     newMockProductRepo(),
		brands:       newMockBrandRepo(),
		categories:   newMockCategoryRepo(),
		priceHistory: newMockPriceHistoryRepo(),
		supplierLogs: newMockSupplierLogRepo(),
		storage:      &mockStorage{},
	}
	f.svc = services.NewProductService(
		f.products, f.brands, f.categories, f.priceHistory, f.supplierLogs,
		f.storage, nil,
	)
	return f
}

func (f *productFixture) seedBrandAndCategory() (*models.Brand, *models.Category) {
	brand := &models.Brand{Name: "Shell"}
	_ = f.brands.Create(context.Background(), brand)
	category := &models.Category{Name: "Lubricants"}
	_ = f.categories.Create(context.Background(), category)
	return brand, category
}

func adminActor() *models.User {
	return &models.User{ID: primitive.NewObjectID(), Firstname: "Carlos", Lastname: "Reyes", Role: models.RoleAdmin}
}

func TestCreateProduct_WritesInitialStockLogAndPriceHistory(t *testing.T) {
	f := newProductFixture()
	brand, category := f.seedBrandAndCategory()

	product, err := f.svc.CreateProduct(context.Background(), services.CreateProductInput{
		Name:        "Advance 4T Oil",
		Description: "Synthetic engine oil",
		Price:       420,
		Brand:       brand.ID.Hex(),
		Category:    category.ID.Hex(),
		Stock:       25,
	}, adminActor())

	assert.Nil(t, err)
	if assert.Len(t, product.StockLogs, 1) {
		assert.Equal(t, "Initial", product.StockLogs[0].Status)
		assert.Equal(t, 25, product.StockLogs[0].Quantity)
		assert.Equal(t, "Carlos - admin", product.StockLogs[0].By)
		assert.Equal(t, "Shell", product.StockLogs[0].Brand)
	}
	if assert.Len(t, f.priceHistory.entries, 1) {
		assert.Equal(t, models.PriceInitial, f.priceHistory.entries[0].Status)
		assert.Equal(t, 420.0, f.priceHistory.entries[0].Price)
	}
}

func TestCreateProduct_UnknownBrand(t *testing.T) {
	f := newProductFixture()
	_, category := f.seedBrandAndCategory()

	_, err := f.svc.CreateProduct(context.Background(), services.CreateProductInput{
		Name:        "Advance 4T Oil",
		Description: "Synthetic engine oil",
		Price:       420,
		Brand:       primitive.NewObjectID().Hex(),
		Category:    category.ID.Hex(),
		Stock:       5,
	}, adminActor())

	var svcErr *services.ServiceError
	if assert.ErrorAs(t, err, &svcErr) {
		assert.Equal(t, 404, svcErr.StatusCode)
		assert.Equal(t, "Brand not found", svcErr.Message)
	}
}

func TestUpdateProduct_PriceChangeRecordsDirection(t *testing.T) {
	f := newProductFixture()
	brand, category := f.seedBrandAndCategory()
	product, _ := f.svc.CreateProduct(context.Background(), services.CreateProductInput{
		Name: "Chain Lube", Description: "Spray can", Price: 300,
		Brand: brand.ID.Hex(), Category: category.ID.Hex(), Stock: 10,
	}, adminActor())

	higher := 350.0
	_, err := f.svc.UpdateProduct(context.Background(), product.ID.Hex(), services.UpdateProductInput{Price: &higher})
	assert.Nil(t, err)

	lower := 275.0
	_, err = f.svc.UpdateProduct(context.Background(), product.ID.Hex(), services.UpdateProductInput{Price: &lower})
	assert.Nil(t, err)

	// Submitting the current price again records nothing.
	same := 275.0
	_, err = f.svc.UpdateProduct(context.Background(), product.ID.Hex(), services.UpdateProductInput{Price: &same})
	assert.Nil(t, err)

	if assert.Len(t, f.priceHistory.entries, 3) {
		assert.Equal(t, models.PriceInitial, f.priceHistory.entries[0].Status)
		assert.Equal(t, models.PriceIncreased, f.priceHistory.entries[1].Status)
		assert.Equal(t, models.PriceDecreased, f.priceHistory.entries[2].Status)
	}
}

func TestUpdateStock_SignedDelta(t *testing.T) {
	f := newProductFixture()
	brand, category := f.seedBrandAndCategory()
	product, _ := f.svc.CreateProduct(context.Background(), services.CreateProductInput{
		Name: "Brake Pads", Description: "Front set", Price: 550,
		Brand: brand.ID.Hex(), Category: category.ID.Hex(), Stock: 4,
	}, adminActor())

	restocked, err := f.svc.UpdateStock(context.Background(), product.ID.Hex(), 6, adminActor())
	assert.Nil(t, err)
	assert.Equal(t, 10, restocked.Stock)

	sold, err := f.svc.UpdateStock(context.Background(), product.ID.Hex(), -3, adminActor())
	assert.Nil(t, err)
	assert.Equal(t, 7, sold.Stock)

	if assert.Len(t, sold.StockLogs, 3) {
		assert.Equal(t, "Restocked", sold.StockLogs[1].Status)
		assert.Equal(t, "Sold", sold.StockLogs[2].Status)
	}
}

func TestUpdateStock_InsufficientStock(t *testing.T) {
	f := newProductFixture()
	brand, category := f.seedBrandAndCategory()
	product, _ := f.svc.CreateProduct(context.Background(), services.CreateProductInput{
		Name: "Spark Plug", Description: "Iridium", Price: 180,
		Brand: brand.ID.Hex(), Category: category.ID.Hex(), Stock: 2,
	}, adminActor())

	_, err := f.svc.UpdateStock(context.Background(), product.ID.Hex(), -5, adminActor())

	var svcErr *services.ServiceError
	if assert.ErrorAs(t, err, &svcErr) {
		assert.Equal(t, 400, svcErr.StatusCode)
		assert.Equal(t, "Insufficient stock for product: Spark Plug", svcErr.Message)
	}
	stored, _ := f.products.FindByID(context.Background(), product.ID)
	assert.Equal(t, 2, stored.Stock)
}

func TestSubmitReview_UpsertsAndRecomputesMean(t *testing.T) {
	f := newProductFixture()
	brand, category := f.seedBrandAndCategory()
	product, _ := f.svc.CreateProduct(context.Background(), services.CreateProductInput{
		Name: "Helmet", Description: "Full face", Price: 2500,
		Brand: brand.ID.Hex(), Category: category.ID.Hex(), Stock: 8,
	}, adminActor())

	alice := &models.User{ID: primitive.NewObjectID(), Firstname: "Alice", Lastname: "Cruz", Role: models.RoleUser}
	bob := &models.User{ID: primitive.NewObjectID(), Firstname: "Bob", Lastname: "Lim", Role: models.RoleUser}

	_, err := f.svc.SubmitReview(context.Background(), product.ID.Hex(), alice, 5, "Excellent")
	assert.Nil(t, err)
	updated, err := f.svc.SubmitReview(context.Background(), product.ID.Hex(), bob, 3, "Average")
	assert.Nil(t, err)
	assert.Equal(t, 2, updated.NumOfReviews)
	assert.Equal(t, 4.0, updated.Ratings)

	// Alice revises her review; still two reviews, mean moves.
	updated, err = f.svc.SubmitReview(context.Background(), product.ID.Hex(), alice, 1, "Broke after a week")
	assert.Nil(t, err)
	assert.Equal(t, 2, updated.NumOfReviews)
	assert.Equal(t, 2.0, updated.Ratings)
}

func TestDeleteReview_RecomputesMean(t *testing.T) {
	f := newProductFixture()
	brand, category := f.seedBrandAndCategory()
	product, _ := f.svc.CreateProduct(context.Background(), services.CreateProductInput{
		Name: "Gloves", Description: "Leather", Price: 900,
		Brand: brand.ID.Hex(), Category: category.ID.Hex(), Stock: 12,
	}, adminActor())

	alice := &models.User{ID: primitive.NewObjectID(), Firstname: "Alice", Lastname: "Cruz", Role: models.RoleUser}
	bob := &models.User{ID: primitive.NewObjectID(), Firstname: "Bob", Lastname: "Lim", Role: models.RoleUser}
	_, _ = f.svc.SubmitReview(context.Background(), product.ID.Hex(), alice, 5, "Great")
	withBoth, _ := f.svc.SubmitReview(context.Background(), product.ID.Hex(), bob, 2, "Stitching came loose")

	var bobReview primitive.ObjectID
	for _, review := range withBoth.Reviews {
		if review.User == bob.ID {
			bobReview = review.ID
		}
	}

	updated, err := f.svc.DeleteReview(context.Background(), product.ID.Hex(), bobReview.Hex())
	assert.Nil(t, err)
	assert.Equal(t, 1, updated.NumOfReviews)
	assert.Equal(t, 5.0, updated.Ratings)

	_, err = f.svc.DeleteReview(context.Background(), product.ID.Hex(), primitive.NewObjectID().Hex())
	var svcErr *services.ServiceError
	if assert.ErrorAs(t, err, &svcErr) {
		assert.Equal(t, "Review not found", svcErr.Message)
	}
}

func TestStockHistory_EmptyCatalog(t *testing.T) {
	f := newProductFixture()

	_, err := f.svc.StockHistory(context.Background())

	var svcErr *services.ServiceError
	if assert.ErrorAs(t, err, &svcErr) {
		assert.Equal(t, 404, svcErr.StatusCode)
		assert.Equal(t, "No stock history found", svcErr.Message)
	}
}

func TestCreateBrand_DuplicateName(t *testing.T) {
	f := newProductFixture()

	_, err := f.svc.CreateBrand(context.Background(), services.BrandInput{Name: "Yamaha"})
	assert.Nil(t, err)

	_, err = f.svc.CreateBrand(context.Background(), services.BrandInput{Name: "Yamaha"})
	var svcErr *services.ServiceError
	if assert.ErrorAs(t, err, &svcErr) {
		assert.Equal(t, 400, svcErr.StatusCode)
		assert.Equal(t, "Brand name already exists", svcErr.Message)
	}
}

func TestRecordSupplierDelivery_RestocksAndSnapshots(t *testing.T) {
	f := newProductFixture()
	brand, category := f.seedBrandAndCategory()
	product, _ := f.svc.CreateProduct(context.Background(), services.CreateProductInput{
		Name: "Air Filter", Description: "OEM", Price: 260,
		Brand: brand.ID.Hex(), Category: category.ID.Hex(), Stock: 3,
	}, adminActor())

	entry, err := f.svc.RecordSupplierDelivery(context.Background(), services.SupplierDeliveryInput{
		Supplier:  primitive.NewObjectID().Hex(),
		InvoiceID: "INV-2024-118",
		Lines: []services.SupplierDeliveryLine{
			{ProductID: product.ID.Hex(), Quantity: 10, Price: 200},
		},
	})

	assert.Nil(t, err)
	assert.Equal(t, 2000.0, entry.TotalPrice)
	if assert.Len(t, entry.Products, 1) {
		assert.Equal(t, "Air Filter", entry.Products[0].ProductName)
		assert.Equal(t, "Shell", entry.Products[0].BrandName)
	}

	stored, _ := f.products.FindByID(context.Background(), product.ID)
	assert.Equal(t, 13, stored.Stock)
	if assert.Len(t, stored.StockLogs, 2) {
		assert.Equal(t, "Restocked", stored.StockLogs[1].Status)
		assert.Equal(t, "secretary", stored.StockLogs[1].By)
	}
}
