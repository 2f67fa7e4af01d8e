package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/XdebronneX/backend-TeamPOOR/models"
	"github.com/XdebronneX/backend-TeamPOOR/repository"
)

// OrderService implements the order lifecycle: creation with stock
// validation, GCash checkout sessions, payment confirmation and status
// history updates.
type OrderService struct {
	orders        repository.OrderRepository
	orderItems    repository.OrderItemRepository
	products      repository.ProductRepository
	users         repository.UserRepository
	brands        repository.BrandRepository
	paymentTokens repository.PaymentTokenRepository
	notifications repository.NotificationRepository
	checkout      CheckoutProvider
	mailer        *Mailer
	frontendURL   string
}

func NewOrderService(
	orders repository.OrderRepository,
	orderItems repository.OrderItemRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	brands repository.BrandRepository,
	paymentTokens repository.PaymentTokenRepository,
	notifications repository.NotificationRepository,
	checkout CheckoutProvider,
	mailer *Mailer,
	frontendURL string,
) *OrderService {
	return &OrderService{
		orders:        orders,
		orderItems:    orderItems,
		products:      products,
		users:         users,
		brands:        brands,
		paymentTokens: paymentTokens,
		notifications: notifications,
		checkout:      checkout,
		mailer:        mailer,
		frontendURL:   frontendURL,
	}
}

// OrderLineInput is one requested (product, quantity) pair.
type OrderLineInput struct {
	Product  string `json:"product" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderInput carries the checkout form.
type CreateOrderInput struct {
	User          string           `json:"user" binding:"required"`
	OrderItems    []OrderLineInput `json:"orderItems" binding:"required,min=1"`
	Fullname      string           `json:"fullname"`
	Phone         string           `json:"phone"`
	Region        string           `json:"region"`
	Province      string           `json:"province"`
	City          string           `json:"city"`
	Barangay      string           `json:"barangay"`
	PostalCode    string           `json:"postalcode"`
	Address       string           `json:"address"`
	PaymentMethod string           `json:"paymentMethod" binding:"required"`
}

// CreateOrderResult is either the persisted order (COD) or a checkout
// URL to redirect to (GCash).
type CreateOrderResult struct {
	Order       *models.Order `json:"order,omitempty"`
	CheckoutURL string        `json:"checkoutUrl,omitempty"`
}

type orderLine struct {
	product  *models.Product
	quantity int
}

// CreateOrder validates every line against live stock before anything is
// persisted. Cash-on-delivery decrements stock at creation; GCash
// defers the decrement to the payment confirmation callback.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	userID, err := primitive.ObjectIDFromHex(input.User)
	if err != nil {
		return nil, notFound("invalid user!")
	}
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("invalid user!")
	}
	if err != nil {
		return nil, internal("Error creating order")
	}

	// Validation pass: collect every line error, persist nothing on
	// any failure.
	var (
		lines     []orderLine
		problems  []string
		total     float64
	)
	for _, item := range input.OrderItems {
		productID, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			problems = append(problems, fmt.Sprintf("Product with ID %s not found.", item.Product))
			continue
		}
		product, err := s.products.FindByID(ctx, productID)
		if errors.Is(err, repository.ErrNotFound) {
			problems = append(problems, fmt.Sprintf("Product with ID %s not found.", item.Product))
			continue
		}
		if err != nil {
			return nil, internal("Error creating order")
		}
		if product.Stock <= 0 {
			problems = append(problems, fmt.Sprintf("Out of stock of product %s.", product.Name))
			continue
		}
		if product.Stock < item.Quantity {
			problems = append(problems, fmt.Sprintf("Not enough stock of product %s.", product.Name))
			continue
		}
		lines = append(lines, orderLine{product: product, quantity: item.Quantity})
		total += product.Price * float64(item.Quantity)
	}
	if len(problems) > 0 {
		return nil, badRequest(strings.Join(problems, "\n"))
	}

	// Cash on delivery takes the stock immediately. Sold logs carry the
	// negative delta.
	if input.PaymentMethod == models.PaymentCashOnDelivery {
		for _, line := range lines {
			log := models.StockLog{
				Name:      line.product.Name,
				Brand:     s.brandName(ctx, line.product.Brand),
				Quantity:  -line.quantity,
				Status:    StockSold,
				By:        user.ActorLabel(),
				CreatedAt: time.Now(),
			}
			if err := s.products.DecrementStock(ctx, line.product.ID, line.quantity, log); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return nil, badRequest(fmt.Sprintf("Not enough stock of product %s.", line.product.Name))
				}
				return nil, internal("Error creating order")
			}
		}
	}

	itemIDs := make([]primitive.ObjectID, 0, len(lines))
	for _, line := range lines {
		item := &models.OrderItem{Product: line.product.ID, Quantity: line.quantity}
		if err := s.orderItems.Create(ctx, item); err != nil {
			return nil, internal("Error creating order")
		}
		itemIDs = append(itemIDs, item.ID)
	}

	var initial models.StatusEntry
	if input.PaymentMethod == models.PaymentGCash {
		initial = models.NewStatusEntry(models.OrderStatusToPay, "Your order has been received. Proceed to payment using GCash.")
	} else {
		initial = models.NewStatusEntry(models.OrderStatusPending, "Order placed successfully.")
	}

	order := &models.Order{
		User:          user.ID,
		OrderItems:    itemIDs,
		Fullname:      input.Fullname,
		Phone:         input.Phone,
		Region:        input.Region,
		Province:      input.Province,
		City:          input.City,
		Barangay:      input.Barangay,
		PostalCode:    input.PostalCode,
		Address:       input.Address,
		OrderStatus:   []models.StatusEntry{initial},
		TotalPrice:    total,
		PaymentMethod: input.PaymentMethod,
		DateOrdered:   time.Now(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, internal("Error creating order")
	}

	s.sendConfirmationAsync(user, order, lines)

	if input.PaymentMethod != models.PaymentGCash {
		return &CreateOrderResult{Order: order}, nil
	}

	checkoutURL, err := s.openCheckout(ctx, order, lines)
	if err != nil {
		return nil, err
	}
	return &CreateOrderResult{Order: order, CheckoutURL: checkoutURL}, nil
}

// openCheckout mints (or refreshes) the order's one-time payment token
// and opens a GCash checkout session against the line snapshots.
func (s *OrderService) openCheckout(ctx context.Context, order *models.Order, lines []orderLine) (string, error) {
	token, err := randomToken()
	if err != nil {
		return "", internal("Error creating payment session")
	}
	if _, err := s.paymentTokens.Upsert(ctx, order.ID, token, time.Now().Add(models.PaymentTokenTTL)); err != nil {
		return "", internal("Error creating payment session")
	}

	checkoutLines := make([]CheckoutLine, 0, len(lines))
	for _, line := range lines {
		checkoutLines = append(checkoutLines, CheckoutLine{
			Name:     line.product.Name,
			Quantity: line.quantity,
			Price:    line.product.Price,
		})
	}

	successURL := fmt.Sprintf("%s/payment/success/%s/%s", s.frontendURL, order.ID.Hex(), token)
	checkoutURL, err := s.checkout.CreateCheckoutSession(ctx, checkoutLines, successURL)
	if err != nil {
		zap.L().Error("Failed to open checkout session", zap.Error(err), zap.String("order_id", order.ID.Hex()))
		return "", internal("Error creating payment session")
	}
	return checkoutURL, nil
}

// PaymentOrder re-requests a checkout session for an existing GCash
// order, rebuilding line snapshots from the stored items.
func (s *OrderService) PaymentOrder(ctx context.Context, hexID string) (string, error) {
	order, err := s.GetOrder(ctx, hexID)
	if err != nil {
		return "", err
	}

	lines, err := s.loadLines(ctx, order)
	if err != nil {
		return "", err
	}
	return s.openCheckout(ctx, order, lines)
}

// ConfirmGCashPayment handles the payment success callback: it takes
// the deferred stock, appends PAID and flips isPaid. Line sufficiency
// is not re-checked here; stock may briefly go negative when inventory
// moved between checkout and confirmation.
func (s *OrderService) ConfirmGCashPayment(ctx context.Context, hexID, token string) (*models.Order, error) {
	orderID, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, badRequest("Invalid Link")
	}
	order, err := s.orders.FindByID(ctx, orderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, badRequest("Invalid Link")
	}
	if err != nil {
		return nil, internal("Error confirming payment")
	}
	if order.IsPaid {
		return order, nil
	}

	user, err := s.users.FindByID(ctx, order.User)
	if err != nil {
		return nil, internal("Error confirming payment")
	}

	if _, err := s.paymentTokens.Upsert(ctx, order.ID, token, time.Now().Add(models.PaymentTokenTTL)); err != nil {
		return nil, internal("Error confirming payment")
	}

	items, err := s.orderItems.FindByIDs(ctx, order.OrderItems)
	if err != nil {
		return nil, internal("Error confirming payment")
	}
	for _, item := range items {
		product, err := s.products.FindByID(ctx, item.Product)
		if err != nil {
			continue
		}
		log := models.StockLog{
			Name:      product.Name,
			Brand:     s.brandName(ctx, product.Brand),
			Quantity:  -item.Quantity,
			Status:    StockSold,
			By:        user.ActorLabel(),
			CreatedAt: time.Now(),
		}
		if err := s.products.IncrementStock(ctx, product.ID, -item.Quantity, log); err != nil {
			zap.L().Error("Failed to take paid stock", zap.Error(err), zap.String("product_id", product.ID.Hex()))
		}
	}

	order.OrderStatus = append(order.OrderStatus, models.NewStatusEntry(models.OrderStatusPaid, "Your order has been paid via GCash."))
	order.IsPaid = true
	if err := s.orders.Update(ctx, order); err != nil {
		return nil, internal("Error confirming payment")
	}
	return order, nil
}

// UpdateStatus appends a history entry with the canned message for the
// label. TORECEIVED additionally pushes an in-app delivery notification.
func (s *OrderService) UpdateStatus(ctx context.Context, hexID, status string, employee *models.User) (*models.Order, error) {
	order, err := s.GetOrder(ctx, hexID)
	if err != nil {
		return nil, err
	}

	order.OrderStatus = append(order.OrderStatus, models.NewStatusEntry(status, models.OrderStatusMessage(status)))
	if employee != nil {
		order.EmployeeUser = &employee.ID
	}
	if status == models.OrderStatusDelivered {
		now := time.Now()
		order.DateReceived = &now
	}

	if err := s.orders.Update(ctx, order); err != nil {
		return nil, internal("Error updating order")
	}

	if status == models.OrderStatusToReceived {
		notification := &models.Notification{
			User:    order.User,
			Title:   "Your Parcel is Out for Delivery",
			Message: fmt.Sprintf("Order #%s is Out for Delivery", order.ID.Hex()),
		}
		if err := s.notifications.Create(ctx, notification); err != nil {
			zap.L().Warn("Failed to create delivery notification", zap.Error(err), zap.String("order_id", order.ID.Hex()))
		}
	}
	return order, nil
}

// GetOrder loads one order by hex id.
func (s *OrderService) GetOrder(ctx context.Context, hexID string) (*models.Order, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, notFound("The order with the given ID was not found.")
	}
	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("The order with the given ID was not found.")
	}
	if err != nil {
		return nil, internal("Error loading order")
	}
	return order, nil
}

// MyOrders lists the user's orders, newest first.
func (s *OrderService) MyOrders(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	orders, err := s.orders.FindByUser(ctx, userID)
	if err != nil {
		return nil, internal("Error loading orders")
	}
	return orders, nil
}

// AllOrders lists every order with the grand total across them.
func (s *OrderService) AllOrders(ctx context.Context) ([]models.Order, float64, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, 0, internal("Error loading orders")
	}
	var total float64
	for _, order := range orders {
		total += order.TotalPrice
	}
	return orders, total, nil
}

// DeleteOrder removes an order record.
func (s *OrderService) DeleteOrder(ctx context.Context, hexID string) error {
	order, err := s.GetOrder(ctx, hexID)
	if err != nil {
		return err
	}
	if err := s.orders.Delete(ctx, order.ID); err != nil {
		return internal("Error deleting order")
	}
	return nil
}

// OrderItems resolves an order's stored line documents.
func (s *OrderService) OrderItems(ctx context.Context, order *models.Order) ([]models.OrderItem, error) {
	items, err := s.orderItems.FindByIDs(ctx, order.OrderItems)
	if err != nil {
		return nil, internal("Error loading order items")
	}
	return items, nil
}

// ---- helpers ----

func (s *OrderService) loadLines(ctx context.Context, order *models.Order) ([]orderLine, error) {
	items, err := s.orderItems.FindByIDs(ctx, order.OrderItems)
	if err != nil {
		return nil, internal("Error loading order")
	}
	lines := make([]orderLine, 0, len(items))
	for _, item := range items {
		product, err := s.products.FindByID(ctx, item.Product)
		if err != nil {
			return nil, internal("Error loading order")
		}
		lines = append(lines, orderLine{product: product, quantity: item.Quantity})
	}
	return lines, nil
}

func (s *OrderService) sendConfirmationAsync(user *models.User, order *models.Order, lines []orderLine) {
	if s.mailer == nil {
		return
	}
	emailLines := make([]OrderEmailLine, 0, len(lines))
	for _, line := range lines {
		emailLines = append(emailLines, OrderEmailLine{
			Name:     line.product.Name,
			Quantity: line.quantity,
			Subtotal: line.product.Price * float64(line.quantity),
		})
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.mailer.SendOrderConfirmationEmail(ctx, user, order, emailLines); err != nil {
			zap.L().Warn("Failed to send order confirmation email", zap.Error(err), zap.String("order_id", order.ID.Hex()))
		}
	}()
}

func (s *OrderService) brandName(ctx context.Context, id primitive.ObjectID) string {
	brand, err := s.brands.FindByID(ctx, id)
	if err != nil {
		return ""
	}
	return brand.Name
}
