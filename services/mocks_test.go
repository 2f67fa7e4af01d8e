package services_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/XdebronneX/backend-TeamPOOR/models"
	"github.com/XdebronneX/backend-TeamPOOR/repository"
	"github.com/XdebronneX/backend-TeamPOOR/services"
)

// In-memory repository doubles shared by the service tests.

// --- Users ---

type mockUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	m.users[user.ID] = user
	return nil
}

// Reads return copies so callers see decoded documents, not shared state.
func (m *mockUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *user
	return &found, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	for _, user := range m.users {
		if user.Phone == phone {
			found := *user
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) PhoneInUseByOther(_ context.Context, phone string, excludeID primitive.ObjectID) (bool, error) {
	for _, user := range m.users {
		if user.Phone == phone && user.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) FindByResetToken(_ context.Context, tokenHash string, now time.Time) (*models.User, error) {
	for _, user := range m.users {
		if user.ResetPasswordToken == tokenHash &&
			user.ResetPasswordExpire != nil && user.ResetPasswordExpire.After(now) {
			found := *user
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) FindAll(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, user := range m.users {
		out = append(out, *user)
	}
	return out, nil
}

func (m *mockUserRepo) FindByRole(_ context.Context, role models.Role) ([]models.User, error) {
	var out []models.User
	for _, user := range m.users {
		if user.Role == role {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) SetVerified(_ context.Context, id primitive.ObjectID) error {
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Verified = true
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

// --- Products ---

type mockProductRepo struct {
	products map[primitive.ObjectID]*models.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[primitive.ObjectID]*models.Product)}
}

func (m *mockProductRepo) Create(_ context.Context, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *product
	return &found, nil
}

func (m *mockProductRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if product, ok := m.products[id]; ok {
			out = append(out, *product)
		}
	}
	return out, nil
}

func (m *mockProductRepo) Find(_ context.Context, filter repository.ProductFilter) ([]models.Product, error) {
	var out []models.Product
	for _, product := range m.products {
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(product.Name), strings.ToLower(filter.Keyword)) {
			continue
		}
		if filter.Category != nil && product.Category != *filter.Category {
			continue
		}
		if filter.MinPrice != nil && product.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && product.Price > *filter.MaxPrice {
			continue
		}
		if filter.MinRating != nil && product.Ratings < *filter.MinRating {
			continue
		}
		out = append(out, *product)
	}
	return out, nil
}

func (m *mockProductRepo) FindAll(ctx context.Context) ([]models.Product, error) {
	return m.Find(ctx, repository.ProductFilter{})
}

func (m *mockProductRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.products)), nil
}

func (m *mockProductRepo) Update(_ context.Context, product *models.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepo) DecrementStock(_ context.Context, id primitive.ObjectID, quantity int, log models.StockLog) error {
	product, ok := m.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	if product.Stock < quantity {
		return repository.ErrInsufficientStock
	}
	product.Stock -= quantity
	product.StockLogs = append(product.StockLogs, log)
	return nil
}

func (m *mockProductRepo) IncrementStock(_ context.Context, id primitive.ObjectID, quantity int, log models.StockLog) error {
	product, ok := m.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	product.Stock += quantity
	product.StockLogs = append(product.StockLogs, log)
	return nil
}

// --- Brands / categories / services ---

type mockBrandRepo struct {
	brands map[primitive.ObjectID]*models.Brand
}

func newMockBrandRepo() *mockBrandRepo {
	return &mockBrandRepo{brands: make(map[primitive.ObjectID]*models.Brand)}
}

func (m *mockBrandRepo) Create(_ context.Context, brand *models.Brand) error {
	if brand.ID.IsZero() {
		brand.ID = primitive.NewObjectID()
	}
	m.brands[brand.ID] = brand
	return nil
}

func (m *mockBrandRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Brand, error) {
	brand, ok := m.brands[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *brand
	return &found, nil
}

func (m *mockBrandRepo) FindByName(_ context.Context, name string) (*models.Brand, error) {
	for _, brand := range m.brands {
		if brand.Name == name {
			found := *brand
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockBrandRepo) FindAll(_ context.Context) ([]models.Brand, error) {
	var out []models.Brand
	for _, brand := range m.brands {
		out = append(out, *brand)
	}
	return out, nil
}

func (m *mockBrandRepo) Update(_ context.Context, brand *models.Brand) error {
	if _, ok := m.brands[brand.ID]; !ok {
		return repository.ErrNotFound
	}
	m.brands[brand.ID] = brand
	return nil
}

func (m *mockBrandRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.brands[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.brands, id)
	return nil
}

type mockCategoryRepo struct {
	categories map[primitive.ObjectID]*models.Category
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[primitive.ObjectID]*models.Category)}
}

func (m *mockCategoryRepo) Create(_ context.Context, category *models.Category) error {
	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *category
	return &found, nil
}

func (m *mockCategoryRepo) FindAll(_ context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, category := range m.categories {
		out = append(out, *category)
	}
	return out, nil
}

func (m *mockCategoryRepo) Update(_ context.Context, category *models.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return repository.ErrNotFound
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.categories[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

type mockServiceRepo struct {
	services map[primitive.ObjectID]*models.Service
}

func newMockServiceRepo() *mockServiceRepo {
	return &mockServiceRepo{services: make(map[primitive.ObjectID]*models.Service)}
}

func (m *mockServiceRepo) Create(_ context.Context, service *models.Service) error {
	if service.ID.IsZero() {
		service.ID = primitive.NewObjectID()
	}
	m.services[service.ID] = service
	return nil
}

func (m *mockServiceRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Service, error) {
	service, ok := m.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *service
	return &found, nil
}

func (m *mockServiceRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Service, error) {
	var out []models.Service
	for _, id := range ids {
		if service, ok := m.services[id]; ok {
			out = append(out, *service)
		}
	}
	return out, nil
}

func (m *mockServiceRepo) FindAll(_ context.Context) ([]models.Service, error) {
	var out []models.Service
	for _, service := range m.services {
		out = append(out, *service)
	}
	return out, nil
}

func (m *mockServiceRepo) Update(_ context.Context, service *models.Service) error {
	if _, ok := m.services[service.ID]; !ok {
		return repository.ErrNotFound
	}
	m.services[service.ID] = service
	return nil
}

func (m *mockServiceRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.services[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.services, id)
	return nil
}

// --- Orders ---

type mockOrderRepo struct {
	orders map[primitive.ObjectID]*models.Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[primitive.ObjectID]*models.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *order
	return &found, nil
}

func (m *mockOrderRepo) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	var out []models.Order
	for _, order := range m.orders {
		if order.User == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (m *mockOrderRepo) FindAll(_ context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, order := range m.orders {
		out = append(out, *order)
	}
	return out, nil
}

func (m *mockOrderRepo) Update(_ context.Context, order *models.Order) error {
	if _, ok := m.orders[order.ID]; !ok {
		return repository.ErrNotFound
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

type mockOrderItemRepo struct {
	items map[primitive.ObjectID]*models.OrderItem
}

func newMockOrderItemRepo() *mockOrderItemRepo {
	return &mockOrderItemRepo{items: make(map[primitive.ObjectID]*models.OrderItem)}
}

func (m *mockOrderItemRepo) Create(_ context.Context, item *models.OrderItem) error {
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	m.items[item.ID] = item
	return nil
}

func (m *mockOrderItemRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.OrderItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *item
	return &found, nil
}

func (m *mockOrderItemRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.OrderItem, error) {
	var out []models.OrderItem
	for _, id := range ids {
		if item, ok := m.items[id]; ok {
			out = append(out, *item)
		}
	}
	return out, nil
}

// --- Appointments ---

type mockAppointmentRepo struct {
	appointments map[primitive.ObjectID]*models.Appointment
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{appointments: make(map[primitive.ObjectID]*models.Appointment)}
}

func (m *mockAppointmentRepo) Create(_ context.Context, appointment *models.Appointment) error {
	if appointment.ID.IsZero() {
		appointment.ID = primitive.NewObjectID()
	}
	m.appointments[appointment.ID] = appointment
	return nil
}

func (m *mockAppointmentRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Appointment, error) {
	appointment, ok := m.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *appointment
	return &found, nil
}

func (m *mockAppointmentRepo) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, appointment := range m.appointments {
		if appointment.User == userID {
			out = append(out, *appointment)
		}
	}
	return out, nil
}

func (m *mockAppointmentRepo) FindByMechanic(_ context.Context, mechanicID primitive.ObjectID) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, appointment := range m.appointments {
		if appointment.Mechanic != nil && *appointment.Mechanic == mechanicID {
			out = append(out, *appointment)
		}
	}
	return out, nil
}

func (m *mockAppointmentRepo) FindAll(_ context.Context) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, appointment := range m.appointments {
		out = append(out, *appointment)
	}
	return out, nil
}

func (m *mockAppointmentRepo) Update(_ context.Context, appointment *models.Appointment) error {
	if _, ok := m.appointments[appointment.ID]; !ok {
		return repository.ErrNotFound
	}
	m.appointments[appointment.ID] = appointment
	return nil
}

func (m *mockAppointmentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.appointments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.appointments, id)
	return nil
}

type mockAppointmentServiceRepo struct {
	lines map[primitive.ObjectID]*models.AppointmentService
}

func newMockAppointmentServiceRepo() *mockAppointmentServiceRepo {
	return &mockAppointmentServiceRepo{lines: make(map[primitive.ObjectID]*models.AppointmentService)}
}

func (m *mockAppointmentServiceRepo) Create(_ context.Context, line *models.AppointmentService) error {
	if line.ID.IsZero() {
		line.ID = primitive.NewObjectID()
	}
	m.lines[line.ID] = line
	return nil
}

func (m *mockAppointmentServiceRepo) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.AppointmentService, error) {
	var out []models.AppointmentService
	for _, id := range ids {
		if line, ok := m.lines[id]; ok {
			out = append(out, *line)
		}
	}
	return out, nil
}

// --- Feedback / notifications / supplier logs / price history ---

type mockFeedbackRepo struct {
	feedbacks map[primitive.ObjectID]*models.Feedback
}

func newMockFeedbackRepo() *mockFeedbackRepo {
	return &mockFeedbackRepo{feedbacks: make(map[primitive.ObjectID]*models.Feedback)}
}

func (m *mockFeedbackRepo) Create(_ context.Context, feedback *models.Feedback) error {
	if feedback.ID.IsZero() {
		feedback.ID = primitive.NewObjectID()
	}
	m.feedbacks[feedback.ID] = feedback
	return nil
}

func (m *mockFeedbackRepo) FindByAppointment(_ context.Context, appointmentID primitive.ObjectID) (*models.Feedback, error) {
	for _, feedback := range m.feedbacks {
		if feedback.Appointment == appointmentID {
			found := *feedback
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockFeedbackRepo) FindAll(_ context.Context) ([]models.Feedback, error) {
	var out []models.Feedback
	for _, feedback := range m.feedbacks {
		out = append(out, *feedback)
	}
	return out, nil
}

func (m *mockFeedbackRepo) Update(_ context.Context, feedback *models.Feedback) error {
	if _, ok := m.feedbacks[feedback.ID]; !ok {
		return repository.ErrNotFound
	}
	m.feedbacks[feedback.ID] = feedback
	return nil
}

type mockNotificationRepo struct {
	notifications map[primitive.ObjectID]*models.Notification
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[primitive.ObjectID]*models.Notification)}
}

func (m *mockNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	if notification.ID.IsZero() {
		notification.ID = primitive.NewObjectID()
	}
	m.notifications[notification.ID] = notification
	return nil
}

func (m *mockNotificationRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Notification, error) {
	notification, ok := m.notifications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *notification
	return &found, nil
}

func (m *mockNotificationRepo) FindUnreadByUser(_ context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	var out []models.Notification
	for _, notification := range m.notifications {
		if notification.User == userID && !notification.IsRead {
			out = append(out, *notification)
		}
	}
	return out, nil
}

func (m *mockNotificationRepo) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	var out []models.Notification
	for _, notification := range m.notifications {
		if notification.User == userID {
			out = append(out, *notification)
		}
	}
	return out, nil
}

func (m *mockNotificationRepo) MarkAllReadForUser(_ context.Context, userID primitive.ObjectID) error {
	for _, notification := range m.notifications {
		if notification.User == userID {
			notification.IsRead = true
		}
	}
	return nil
}

type mockSupplierLogRepo struct {
	logs map[primitive.ObjectID]*models.SupplierLog
}

func newMockSupplierLogRepo() *mockSupplierLogRepo {
	return &mockSupplierLogRepo{logs: make(map[primitive.ObjectID]*models.SupplierLog)}
}

func (m *mockSupplierLogRepo) Create(_ context.Context, log *models.SupplierLog) error {
	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
	}
	m.logs[log.ID] = log
	return nil
}

func (m *mockSupplierLogRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.SupplierLog, error) {
	log, ok := m.logs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *log
	return &found, nil
}

func (m *mockSupplierLogRepo) FindAllSorted(_ context.Context) ([]models.SupplierLog, error) {
	var out []models.SupplierLog
	for _, log := range m.logs {
		out = append(out, *log)
	}
	return out, nil
}

type mockPriceHistoryRepo struct {
	entries []models.PriceHistory
}

func newMockPriceHistoryRepo() *mockPriceHistoryRepo {
	return &mockPriceHistoryRepo{}
}

func (m *mockPriceHistoryRepo) Create(_ context.Context, entry *models.PriceHistory) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockPriceHistoryRepo) FindAllSorted(_ context.Context) ([]models.PriceHistory, error) {
	return m.entries, nil
}

// --- Garage: addresses, motorcycles, fuel logs ---

type mockAddressRepo struct {
	addresses map[primitive.ObjectID]*models.Address
}

func newMockAddressRepo() *mockAddressRepo {
	return &mockAddressRepo{addresses: make(map[primitive.ObjectID]*models.Address)}
}

func (m *mockAddressRepo) Create(_ context.Context, address *models.Address) error {
	if address.ID.IsZero() {
		address.ID = primitive.NewObjectID()
	}
	m.addresses[address.ID] = address
	return nil
}

func (m *mockAddressRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Address, error) {
	address, ok := m.addresses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *address
	return &found, nil
}

func (m *mockAddressRepo) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	var out []models.Address
	for _, address := range m.addresses {
		if address.User == userID {
			out = append(out, *address)
		}
	}
	return out, nil
}

func (m *mockAddressRepo) Update(_ context.Context, address *models.Address) error {
	if _, ok := m.addresses[address.ID]; !ok {
		return repository.ErrNotFound
	}
	m.addresses[address.ID] = address
	return nil
}

func (m *mockAddressRepo) UnsetDefaultForUser(_ context.Context, userID primitive.ObjectID) error {
	for _, address := range m.addresses {
		if address.User == userID {
			address.IsDefault = false
		}
	}
	return nil
}

func (m *mockAddressRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.addresses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.addresses, id)
	return nil
}

type mockMotorcycleRepo struct {
	motorcycles map[primitive.ObjectID]*models.Motorcycle
}

func newMockMotorcycleRepo() *mockMotorcycleRepo {
	return &mockMotorcycleRepo{motorcycles: make(map[primitive.ObjectID]*models.Motorcycle)}
}

func (m *mockMotorcycleRepo) Create(_ context.Context, motorcycle *models.Motorcycle) error {
	if motorcycle.ID.IsZero() {
		motorcycle.ID = primitive.NewObjectID()
	}
	m.motorcycles[motorcycle.ID] = motorcycle
	return nil
}

func (m *mockMotorcycleRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Motorcycle, error) {
	motorcycle, ok := m.motorcycles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *motorcycle
	return &found, nil
}

func (m *mockMotorcycleRepo) FindByOwner(_ context.Context, ownerID primitive.ObjectID) ([]models.Motorcycle, error) {
	var out []models.Motorcycle
	for _, motorcycle := range m.motorcycles {
		if motorcycle.Owner == ownerID {
			out = append(out, *motorcycle)
		}
	}
	return out, nil
}

func (m *mockMotorcycleRepo) FindByPlate(_ context.Context, plateNumber string) (*models.Motorcycle, error) {
	for _, motorcycle := range m.motorcycles {
		if motorcycle.PlateNumber == plateNumber {
			found := *motorcycle
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockMotorcycleRepo) FindByEngine(_ context.Context, engineNumber string) (*models.Motorcycle, error) {
	for _, motorcycle := range m.motorcycles {
		if motorcycle.EngineNumber == engineNumber {
			found := *motorcycle
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockMotorcycleRepo) FindAll(_ context.Context) ([]models.Motorcycle, error) {
	var out []models.Motorcycle
	for _, motorcycle := range m.motorcycles {
		out = append(out, *motorcycle)
	}
	return out, nil
}

func (m *mockMotorcycleRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.motorcycles)), nil
}

func (m *mockMotorcycleRepo) Update(_ context.Context, motorcycle *models.Motorcycle) error {
	if _, ok := m.motorcycles[motorcycle.ID]; !ok {
		return repository.ErrNotFound
	}
	m.motorcycles[motorcycle.ID] = motorcycle
	return nil
}

func (m *mockMotorcycleRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.motorcycles[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.motorcycles, id)
	return nil
}

type mockFuelRepo struct {
	fuels map[primitive.ObjectID]*models.Fuel
}

func newMockFuelRepo() *mockFuelRepo {
	return &mockFuelRepo{fuels: make(map[primitive.ObjectID]*models.Fuel)}
}

func (m *mockFuelRepo) Create(_ context.Context, fuel *models.Fuel) error {
	if fuel.ID.IsZero() {
		fuel.ID = primitive.NewObjectID()
	}
	m.fuels[fuel.ID] = fuel
	return nil
}

func (m *mockFuelRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Fuel, error) {
	fuel, ok := m.fuels[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *fuel
	return &found, nil
}

func (m *mockFuelRepo) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Fuel, error) {
	var out []models.Fuel
	for _, fuel := range m.fuels {
		if fuel.User == userID {
			out = append(out, *fuel)
		}
	}
	return out, nil
}

func (m *mockFuelRepo) FindByMotorcycle(_ context.Context, motorcycleID primitive.ObjectID) ([]models.Fuel, error) {
	var out []models.Fuel
	for _, fuel := range m.fuels {
		if fuel.Motorcycle == motorcycleID {
			out = append(out, *fuel)
		}
	}
	return out, nil
}

func (m *mockFuelRepo) Update(_ context.Context, fuel *models.Fuel) error {
	if _, ok := m.fuels[fuel.ID]; !ok {
		return repository.ErrNotFound
	}
	m.fuels[fuel.ID] = fuel
	return nil
}

func (m *mockFuelRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.fuels[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.fuels, id)
	return nil
}

// --- Tokens ---

type mockVerificationTokenRepo struct {
	tokens map[primitive.ObjectID]*models.VerificationToken
}

func newMockVerificationTokenRepo() *mockVerificationTokenRepo {
	return &mockVerificationTokenRepo{tokens: make(map[primitive.ObjectID]*models.VerificationToken)}
}

func (m *mockVerificationTokenRepo) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.VerificationToken, error) {
	token, ok := m.tokens[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *token
	return &found, nil
}

func (m *mockVerificationTokenRepo) Upsert(_ context.Context, userID primitive.ObjectID, token string, expiresAt time.Time) (*models.VerificationToken, error) {
	entry := &models.VerificationToken{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	m.tokens[userID] = entry
	return entry, nil
}

type mockPaymentTokenRepo struct {
	tokens map[primitive.ObjectID]*models.PaymentToken
}

func newMockPaymentTokenRepo() *mockPaymentTokenRepo {
	return &mockPaymentTokenRepo{tokens: make(map[primitive.ObjectID]*models.PaymentToken)}
}

func (m *mockPaymentTokenRepo) FindByOrder(_ context.Context, orderID primitive.ObjectID) (*models.PaymentToken, error) {
	token, ok := m.tokens[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *token
	return &found, nil
}

func (m *mockPaymentTokenRepo) Upsert(_ context.Context, orderID primitive.ObjectID, token string, expiresAt time.Time) (*models.PaymentToken, error) {
	entry := &models.PaymentToken{
		ID:        primitive.NewObjectID(),
		OrderID:   orderID,
		Token:     token,
		ExpiresAt: expiresAt,
	}
	m.tokens[orderID] = entry
	return entry, nil
}

// --- Infrastructure doubles ---

type mockStorage struct {
	mu       sync.Mutex
	uploads  int
	deleted  []string
	lastPath string
}

func (m *mockStorage) Upload(_ context.Context, _ string, folder string) (models.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads++
	publicID := fmt.Sprintf("%s/img-%d", folder, m.uploads)
	m.lastPath = publicID
	return models.Image{PublicID: publicID, URL: "https://storage.test/" + publicID}, nil
}

func (m *mockStorage) Delete(_ context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, publicID)
	return nil
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

type mockEmailSender struct {
	mu   sync.Mutex
	sent []sentEmail
}

func (m *mockEmailSender) SendEmail(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentEmail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *mockEmailSender) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type mockCheckoutProvider struct {
	sessions    int
	lastLines   []services.CheckoutLine
	lastSuccess string
}

func (m *mockCheckoutProvider) CreateCheckoutSession(_ context.Context, lines []services.CheckoutLine, successURL string) (string, error) {
	m.sessions++
	m.lastLines = lines
	m.lastSuccess = successURL
	return "https://checkout.test/session/" + fmt.Sprint(m.sessions), nil
}
