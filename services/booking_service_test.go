package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/XdebronneX/backend-TeamPOOR/models"
	"github.com/XdebronneX/backend-TeamPOOR/services"
)

type bookingFixture struct {
	appointments *mockAppointmentRepo
	lines        *mockAppointmentServiceRepo
	catalog      *mockServiceRepo
	products     *mockProductRepo
	brands       *mockBrandRepo
	users        *mockUserRepo
	feedbacks    *mockFeedbackRepo
	storage      *mockStorage
	svc          *services.BookingService
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		appointments: newMockAppointmentRepo(),
		lines:        newMockAppointmentServiceRepo(),
		catalog:      newMockServiceRepo(),
		products:     newMockProductRepo(),
		brands:       newMockBrandRepo(),
		users:        newMockUserRepo(),
		feedbacks:    newMockFeedbackRepo(),
		storage:      &mockStorage{},
	}
	f.svc = services.NewBookingService(
		f.appointments, f.lines, f.catalog, f.products, f.brands,
		f.users, f.feedbacks, f.storage,
	)
	return f
}

func (f *bookingFixture) seedCustomer() *models.User {
	user := &models.User{Firstname: "Maria", Lastname: "Santos", Role: models.RoleUser}
	_ = f.users.Create(context.Background(), user)
	return user
}

func (f *bookingFixture) seedService(name string, price float64, available bool) *models.Service {
	service := &models.Service{Name: name, Price: price, IsAvailable: available}
	_ = f.catalog.Create(context.Background(), service)
	return service
}

func (f *bookingFixture) seedBooking(user *models.User, svcs ...*models.Service) *models.Appointment {
	ids := make([]string, 0, len(svcs))
	for _, s := range svcs {
		ids = append(ids, s.ID.Hex())
	}
	appointment, err := f.svc.CreateBooking(context.Background(), services.CreateBookingInput{
		User:            user.ID.Hex(),
		Services:        ids,
		AppointmentDate: time.Now().Add(48 * time.Hour),
		TimeSlot:        "9:00 AM",
	})
	if err != nil {
		panic(err)
	}
	return appointment
}

func TestCreateBooking_Success(t *testing.T) {
	f := newBookingFixture()
	user := f.seedCustomer()
	tuneUp := f.seedService("Engine Tune-up", 800, true)
	change := f.seedService("Oil Change", 350, true)

	appointment, err := f.svc.CreateBooking(context.Background(), services.CreateBookingInput{
		User:            user.ID.Hex(),
		Services:        []string{tuneUp.ID.Hex(), change.ID.Hex()},
		PlateNumber:     "ABC-1234",
		AppointmentDate: time.Now().Add(48 * time.Hour),
		TimeSlot:        "1:00 PM",
	})

	assert.Nil(t, err)
	assert.Len(t, appointment.AppointmentServices, 2)
	assert.Equal(t, 1150.0, appointment.TotalPrice)
	assert.Equal(t, models.AppointmentStatusPending, appointment.CurrentStatus())
	assert.Equal(t, "Appointment scheduled successfully. Awaiting confirmation.", appointment.AppointmentStatus[0].Message)
}

func TestCreateBooking_UnavailableServiceRejectsAll(t *testing.T) {
	f := newBookingFixture()
	user := f.seedCustomer()
	ok := f.seedService("Oil Change", 350, true)
	closed := f.seedService("Engine Overhaul", 5000, false)

	_, err := f.svc.CreateBooking(context.Background(), services.CreateBookingInput{
		User:            user.ID.Hex(),
		Services:        []string{ok.ID.Hex(), closed.ID.Hex()},
		AppointmentDate: time.Now().Add(24 * time.Hour),
		TimeSlot:        "9:00 AM",
	})

	var svcErr *services.ServiceError
	if assert.ErrorAs(t, err, &svcErr) {
		assert.Equal(t, 400, svcErr.StatusCode)
		assert.Contains(t, svcErr.Message, "Service not available: Engine Overhaul")
	}
	appointments, _ := f.appointments.FindAll(context.Background())
	assert.Empty(t, appointments)
}

func TestAssignMechanic(t *testing.T) {
	f := newBookingFixture()
	user := f.seedCustomer()
	service := f.seedService("Oil Change", 350, true)
	appointment := f.seedBooking(user, service)

	mechanic := &models.User{Firstname: "Pedro", Role: models.RoleMechanic}
	_ = f.users.Create(context.Background(), mechanic)
	secretary := &models.User{ID: primitive.NewObjectID(), Firstname: "Ana", Role: models.RoleSecretary}

	updated, err := f.svc.AssignMechanic(context.Background(), appointment.ID.Hex(), mechanic.ID.Hex(), secretary)
	assert.Nil(t, err)
	assert.Equal(t, mechanic.ID, *updated.Mechanic)
	assert.Equal(t, secretary.ID, *updated.EmployeeUser)

	tasks, count, err := f.svc.MechanicTasks(context.Background(), mechanic.ID)
	assert.Nil(t, err)
	assert.Equal(t, 1, count)
	assert.Len(t, tasks, 1)
}

func TestUpdateAppointmentStatus_AppendsOnly(t *testing.T) {
	f := newBookingFixture()
	user := f.seedCustomer()
	service := f.seedService("Oil Change", 350, true)
	appointment := f.seedBooking(user, service)

	updated, err := f.svc.UpdateStatus(context.Background(), appointment.ID.Hex(), models.AppointmentStatusConfirmed, nil)
	assert.Nil(t, err)
	assert.Len(t, updated.AppointmentStatus, 2)
	assert.Equal(t, models.AppointmentStatusConfirmed, updated.CurrentStatus())
	// The prior entry is untouched.
	assert.Equal(t, models.AppointmentStatusPending, updated.AppointmentStatus[0].Status)
}

func TestRequestBackJob(t *testing.T) {
	f := newBookingFixture()
	user := f.seedCustomer()
	service := f.seedService("Oil Change", 350, true)
	appointment := f.seedBooking(user, service)

	updated, err := f.svc.RequestBackJob(context.Background(), appointment.ID.Hex(), "Engine still stalls on idle")
	assert.Nil(t, err)
	assert.Equal(t, models.AppointmentStatusBackJobPending, updated.CurrentStatus())
	if assert.NotNil(t, updated.BackJob) {
		assert.Equal(t, "Engine still stalls on idle", updated.BackJob.Comment)
	}
}

func TestReschedule(t *testing.T) {
	f := newBookingFixture()
	user := f.seedCustomer()
	service := f.seedService("Oil Change", 350, true)
	appointment := f.seedBooking(user, service)

	newDate := time.Now().Add(96 * time.Hour)
	updated, err := f.svc.Reschedule(context.Background(), appointment.ID.Hex(), &newDate, "3:00 PM")
	assert.Nil(t, err)
	assert.Equal(t, newDate, updated.AppointmentDate)
	assert.Equal(t, "3:00 PM", updated.TimeSlot)
	assert.Equal(t, models.AppointmentStatusRescheduled, updated.CurrentStatus())
}

func TestAddParts_ReplacesListAndDecrementsStock(t *testing.T) {
	f := newBookingFixture()
	user := f.seedCustomer()
	service := f.seedService("Oil Change", 350, true)
	appointment := f.seedBooking(user, service)

	brand := &models.Brand{Name: "Motul"}
	_ = f.brands.Create(context.Background(), brand)
	oil := &models.Product{Name: "Engine Oil", Price: 320, Brand: brand.ID, Stock: 10}
	filter := &models.Product{Name: "Oil Filter", Price: 180, Brand: brand.ID, Stock: 10}
	_ = f.products.Create(context.Background(), oil)
	_ = f.products.Create(context.Background(), filter)

	first, err := f.svc.AddParts(context.Background(), appointment.ID.Hex(), []services.PartInput{
		{ProductID: oil.ID.Hex(), Quantity: 2},
	})
	assert.Nil(t, err)
	assert.Len(t, first.Parts, 1)
	assert.Equal(t, 640.0, first.TotalPartPrice)

	// A second submission replaces the list outright; the first batch's
	// stock is not returned.
	second, err := f.svc.AddParts(context.Background(), appointment.ID.Hex(), []services.PartInput{
		{ProductID: filter.ID.Hex(), Quantity: 1},
	})
	assert.Nil(t, err)
	if assert.Len(t, second.Parts, 1) {
		assert.Equal(t, "Oil Filter", second.Parts[0].ProductName)
	}
	assert.Equal(t, 180.0, second.TotalPartPrice)

	oilStored, _ := f.products.FindByID(context.Background(), oil.ID)
	assert.Equal(t, 8, oilStored.Stock)
	if assert.Len(t, oilStored.StockLogs, 1) {
		assert.Equal(t, "Additional", oilStored.StockLogs[0].Status)
		assert.Equal(t, "secretary", oilStored.StockLogs[0].By)
	}
}

func TestAddParts_InsufficientStockRejectsAll(t *testing.T) {
	f := newBookingFixture()
	user := f.seedCustomer()
	service := f.seedService("Oil Change", 350, true)
	appointment := f.seedBooking(user, service)

	product := &models.Product{Name: "Gasket", Price: 50, Stock: 1}
	_ = f.products.Create(context.Background(), product)

	_, err := f.svc.AddParts(context.Background(), appointment.ID.Hex(), []services.PartInput{
		{ProductID: product.ID.Hex(), Quantity: 3},
	})

	var svcErr *services.ServiceError
	if assert.ErrorAs(t, err, &svcErr) {
		assert.Equal(t, 400, svcErr.StatusCode)
		assert.Contains(t, svcErr.Message, "Insufficient stock for product: Gasket")
	}
	stored, _ := f.products.FindByID(context.Background(), product.ID)
	assert.Equal(t, 1, stored.Stock)
}

func TestAddServices_AppendsToExistingLines(t *testing.T) {
	f := newBookingFixture()
	user := f.seedCustomer()
	base := f.seedService("Oil Change", 350, true)
	appointment := f.seedBooking(user, base)

	extra := f.seedService("Brake Adjustment", 250, true)
	updated, err := f.svc.AddServices(context.Background(), appointment.ID.Hex(), []string{extra.ID.Hex()})

	assert.Nil(t, err)
	// Unlike parts, the existing line survives.
	assert.Len(t, updated.AppointmentServices, 2)
	assert.Equal(t, 600.0, updated.TotalPrice)
}

func TestRemoveService_SubtractsPrice(t *testing.T) {
	f := newBookingFixture()
	user := f.seedCustomer()
	first := f.seedService("Oil Change", 350, true)
	second := f.seedService("Brake Adjustment", 250, true)
	appointment := f.seedBooking(user, first, second)

	updated, err := f.svc.RemoveService(context.Background(), appointment.ID.Hex(), appointment.AppointmentServices[1].Hex())
	assert.Nil(t, err)
	assert.Len(t, updated.AppointmentServices, 1)
	assert.Equal(t, 350.0, updated.TotalPrice)
}

func TestRemoveService_UsesPriceSnapshottedAtAdd(t *testing.T) {
	f := newBookingFixture()
	user := f.seedCustomer()
	base := f.seedService("Oil Change", 350, true)
	extra := f.seedService("Brake Adjustment", 250, true)
	appointment := f.seedBooking(user, base, extra)

	// A catalog price hike after booking must not shift the deduction.
	extra.Price = 999
	_ = f.catalog.Update(context.Background(), extra)

	updated, err := f.svc.RemoveService(context.Background(), appointment.ID.Hex(), appointment.AppointmentServices[1].Hex())
	assert.Nil(t, err)
	assert.Equal(t, 350.0, updated.TotalPrice)
}

func TestUploadProofs_ReplacePriorImage(t *testing.T) {
	f := newBookingFixture()
	user := f.seedCustomer()
	service := f.seedService("Oil Change", 350, true)
	appointment := f.seedBooking(user, service)

	first, err := f.svc.UploadMechanicProof(context.Background(), appointment.ID.Hex(), "data:image/png;base64,AAAA")
	assert.Nil(t, err)
	assert.NotNil(t, first.MechanicProof)

	second, err := f.svc.UploadMechanicProof(context.Background(), appointment.ID.Hex(), "data:image/png;base64,BBBB")
	assert.Nil(t, err)
	assert.NotEqual(t, first.MechanicProof.PublicID, second.MechanicProof.PublicID)
	assert.Contains(t, f.storage.deleted, first.MechanicProof.PublicID)
}

func TestSubmitFeedback_UpsertsPerAppointment(t *testing.T) {
	f := newBookingFixture()
	user := f.seedCustomer()
	service := f.seedService("Oil Change", 350, true)
	appointment := f.seedBooking(user, service)

	mechanic := &models.User{Firstname: "Pedro", Role: models.RoleMechanic}
	_ = f.users.Create(context.Background(), mechanic)
	_, err := f.svc.AssignMechanic(context.Background(), appointment.ID.Hex(), mechanic.ID.Hex(), nil)
	assert.Nil(t, err)

	first, err := f.svc.SubmitFeedback(context.Background(), appointment.ID.Hex(), user, 4, "Good work")
	assert.Nil(t, err)
	assert.Equal(t, 4.0, first.Rating)
	assert.Equal(t, "Maria Santos", first.Name)

	second, err := f.svc.SubmitFeedback(context.Background(), appointment.ID.Hex(), user, 5, "Even better after back job")
	assert.Nil(t, err)
	assert.Equal(t, first.ID, second.ID)

	all, _ := f.feedbacks.FindAll(context.Background())
	assert.Len(t, all, 1)
	assert.Equal(t, 5.0, all[0].Rating)
}

func TestSubmitFeedback_RequiresMechanic(t *testing.T) {
	f := newBookingFixture()
	user := f.seedCustomer()
	service := f.seedService("Oil Change", 350, true)
	appointment := f.seedBooking(user, service)

	_, err := f.svc.SubmitFeedback(context.Background(), appointment.ID.Hex(), user, 5, "Great")
	var svcErr *services.ServiceError
	if assert.ErrorAs(t, err, &svcErr) {
		assert.Equal(t, 400, svcErr.StatusCode)
		assert.Equal(t, "No mechanic assigned to this appointment", svcErr.Message)
	}
}
