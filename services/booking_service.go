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

// BookingService implements the repair appointment lifecycle: booking,
// mechanic assignment, status history, back-jobs, rescheduling, part
// and service line management, proof uploads and mechanic feedback.
type BookingService struct {
	appointments repository.AppointmentRepository
	lines        repository.AppointmentServiceRepository
	catalog      repository.ServiceRepository
	products     repository.ProductRepository
	brands       repository.BrandRepository
	users        repository.UserRepository
	feedbacks    repository.FeedbackRepository
	storage      ImageStorage
}

func NewBookingService(
	appointments repository.AppointmentRepository,
	lines repository.AppointmentServiceRepository,
	catalog repository.ServiceRepository,
	products repository.ProductRepository,
	brands repository.BrandRepository,
	users repository.UserRepository,
	feedbacks repository.FeedbackRepository,
	storage ImageStorage,
) *BookingService {
	return &BookingService{
		appointments: appointments,
		lines:        lines,
		catalog:      catalog,
		products:     products,
		brands:       brands,
		users:        users,
		feedbacks:    feedbacks,
		storage:      storage,
	}
}

// CreateBookingInput carries the appointment form.
type CreateBookingInput struct {
	User       string   `json:"user" binding:"required"`
	Services   []string `json:"services" binding:"required,min=1"`
	Fullname   string   `json:"fullname"`
	Phone      string   `json:"phone"`
	Region     string   `json:"region"`
	Province   string   `json:"province"`
	City       string   `json:"city"`
	Barangay   string   `json:"barangay"`
	PostalCode string   `json:"postalcode"`
	Address    string   `json:"address"`

	Fuel         string `json:"fuel"`
	Brand        string `json:"brand"`
	Year         string `json:"year"`
	PlateNumber  string `json:"plateNumber"`
	EngineNumber string `json:"engineNumber"`
	Type         string `json:"type"`
	ServiceType  string `json:"serviceType"`

	AppointmentDate time.Time `json:"appointmentDate" binding:"required"`
	TimeSlot        string    `json:"timeSlot" binding:"required"`
}

// CreateBooking validates every requested service before anything is
// persisted, then materializes the service lines and the appointment
// with its initial PENDING history entry.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*models.Appointment, error) {
	userID, err := primitive.ObjectIDFromHex(input.User)
	if err != nil {
		return nil, notFound("invalid user!")
	}
	if _, err := s.users.FindByID(ctx, userID); errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("invalid user!")
	} else if err != nil {
		return nil, internal("Error creating appointment")
	}

	// All-or-nothing validation of requested services.
	var (
		requested []*models.Service
		problems  []string
		total     float64
	)
	for _, hexID := range input.Services {
		serviceID, err := primitive.ObjectIDFromHex(hexID)
		if err != nil {
			problems = append(problems, fmt.Sprintf("Service not found: %s", hexID))
			continue
		}
		service, err := s.catalog.FindByID(ctx, serviceID)
		if errors.Is(err, repository.ErrNotFound) {
			problems = append(problems, fmt.Sprintf("Service not found: %s", hexID))
			continue
		}
		if err != nil {
			return nil, internal("Error creating appointment")
		}
		if !service.IsAvailable {
			problems = append(problems, fmt.Sprintf("Service not available: %s", service.Name))
			continue
		}
		requested = append(requested, service)
		total += service.Price
	}
	if len(problems) > 0 {
		return nil, badRequest(strings.Join(problems, "\n"))
	}

	lineIDs := make([]primitive.ObjectID, 0, len(requested))
	for _, service := range requested {
		line := &models.AppointmentService{Service: service.ID, Price: service.Price}
		if err := s.lines.Create(ctx, line); err != nil {
			return nil, internal("Error creating appointment")
		}
		lineIDs = append(lineIDs, line.ID)
	}

	appointment := &models.Appointment{
		User:                userID,
		AppointmentServices: lineIDs,
		Fullname:            input.Fullname,
		Phone:               input.Phone,
		Region:              input.Region,
		Province:            input.Province,
		City:                input.City,
		Barangay:            input.Barangay,
		PostalCode:          input.PostalCode,
		Address:             input.Address,
		Fuel:                input.Fuel,
		Brand:               input.Brand,
		Year:                input.Year,
		PlateNumber:         input.PlateNumber,
		EngineNumber:        input.EngineNumber,
		Type:                input.Type,
		ServiceType:         input.ServiceType,
		AppointmentStatus: []models.StatusEntry{
			models.NewStatusEntry(models.AppointmentStatusPending, models.AppointmentStatusMessage(models.AppointmentStatusPending)),
		},
		TotalPrice:      total,
		AppointmentDate: input.AppointmentDate,
		TimeSlot:        input.TimeSlot,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, internal("Error creating appointment")
	}
	return appointment, nil
}

// GetBooking loads one appointment by hex id.
func (s *BookingService) GetBooking(ctx context.Context, hexID string) (*models.Appointment, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, notFound("The appointment with the given ID was not found.")
	}
	appointment, err := s.appointments.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("The appointment with the given ID was not found.")
	}
	if err != nil {
		return nil, internal("Error loading appointment")
	}
	return appointment, nil
}

// AssignMechanic sets the mechanic reference. There is no role or
// capacity check; the caller picks from the mechanic list.
func (s *BookingService) AssignMechanic(ctx context.Context, hexID, mechanicHexID string, employee *models.User) (*models.Appointment, error) {
	appointment, err := s.GetBooking(ctx, hexID)
	if err != nil {
		return nil, err
	}
	mechanicID, err := primitive.ObjectIDFromHex(mechanicHexID)
	if err != nil {
		return nil, badRequest("Invalid mechanic")
	}
	if _, err := s.users.FindByID(ctx, mechanicID); errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Mechanic not found")
	} else if err != nil {
		return nil, internal("Error assigning mechanic")
	}

	appointment.Mechanic = &mechanicID
	if employee != nil {
		appointment.EmployeeUser = &employee.ID
	}
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, internal("Error assigning mechanic")
	}
	return appointment, nil
}

// UpdateStatus appends a history entry with the canned message for the
// label. Back-job labels share the same history list.
func (s *BookingService) UpdateStatus(ctx context.Context, hexID, status string, employee *models.User) (*models.Appointment, error) {
	appointment, err := s.GetBooking(ctx, hexID)
	if err != nil {
		return nil, err
	}

	appointment.AppointmentStatus = append(appointment.AppointmentStatus,
		models.NewStatusEntry(status, models.AppointmentStatusMessage(status)))
	if employee != nil {
		appointment.EmployeeUser = &employee.ID
	}
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, internal("Error updating appointment")
	}
	return appointment, nil
}

// RequestBackJob appends BACKJOBPENDING and stores the customer's
// comment.
func (s *BookingService) RequestBackJob(ctx context.Context, hexID, comment string) (*models.Appointment, error) {
	appointment, err := s.GetBooking(ctx, hexID)
	if err != nil {
		return nil, err
	}

	appointment.BackJob = &models.BackJob{Comment: comment, CreatedAt: time.Now()}
	appointment.AppointmentStatus = append(appointment.AppointmentStatus,
		models.NewStatusEntry(models.AppointmentStatusBackJobPending,
			models.AppointmentStatusMessage(models.AppointmentStatusBackJobPending)))
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, internal("Error requesting back job")
	}
	return appointment, nil
}

// Reschedule overwrites the slot fields that are provided. There is no
// conflict check against other appointments.
func (s *BookingService) Reschedule(ctx context.Context, hexID string, date *time.Time, timeSlot string) (*models.Appointment, error) {
	appointment, err := s.GetBooking(ctx, hexID)
	if err != nil {
		return nil, err
	}

	if date != nil {
		appointment.AppointmentDate = *date
	}
	if timeSlot != "" {
		appointment.TimeSlot = timeSlot
	}
	appointment.AppointmentStatus = append(appointment.AppointmentStatus,
		models.NewStatusEntry(models.AppointmentStatusRescheduled,
			models.AppointmentStatusMessage(models.AppointmentStatusRescheduled)))
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, internal("Error rescheduling appointment")
	}
	return appointment, nil
}

// PartInput is one part line to attach to an appointment.
type PartInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// AddParts validates every line against live stock (all-or-nothing),
// decrements stock with an "Additional" log, and REPLACES the whole
// parts list. totalPartPrice is recomputed over the new list only.
func (s *BookingService) AddParts(ctx context.Context, hexID string, inputs []PartInput) (*models.Appointment, error) {
	appointment, err := s.GetBooking(ctx, hexID)
	if err != nil {
		return nil, err
	}

	type resolved struct {
		product  *models.Product
		quantity int
	}
	var (
		lines    []resolved
		problems []string
	)
	for _, input := range inputs {
		productID, err := primitive.ObjectIDFromHex(input.ProductID)
		if err != nil {
			problems = append(problems, fmt.Sprintf("Product not found: %s", input.ProductID))
			continue
		}
		product, err := s.products.FindByID(ctx, productID)
		if errors.Is(err, repository.ErrNotFound) {
			problems = append(problems, fmt.Sprintf("Product not found: %s", input.ProductID))
			continue
		}
		if err != nil {
			return nil, internal("Error adding parts")
		}
		if product.Stock < input.Quantity {
			problems = append(problems, fmt.Sprintf("Insufficient stock for product: %s", product.Name))
			continue
		}
		lines = append(lines, resolved{product: product, quantity: input.Quantity})
	}
	if len(problems) > 0 {
		return nil, badRequest(strings.Join(problems, "\n"))
	}

	parts := make([]models.Part, 0, len(lines))
	var partTotal float64
	for _, line := range lines {
		brandName := s.brandName(ctx, line.product.Brand)
		log := models.StockLog{
			Name:      line.product.Name,
			Brand:     brandName,
			Quantity:  line.quantity,
			Status:    StockAdditional,
			By:        models.RoleSecretary.String(),
			CreatedAt: time.Now(),
		}
		if err := s.products.DecrementStock(ctx, line.product.ID, line.quantity, log); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				return nil, badRequest(fmt.Sprintf("Insufficient stock for product: %s", line.product.Name))
			}
			return nil, internal("Error adding parts")
		}

		parts = append(parts, models.Part{
			ProductID:   line.product.ID,
			ProductName: line.product.Name,
			BrandName:   brandName,
			Quantity:    line.quantity,
			Price:       line.product.Price,
		})
		partTotal += float64(line.quantity) * line.product.Price
	}

	// The new list replaces whatever was there before.
	appointment.Parts = parts
	appointment.TotalPartPrice = partTotal
	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, internal("Error adding parts")
	}
	return appointment, nil
}

// AddServices appends materialized service lines to the appointment and
// adds their prices onto totalPrice. Unlike parts, existing lines stay.
func (s *BookingService) AddServices(ctx context.Context, hexID string, serviceHexIDs []string) (*models.Appointment, error) {
	appointment, err := s.GetBooking(ctx, hexID)
	if err != nil {
		return nil, err
	}

	var (
		requested []*models.Service
		problems  []string
	)
	for _, raw := range serviceHexIDs {
		serviceID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("Service not found: %s", raw))
			continue
		}
		service, err := s.catalog.FindByID(ctx, serviceID)
		if errors.Is(err, repository.ErrNotFound) {
			problems = append(problems, fmt.Sprintf("Service not found: %s", raw))
			continue
		}
		if err != nil {
			return nil, internal("Error adding services")
		}
		if !service.IsAvailable {
			problems = append(problems, fmt.Sprintf("Service not available: %s", service.Name))
			continue
		}
		requested = append(requested, service)
	}
	if len(problems) > 0 {
		return nil, badRequest(strings.Join(problems, "\n"))
	}

	for _, service := range requested {
		line := &models.AppointmentService{Service: service.ID, Price: service.Price}
		if err := s.lines.Create(ctx, line); err != nil {
			return nil, internal("Error adding services")
		}
		appointment.AppointmentServices = append(appointment.AppointmentServices, line.ID)
		appointment.TotalPrice += service.Price
	}

	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, internal("Error adding services")
	}
	return appointment, nil
}

// RemoveService drops one materialized service line and subtracts its
// snapshotted price from totalPrice.
func (s *BookingService) RemoveService(ctx context.Context, hexID, lineHexID string) (*models.Appointment, error) {
	appointment, err := s.GetBooking(ctx, hexID)
	if err != nil {
		return nil, err
	}
	lineID, err := primitive.ObjectIDFromHex(lineHexID)
	if err != nil {
		return nil, notFound("Service not found on appointment")
	}

	kept := appointment.AppointmentServices[:0]
	found := false
	for _, id := range appointment.AppointmentServices {
		if id == lineID {
			found = true
			continue
		}
		kept = append(kept, id)
	}
	if !found {
		return nil, notFound("Service not found on appointment")
	}
	appointment.AppointmentServices = kept

	if lines, err := s.lines.FindByIDs(ctx, []primitive.ObjectID{lineID}); err == nil && len(lines) == 1 {
		appointment.TotalPrice -= lines[0].Price
	}

	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, internal("Error removing service")
	}
	return appointment, nil
}

// UploadMechanicProof replaces the mechanic's completion proof image.
func (s *BookingService) UploadMechanicProof(ctx context.Context, hexID, payload string) (*models.Appointment, error) {
	return s.uploadProof(ctx, hexID, payload, true)
}

// UploadCustomerProof replaces the customer's hand-over proof image.
func (s *BookingService) UploadCustomerProof(ctx context.Context, hexID, payload string) (*models.Appointment, error) {
	return s.uploadProof(ctx, hexID, payload, false)
}

func (s *BookingService) uploadProof(ctx context.Context, hexID, payload string, mechanic bool) (*models.Appointment, error) {
	appointment, err := s.GetBooking(ctx, hexID)
	if err != nil {
		return nil, err
	}

	prior := appointment.CustomerProof
	folder := "proofs/customer"
	if mechanic {
		prior = appointment.MechanicProof
		folder = "proofs/mechanic"
	}
	if prior != nil {
		if err := s.storage.Delete(ctx, prior.PublicID); err != nil {
			zap.L().Warn("Failed to delete prior proof", zap.Error(err), zap.String("public_id", prior.PublicID))
		}
	}

	image, err := s.storage.Upload(ctx, payload, folder)
	if err != nil {
		return nil, badRequest("Invalid proof image")
	}
	if mechanic {
		appointment.MechanicProof = &image
	} else {
		appointment.CustomerProof = &image
	}

	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, internal("Error uploading proof")
	}
	return appointment, nil
}

// MyBookings lists the user's appointments, newest first.
func (s *BookingService) MyBookings(ctx context.Context, userID primitive.ObjectID) ([]models.Appointment, error) {
	list, err := s.appointments.FindByUser(ctx, userID)
	if err != nil {
		return nil, internal("Error loading appointments")
	}
	return list, nil
}

// AllBookings lists every appointment with the grand total of service
// charges across them.
func (s *BookingService) AllBookings(ctx context.Context) ([]models.Appointment, float64, error) {
	list, err := s.appointments.FindAll(ctx)
	if err != nil {
		return nil, 0, internal("Error loading appointments")
	}
	var total float64
	for _, appointment := range list {
		total += appointment.TotalPrice
	}
	return list, total, nil
}

// MechanicTasks lists the appointments assigned to a mechanic together
// with their count.
func (s *BookingService) MechanicTasks(ctx context.Context, mechanicID primitive.ObjectID) ([]models.Appointment, int, error) {
	list, err := s.appointments.FindByMechanic(ctx, mechanicID)
	if err != nil {
		return nil, 0, internal("Error loading tasks")
	}
	return list, len(list), nil
}

// DeleteBooking removes an appointment record.
func (s *BookingService) DeleteBooking(ctx context.Context, hexID string) error {
	appointment, err := s.GetBooking(ctx, hexID)
	if err != nil {
		return err
	}
	if err := s.appointments.Delete(ctx, appointment.ID); err != nil {
		return internal("Error deleting appointment")
	}
	return nil
}

// SubmitFeedback upserts the appointment's mechanic review. One
// feedback record exists per appointment; resubmitting updates it.
func (s *BookingService) SubmitFeedback(ctx context.Context, hexID string, customer *models.User, rating float64, comment string) (*models.Feedback, error) {
	appointment, err := s.GetBooking(ctx, hexID)
	if err != nil {
		return nil, err
	}
	if appointment.Mechanic == nil {
		return nil, badRequest("No mechanic assigned to this appointment")
	}

	existing, err := s.feedbacks.FindByAppointment(ctx, appointment.ID)
	if err == nil {
		existing.Rating = rating
		existing.Comment = comment
		existing.Name = customer.FullName()
		if err := s.feedbacks.Update(ctx, existing); err != nil {
			return nil, internal("Error submitting feedback")
		}
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, internal("Error submitting feedback")
	}

	feedback := &models.Feedback{
		Appointment: appointment.ID,
		Mechanic:    *appointment.Mechanic,
		Customer:    customer.ID,
		Name:        customer.FullName(),
		Rating:      rating,
		Comment:     comment,
	}
	if err := s.feedbacks.Create(ctx, feedback); err != nil {
		return nil, internal("Error submitting feedback")
	}
	return feedback, nil
}

// ListFeedback returns every mechanic review for the admin listing.
func (s *BookingService) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	list, err := s.feedbacks.FindAll(ctx)
	if err != nil {
		return nil, internal("Error loading feedback")
	}
	return list, nil
}

func (s *BookingService) brandName(ctx context.Context, id primitive.ObjectID) string {
	brand, err := s.brands.FindByID(ctx, id)
	if err != nil {
		return ""
	}
	return brand.Name
}
