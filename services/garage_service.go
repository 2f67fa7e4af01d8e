package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/XdebronneX/backend-TeamPOOR/models"
	"github.com/XdebronneX/backend-TeamPOOR/repository"
)

// GarageService manages a customer's address book, registered
// motorcycles, and fuel logs.
type GarageService struct {
	addresses     repository.AddressRepository
	motorcycles   repository.MotorcycleRepository
	fuels         repository.FuelRepository
	users         repository.UserRepository
	notifications repository.NotificationRepository
	storage       ImageStorage
	mailer        *Mailer
}

func NewGarageService(
	addresses repository.AddressRepository,
	motorcycles repository.MotorcycleRepository,
	fuels repository.FuelRepository,
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	storage ImageStorage,
	mailer *Mailer,
) *GarageService {
	return &GarageService{
		addresses:     addresses,
		motorcycles:   motorcycles,
		fuels:         fuels,
		users:         users,
		notifications: notifications,
		storage:       storage,
		mailer:        mailer,
	}
}

// AddressInput carries the address book form.
type AddressInput struct {
	Address    string `json:"address" binding:"required"`
	Region     string `json:"region" binding:"required"`
	Province   string `json:"province" binding:"required"`
	City       string `json:"city" binding:"required"`
	Barangay   string `json:"barangay" binding:"required"`
	PostalCode string `json:"postalcode"`
}

func (s *GarageService) AddAddress(ctx context.Context, userHex string, input AddressInput) (*models.Address, error) {
	userID, err := primitive.ObjectIDFromHex(userHex)
	if err != nil {
		return nil, notFound("User not found")
	}
	address := &models.Address{
		User:       userID,
		Address:    input.Address,
		Region:     input.Region,
		Province:   input.Province,
		City:       input.City,
		Barangay:   input.Barangay,
		PostalCode: input.PostalCode,
	}
	if err := s.addresses.Create(ctx, address); err != nil {
		return nil, internal("Failed to create a new address")
	}
	return address, nil
}

func (s *GarageService) MyAddresses(ctx context.Context, userHex string) ([]models.Address, error) {
	userID, err := primitive.ObjectIDFromHex(userHex)
	if err != nil {
		return nil, notFound("User not found")
	}
	list, err := s.addresses.FindByUser(ctx, userID)
	if err != nil {
		return nil, internal("Failed to list addresses")
	}
	return list, nil
}

// ownedAddress loads an address and rejects callers who do not own it.
func (s *GarageService) ownedAddress(ctx context.Context, userHex, hexID string) (*models.Address, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, notFound("Address not found")
	}
	address, err := s.addresses.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Address not found")
	}
	if err != nil {
		return nil, internal("Failed to load address")
	}
	if address.User.Hex() != userHex {
		return nil, NewServiceError(http.StatusForbidden, "Unauthorized Access")
	}
	return address, nil
}

func (s *GarageService) GetAddress(ctx context.Context, userHex, hexID string) (*models.Address, error) {
	return s.ownedAddress(ctx, userHex, hexID)
}

func (s *GarageService) UpdateAddress(ctx context.Context, userHex, hexID string, input AddressInput) (*models.Address, error) {
	address, err := s.ownedAddress(ctx, userHex, hexID)
	if err != nil {
		return nil, err
	}
	address.Address = input.Address
	address.Region = input.Region
	address.Province = input.Province
	address.City = input.City
	address.Barangay = input.Barangay
	address.PostalCode = input.PostalCode
	if err := s.addresses.Update(ctx, address); err != nil {
		return nil, internal("Failed to update address")
	}
	return address, nil
}

// SetDefaultAddress flips the default flag to the chosen address. Every
// other address of the user is unset first so at most one default
// survives.
func (s *GarageService) SetDefaultAddress(ctx context.Context, userHex, hexID string) (*models.Address, error) {
	address, err := s.ownedAddress(ctx, userHex, hexID)
	if err != nil {
		return nil, err
	}
	if err := s.addresses.UnsetDefaultForUser(ctx, address.User); err != nil {
		return nil, internal("Failed to update default address")
	}
	address.IsDefault = true
	if err := s.addresses.Update(ctx, address); err != nil {
		return nil, internal("Failed to update default address")
	}
	return address, nil
}

func (s *GarageService) DeleteAddress(ctx context.Context, userHex, hexID string) error {
	address, err := s.ownedAddress(ctx, userHex, hexID)
	if err != nil {
		return err
	}
	if err := s.addresses.Delete(ctx, address.ID); err != nil {
		return internal("Failed to delete address")
	}
	return nil
}

// MotorcycleInput carries the registration form. Both images arrive as
// base64 data URIs: the unit photo and the OR/CR plate document.
type MotorcycleInput struct {
	Year             string `json:"year" binding:"required"`
	Brand            string `json:"brand" binding:"required"`
	PlateNumber      string `json:"plateNumber" binding:"required"`
	EngineNumber     string `json:"engineNumber" binding:"required"`
	Type             string `json:"type" binding:"required"`
	Fuel             string `json:"fuel" binding:"required"`
	ImageMotorcycle  string `json:"imageMotorcycle"`
	ImagePlateNumber string `json:"imagePlateNumber"`
}

func (s *GarageService) RegisterMotorcycle(ctx context.Context, ownerHex string, input MotorcycleInput) (*models.Motorcycle, error) {
	ownerID, err := primitive.ObjectIDFromHex(ownerHex)
	if err != nil {
		return nil, notFound("User not found")
	}

	if _, err := s.motorcycles.FindByPlate(ctx, input.PlateNumber); err == nil {
		return nil, badRequest("Plate number already exists!")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, internal("Failed to create a new motorcycle")
	}
	if _, err := s.motorcycles.FindByEngine(ctx, input.EngineNumber); err == nil {
		return nil, badRequest("Engine number already exists!")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, internal("Failed to create a new motorcycle")
	}

	motorcycle := &models.Motorcycle{
		Owner:        ownerID,
		Year:         input.Year,
		Brand:        input.Brand,
		PlateNumber:  input.PlateNumber,
		EngineNumber: input.EngineNumber,
		Type:         input.Type,
		Fuel:         input.Fuel,
	}
	if input.ImageMotorcycle != "" {
		image, err := s.storage.Upload(ctx, input.ImageMotorcycle, "motorcycles")
		if err != nil {
			return nil, internal("Image of motorcycle upload failed!")
		}
		motorcycle.ImageMotorcycle = &image
	}
	if input.ImagePlateNumber != "" {
		image, err := s.storage.Upload(ctx, input.ImagePlateNumber, "orcr")
		if err != nil {
			return nil, internal("Image of plate number upload failed!")
		}
		motorcycle.ImagePlateNumber = &image
	}

	if err := s.motorcycles.Create(ctx, motorcycle); err != nil {
		return nil, internal("Failed to create a new motorcycle")
	}
	return motorcycle, nil
}

func (s *GarageService) MyMotorcycles(ctx context.Context, ownerHex string) ([]models.Motorcycle, error) {
	ownerID, err := primitive.ObjectIDFromHex(ownerHex)
	if err != nil {
		return nil, notFound("User not found")
	}
	list, err := s.motorcycles.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, internal("Failed to list motorcycles")
	}
	return list, nil
}

// ownedMotorcycle loads a motorcycle and rejects callers who do not
// own it.
func (s *GarageService) ownedMotorcycle(ctx context.Context, ownerHex, hexID string) (*models.Motorcycle, error) {
	motorcycle, err := s.GetMotorcycle(ctx, hexID)
	if err != nil {
		return nil, err
	}
	if motorcycle.Owner.Hex() != ownerHex {
		return nil, NewServiceError(http.StatusForbidden, "Unauthorized Access")
	}
	return motorcycle, nil
}

// GetOwnedMotorcycle loads one motorcycle for its owner.
func (s *GarageService) GetOwnedMotorcycle(ctx context.Context, ownerHex, hexID string) (*models.Motorcycle, error) {
	return s.ownedMotorcycle(ctx, ownerHex, hexID)
}

// GetMotorcycle loads one motorcycle with no ownership check; the admin
// registry detail uses it directly.
func (s *GarageService) GetMotorcycle(ctx context.Context, hexID string) (*models.Motorcycle, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, notFound("Motorcycle not found")
	}
	motorcycle, err := s.motorcycles.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("Motorcycle not found")
	}
	if err != nil {
		return nil, internal("Failed to load motorcycle")
	}
	return motorcycle, nil
}

func (s *GarageService) UpdateMotorcycle(ctx context.Context, ownerHex, hexID string, input MotorcycleInput) (*models.Motorcycle, error) {
	motorcycle, err := s.ownedMotorcycle(ctx, ownerHex, hexID)
	if err != nil {
		return nil, err
	}

	if input.PlateNumber != "" && input.PlateNumber != motorcycle.PlateNumber {
		if _, err := s.motorcycles.FindByPlate(ctx, input.PlateNumber); err == nil {
			return nil, badRequest("Plate number already exists!")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, internal("Failed to update motorcycle")
		}
		motorcycle.PlateNumber = input.PlateNumber
	}
	if input.Year != "" {
		motorcycle.Year = input.Year
	}
	if input.Brand != "" {
		motorcycle.Brand = input.Brand
	}
	if input.Type != "" {
		motorcycle.Type = input.Type
	}
	if input.Fuel != "" {
		motorcycle.Fuel = input.Fuel
	}
	if input.ImageMotorcycle != "" {
		if motorcycle.ImageMotorcycle != nil {
			if err := s.storage.Delete(ctx, motorcycle.ImageMotorcycle.PublicID); err != nil {
				zap.L().Warn("Failed to delete motorcycle image", zap.Error(err), zap.String("public_id", motorcycle.ImageMotorcycle.PublicID))
			}
		}
		image, err := s.storage.Upload(ctx, input.ImageMotorcycle, "motorcycles")
		if err != nil {
			return nil, internal("Image of motorcycle upload failed!")
		}
		motorcycle.ImageMotorcycle = &image
	}

	if err := s.motorcycles.Update(ctx, motorcycle); err != nil {
		return nil, internal("Failed to update motorcycle")
	}
	return motorcycle, nil
}

func (s *GarageService) DeleteMotorcycle(ctx context.Context, ownerHex, hexID string) error {
	motorcycle, err := s.ownedMotorcycle(ctx, ownerHex, hexID)
	if err != nil {
		return err
	}
	for _, image := range []*models.Image{motorcycle.ImageMotorcycle, motorcycle.ImagePlateNumber} {
		if image == nil {
			continue
		}
		if err := s.storage.Delete(ctx, image.PublicID); err != nil {
			zap.L().Warn("Failed to delete motorcycle image", zap.Error(err), zap.String("public_id", image.PublicID))
		}
	}
	if err := s.motorcycles.Delete(ctx, motorcycle.ID); err != nil {
		return internal("Error deleting the motorcycle")
	}
	return nil
}

// ListMotorcycles returns the whole registry with its total for the
// admin board.
func (s *GarageService) ListMotorcycles(ctx context.Context) ([]models.Motorcycle, int64, error) {
	list, err := s.motorcycles.FindAll(ctx)
	if err != nil {
		return nil, 0, internal("Error fetching motorcycle data")
	}
	total, err := s.motorcycles.Count(ctx)
	if err != nil {
		return nil, 0, internal("Error fetching motorcycle data")
	}
	return list, total, nil
}

// FuelInput carries one fill-up record.
type FuelInput struct {
	Motorcycle     string    `json:"motorcycle" binding:"required"`
	Odometer       int       `json:"odometer" binding:"required,gte=0"`
	Quantity       float64   `json:"quantity" binding:"required,gt=0"`
	Price          float64   `json:"price" binding:"required,gt=0"`
	FillingStation string    `json:"fillingStation" binding:"required"`
	Notes          string    `json:"notes"`
	Date           time.Time `json:"date"`
}

// LogFuel records a fill-up against one of the user's motorcycles. A
// reading that lands exactly on a maintenance interval pushes a PMS
// reminder notification and an alert email.
func (s *GarageService) LogFuel(ctx context.Context, userHex string, input FuelInput) (*models.Fuel, error) {
	userID, err := primitive.ObjectIDFromHex(userHex)
	if err != nil {
		return nil, notFound("User not found")
	}
	motorcycleID, err := primitive.ObjectIDFromHex(input.Motorcycle)
	if err != nil {
		return nil, notFound("User does not have a motorcycle")
	}
	motorcycle, err := s.motorcycles.FindByID(ctx, motorcycleID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && motorcycle.Owner != userID) {
		return nil, notFound("User does not have a motorcycle")
	}
	if err != nil {
		return nil, internal("Failed to create a new fuel tracker")
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}
	fuel := &models.Fuel{
		User:           userID,
		Motorcycle:     motorcycle.ID,
		Odometer:       input.Odometer,
		Quantity:       input.Quantity,
		Price:          input.Price,
		TotalCost:      input.Quantity * input.Price,
		FillingStation: input.FillingStation,
		Notes:          input.Notes,
		Date:           date,
	}
	if err := s.fuels.Create(ctx, fuel); err != nil {
		return nil, internal("Failed to create a new fuel tracker")
	}

	if models.DuePMS(fuel.Odometer) {
		s.sendPMSReminder(ctx, userID, motorcycle, fuel)
	}
	return fuel, nil
}

// sendPMSReminder is best effort: a failed notification or email never
// fails the fill-up itself.
func (s *GarageService) sendPMSReminder(ctx context.Context, userID primitive.ObjectID, motorcycle *models.Motorcycle, fuel *models.Fuel) {
	notification := &models.Notification{
		User:    userID,
		Title:   "PMS Reminder",
		Message: fmt.Sprintf("Time for PMS! Your motorcycle %s (%s) hit %d km.", motorcycle.Brand, motorcycle.PlateNumber, fuel.Odometer),
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		zap.L().Warn("Failed to create PMS notification", zap.Error(err), zap.String("motorcycle_id", motorcycle.ID.Hex()))
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		zap.L().Warn("Failed to load user for PMS alert", zap.Error(err), zap.String("user_id", userID.Hex()))
		return
	}
	if err := s.mailer.SendPMSAlertEmail(ctx, user, motorcycle, fuel.Odometer, fuel.Date); err != nil {
		zap.L().Warn("Failed to send PMS alert email", zap.Error(err), zap.String("user_id", userID.Hex()))
	}
}

func (s *GarageService) MyFuelLogs(ctx context.Context, userHex string) ([]models.Fuel, error) {
	userID, err := primitive.ObjectIDFromHex(userHex)
	if err != nil {
		return nil, notFound("User not found")
	}
	list, err := s.fuels.FindByUser(ctx, userID)
	if err != nil {
		return nil, internal("Failed to list fuel logs")
	}
	return list, nil
}

// MotorcycleFuelLogs lists the fill-up history of one owned motorcycle.
func (s *GarageService) MotorcycleFuelLogs(ctx context.Context, userHex, hexID string) ([]models.Fuel, error) {
	motorcycle, err := s.ownedMotorcycle(ctx, userHex, hexID)
	if err != nil {
		return nil, err
	}
	list, err := s.fuels.FindByMotorcycle(ctx, motorcycle.ID)
	if err != nil {
		return nil, internal("Failed to list fuel logs")
	}
	return list, nil
}

// DeleteFuelLog removes one owned fill-up record.
func (s *GarageService) DeleteFuelLog(ctx context.Context, userHex, hexID string) error {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return notFound("Fuel not found")
	}
	fuel, err := s.fuels.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("Fuel not found")
	}
	if err != nil {
		return internal("Error deleting the fuel")
	}
	if fuel.User.Hex() != userHex {
		return NewServiceError(http.StatusForbidden, "Unauthorized Access")
	}
	if err := s.fuels.Delete(ctx, fuel.ID); err != nil {
		return internal("Error deleting the fuel")
	}
	return nil
}
