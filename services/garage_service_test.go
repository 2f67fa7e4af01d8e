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

type garageFixture struct {
	addresses     *mockAddressRepo
	motorcycles   *mockMotorcycleRepo
	fuels         *mockFuelRepo
	users         *mockUserRepo
	notifications *mockNotificationRepo
	storage       *mockStorage
	sender        *mockEmailSender
	svc           *services.GarageService
}

func newGarageFixture() *garageFixture {
	f := &garageFixture{
		addresses:     newMockAddressRepo(),
		motorcycles:   newMockMotorcycleRepo(),
		fuels:         newMockFuelRepo(),
		users:         newMockUserRepo(),
		notifications: newMockNotificationRepo(),
		storage:       &mockStorage{},
		sender:        &mockEmailSender{},
	}
	mailer := services.NewMailer(f.sender, "https://teampoor.test")
	f.svc = services.NewGarageService(
		f.addresses, f.motorcycles, f.fuels, f.users, f.notifications,
		f.storage, mailer,
	)
	return f
}

func (f *garageFixture) seedOwner() *models.User {
	user := &models.User{
		Firstname: "Paolo",
		Lastname:  "Reyes",
		Email:     "paolo@example.com",
		Role:      models.RoleUser,
	}
	_ = f.users.Create(context.Background(), user)
	return user
}

func (f *garageFixture) seedMotorcycle(owner *models.User, brand, plate string) *models.Motorcycle {
	motorcycle, err := f.svc.RegisterMotorcycle(context.Background(), owner.ID.Hex(), services.MotorcycleInput{
		Year:             "2021",
		Brand:            brand,
		PlateNumber:      plate,
		EngineNumber:     "ENG-" + plate,
		Type:             "Underbone",
		Fuel:             "Gasoline",
		ImageMotorcycle:  "data:image/png;base64,unit",
		ImagePlateNumber: "data:image/png;base64,orcr",
	})
	if err != nil {
		panic(err)
	}
	return motorcycle
}

func (f *garageFixture) addressInput(street string) services.AddressInput {
	return services.AddressInput{
		Address:    street,
		Region:     "NCR",
		Province:   "Metro Manila",
		City:       "Taguig",
		Barangay:   "Ususan",
		PostalCode: "1630",
	}
}

func TestAddAddress_BelongsToCaller(t *testing.T) {
	f := newGarageFixture()
	owner := f.seedOwner()

	address, err := f.svc.AddAddress(context.Background(), owner.ID.Hex(), f.addressInput("123 Rizal St"))

	assert.Nil(t, err)
	assert.Equal(t, owner.ID, address.User)
	assert.False(t, address.IsDefault)

	list, err := f.svc.MyAddresses(context.Background(), owner.ID.Hex())
	assert.Nil(t, err)
	assert.Len(t, list, 1)
}

func TestSetDefaultAddress_UnsetsPriorDefault(t *testing.T) {
	f := newGarageFixture()
	owner := f.seedOwner()
	first, _ := f.svc.AddAddress(context.Background(), owner.ID.Hex(), f.addressInput("123 Rizal St"))
	second, _ := f.svc.AddAddress(context.Background(), owner.ID.Hex(), f.addressInput("45 Bonifacio Ave"))

	_, err := f.svc.SetDefaultAddress(context.Background(), owner.ID.Hex(), first.ID.Hex())
	assert.Nil(t, err)
	updated, err := f.svc.SetDefaultAddress(context.Background(), owner.ID.Hex(), second.ID.Hex())
	assert.Nil(t, err)
	assert.True(t, updated.IsDefault)

	// Exactly one default survives the flip.
	list, _ := f.svc.MyAddresses(context.Background(), owner.ID.Hex())
	defaults := 0
	for _, address := range list {
		if address.IsDefault {
			defaults++
			assert.Equal(t, second.ID, address.ID)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestUpdateAddress_RejectsNonOwner(t *testing.T) {
	f := newGarageFixture()
	owner := f.seedOwner()
	address, _ := f.svc.AddAddress(context.Background(), owner.ID.Hex(), f.addressInput("123 Rizal St"))

	stranger := &models.User{Firstname: "Liza", Role: models.RoleUser}
	_ = f.users.Create(context.Background(), stranger)

	_, err := f.svc.UpdateAddress(context.Background(), stranger.ID.Hex(), address.ID.Hex(), f.addressInput("Hijacked"))

	var svcErr *services.ServiceError
	if assert.ErrorAs(t, err, &svcErr) {
		assert.Equal(t, 403, svcErr.StatusCode)
		assert.Equal(t, "Unauthorized Access", svcErr.Message)
	}
}

func TestDeleteAddress_RemovesOwnedEntry(t *testing.T) {
	f := newGarageFixture()
	owner := f.seedOwner()
	address, _ := f.svc.AddAddress(context.Background(), owner.ID.Hex(), f.addressInput("123 Rizal St"))

	assert.Nil(t, f.svc.DeleteAddress(context.Background(), owner.ID.Hex(), address.ID.Hex()))

	list, _ := f.svc.MyAddresses(context.Background(), owner.ID.Hex())
	assert.Empty(t, list)
}

func TestRegisterMotorcycle_UploadsBothImages(t *testing.T) {
	f := newGarageFixture()
	owner := f.seedOwner()

	motorcycle := f.seedMotorcycle(owner, "Honda", "ABC-1234")

	assert.Equal(t, owner.ID, motorcycle.Owner)
	if assert.NotNil(t, motorcycle.ImageMotorcycle) {
		assert.Contains(t, motorcycle.ImageMotorcycle.PublicID, "motorcycles/")
	}
	if assert.NotNil(t, motorcycle.ImagePlateNumber) {
		assert.Contains(t, motorcycle.ImagePlateNumber.PublicID, "orcr/")
	}
}

func TestRegisterMotorcycle_DuplicatePlate(t *testing.T) {
	f := newGarageFixture()
	owner := f.seedOwner()
	f.seedMotorcycle(owner, "Honda", "ABC-1234")

	_, err := f.svc.RegisterMotorcycle(context.Background(), owner.ID.Hex(), services.MotorcycleInput{
		Year:         "2022",
		Brand:        "Yamaha",
		PlateNumber:  "ABC-1234",
		EngineNumber: "ENG-OTHER",
		Type:         "Scooter",
		Fuel:         "Gasoline",
	})

	var svcErr *services.ServiceError
	if assert.ErrorAs(t, err, &svcErr) {
		assert.Equal(t, 400, svcErr.StatusCode)
		assert.Equal(t, "Plate number already exists!", svcErr.Message)
	}
}

func TestRegisterMotorcycle_DuplicateEngine(t *testing.T) {
	f := newGarageFixture()
	owner := f.seedOwner()
	f.seedMotorcycle(owner, "Honda", "ABC-1234")

	_, err := f.svc.RegisterMotorcycle(context.Background(), owner.ID.Hex(), services.MotorcycleInput{
		Year:         "2022",
		Brand:        "Yamaha",
		PlateNumber:  "XYZ-5678",
		EngineNumber: "ENG-ABC-1234",
		Type:         "Scooter",
		Fuel:         "Gasoline",
	})

	var svcErr *services.ServiceError
	if assert.ErrorAs(t, err, &svcErr) {
		assert.Equal(t, 400, svcErr.StatusCode)
		assert.Equal(t, "Engine number already exists!", svcErr.Message)
	}
}

func TestUpdateMotorcycle_RejectsNonOwner(t *testing.T) {
	f := newGarageFixture()
	owner := f.seedOwner()
	motorcycle := f.seedMotorcycle(owner, "Honda", "ABC-1234")

	stranger := &models.User{Firstname: "Liza", Role: models.RoleUser}
	_ = f.users.Create(context.Background(), stranger)

	_, err := f.svc.UpdateMotorcycle(context.Background(), stranger.ID.Hex(), motorcycle.ID.Hex(), services.MotorcycleInput{Brand: "Yamaha"})

	var svcErr *services.ServiceError
	if assert.ErrorAs(t, err, &svcErr) {
		assert.Equal(t, 403, svcErr.StatusCode)
		assert.Equal(t, "Unauthorized Access", svcErr.Message)
	}
}

func TestDeleteMotorcycle_CleansUpImages(t *testing.T) {
	f := newGarageFixture()
	owner := f.seedOwner()
	motorcycle := f.seedMotorcycle(owner, "Honda", "ABC-1234")
	unitImage := motorcycle.ImageMotorcycle.PublicID
	plateImage := motorcycle.ImagePlateNumber.PublicID

	assert.Nil(t, f.svc.DeleteMotorcycle(context.Background(), owner.ID.Hex(), motorcycle.ID.Hex()))

	assert.Contains(t, f.storage.deleted, unitImage)
	assert.Contains(t, f.storage.deleted, plateImage)
	list, _ := f.svc.MyMotorcycles(context.Background(), owner.ID.Hex())
	assert.Empty(t, list)
}

func TestLogFuel_RequiresOwnedMotorcycle(t *testing.T) {
	f := newGarageFixture()
	owner := f.seedOwner()
	motorcycle := f.seedMotorcycle(owner, "Honda", "ABC-1234")

	stranger := &models.User{Firstname: "Liza", Email: "liza@example.com", Role: models.RoleUser}
	_ = f.users.Create(context.Background(), stranger)

	input := services.FuelInput{
		Motorcycle:     motorcycle.ID.Hex(),
		Odometer:       530,
		Quantity:       4.5,
		Price:          65,
		FillingStation: "Petron Ususan",
	}
	_, err := f.svc.LogFuel(context.Background(), stranger.ID.Hex(), input)

	var svcErr *services.ServiceError
	if assert.ErrorAs(t, err, &svcErr) {
		assert.Equal(t, 404, svcErr.StatusCode)
		assert.Equal(t, "User does not have a motorcycle", svcErr.Message)
	}
}

func TestLogFuel_ComputesTotalCost(t *testing.T) {
	f := newGarageFixture()
	owner := f.seedOwner()
	motorcycle := f.seedMotorcycle(owner, "Honda", "ABC-1234")

	fuel, err := f.svc.LogFuel(context.Background(), owner.ID.Hex(), services.FuelInput{
		Motorcycle:     motorcycle.ID.Hex(),
		Odometer:       530,
		Quantity:       4.5,
		Price:          65,
		FillingStation: "Petron Ususan",
		Date:           time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	})

	assert.Nil(t, err)
	assert.Equal(t, 292.5, fuel.TotalCost)
	// A reading off the maintenance interval stays quiet.
	unread, _ := f.notifications.FindUnreadByUser(context.Background(), owner.ID)
	assert.Empty(t, unread)
	assert.Equal(t, 0, f.sender.count())
}

func TestLogFuel_PMSReminderOnInterval(t *testing.T) {
	f := newGarageFixture()
	owner := f.seedOwner()
	motorcycle := f.seedMotorcycle(owner, "Honda", "ABC-1234")

	_, err := f.svc.LogFuel(context.Background(), owner.ID.Hex(), services.FuelInput{
		Motorcycle:     motorcycle.ID.Hex(),
		Odometer:       3000,
		Quantity:       5,
		Price:          64,
		FillingStation: "Shell BGC",
	})

	assert.Nil(t, err)
	unread, _ := f.notifications.FindUnreadByUser(context.Background(), owner.ID)
	if assert.Len(t, unread, 1) {
		assert.Equal(t, "PMS Reminder", unread[0].Title)
		assert.Equal(t, "Time for PMS! Your motorcycle Honda (ABC-1234) hit 3000 km.", unread[0].Message)
	}
	assert.Equal(t, 1, f.sender.count())
}

func TestMotorcycleFuelLogs_FiltersByUnit(t *testing.T) {
	f := newGarageFixture()
	owner := f.seedOwner()
	first := f.seedMotorcycle(owner, "Honda", "ABC-1234")
	second := f.seedMotorcycle(owner, "Yamaha", "XYZ-5678")

	for _, motorcycle := range []primitive.ObjectID{first.ID, first.ID, second.ID} {
		_, err := f.svc.LogFuel(context.Background(), owner.ID.Hex(), services.FuelInput{
			Motorcycle:     motorcycle.Hex(),
			Odometer:       730,
			Quantity:       3,
			Price:          65,
			FillingStation: "Petron Ususan",
		})
		assert.Nil(t, err)
	}

	logs, err := f.svc.MotorcycleFuelLogs(context.Background(), owner.ID.Hex(), first.ID.Hex())
	assert.Nil(t, err)
	assert.Len(t, logs, 2)

	all, err := f.svc.MyFuelLogs(context.Background(), owner.ID.Hex())
	assert.Nil(t, err)
	assert.Len(t, all, 3)
}
