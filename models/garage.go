package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is a saved delivery address in a customer's address book. At
// most one address per user carries the default flag.
type Address struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	User       primitive.ObjectID `json:"user" bson:"user"`
	Address    string             `json:"address" bson:"address"`
	Region     string             `json:"region" bson:"region"`
	Province   string             `json:"province" bson:"province"`
	City       string             `json:"city" bson:"city"`
	Barangay   string             `json:"barangay" bson:"barangay"`
	PostalCode string             `json:"postalcode,omitempty" bson:"postalcode,omitempty"`
	IsDefault  bool               `json:"isDefault" bson:"isDefault"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
}

// Motorcycle is a customer-registered unit. Plate and engine numbers
// are unique across the registry; both images are required at
// registration (the unit itself and its OR/CR plate document).
type Motorcycle struct {
	ID               primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Owner            primitive.ObjectID `json:"owner" bson:"owner"`
	Year             string             `json:"year" bson:"year"`
	Brand            string             `json:"brand" bson:"brand"`
	PlateNumber      string             `json:"plateNumber" bson:"plateNumber"`
	EngineNumber     string             `json:"engineNumber" bson:"engineNumber"`
	Type             string             `json:"type" bson:"type"`
	Fuel             string             `json:"fuel" bson:"fuel"`
	ImageMotorcycle  *Image             `json:"imageMotorcycle,omitempty" bson:"imageMotorcycle,omitempty"`
	ImagePlateNumber *Image             `json:"imagePlateNumber,omitempty" bson:"imagePlateNumber,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
}

// Fuel is one fill-up record for a registered motorcycle.
type Fuel struct {
	ID             primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	User           primitive.ObjectID `json:"user" bson:"user"`
	Motorcycle     primitive.ObjectID `json:"motorcycle" bson:"motorcycle"`
	Odometer       int                `json:"odometer" bson:"odometer"`
	Quantity       float64            `json:"quantity" bson:"quantity"`
	Price          float64            `json:"price" bson:"price"`
	TotalCost      float64            `json:"totalCost" bson:"totalCost"`
	FillingStation string             `json:"fillingStation" bson:"fillingStation"`
	Notes          string             `json:"notes,omitempty" bson:"notes,omitempty"`
	Date           time.Time          `json:"date" bson:"date"`
}

// PMSInterval is the odometer step, in kilometers, at which a
// preventive maintenance reminder fires.
const PMSInterval = 1000

// DuePMS reports whether a fill-up logged at the given odometer reading
// lands exactly on a maintenance interval.
func DuePMS(odometer int) bool {
	return odometer >= PMSInterval && odometer%PMSInterval == 0
}
