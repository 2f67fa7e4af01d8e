package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AppointmentService is one booked service line, materialized as its
// own document and referenced from the appointment.
type AppointmentService struct {
	ID      primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Service primitive.ObjectID `json:"service" bson:"service"`
	// Price is snapshotted from the catalog when the line is added, so
	// later catalog edits do not shift the appointment total.
	Price float64       `json:"price" bson:"price"`
	Notes []ServiceNote `json:"note" bson:"note"`
}

type ServiceNote struct {
	Remark string `json:"remark" bson:"remark"`
}

// Part is a product line added to an appointment after booking, with
// the price snapshotted at the time it was added.
type Part struct {
	ProductID   primitive.ObjectID `json:"productId" bson:"productId"`
	ProductName string             `json:"productName" bson:"productName"`
	BrandName   string             `json:"brandName" bson:"brandName"`
	Quantity    int                `json:"quantity" bson:"quantity"`
	Price       float64            `json:"price" bson:"price"`
}

// BackJob holds a warranty-redo request comment.
type BackJob struct {
	Comment   string    `json:"comment" bson:"comment"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

type Appointment struct {
	ID                  primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	User                primitive.ObjectID   `json:"user" bson:"user"`
	Mechanic            *primitive.ObjectID  `json:"mechanic,omitempty" bson:"mechanic,omitempty"`
	AppointmentServices []primitive.ObjectID `json:"appointmentServices" bson:"appointmentServices"`

	Fullname   string `json:"fullname" bson:"fullname"`
	Phone      string `json:"phone" bson:"phone"`
	Region     string `json:"region" bson:"region"`
	Province   string `json:"province" bson:"province"`
	City       string `json:"city" bson:"city"`
	Barangay   string `json:"barangay" bson:"barangay"`
	PostalCode string `json:"postalcode" bson:"postalcode"`
	Address    string `json:"address" bson:"address"`

	// Motorcycle descriptors.
	Fuel         string `json:"fuel" bson:"fuel"`
	Brand        string `json:"brand" bson:"brand"`
	Year         string `json:"year" bson:"year"`
	PlateNumber  string `json:"plateNumber" bson:"plateNumber"`
	EngineNumber string `json:"engineNumber" bson:"engineNumber"`
	Type         string `json:"type" bson:"type"`
	ServiceType  string `json:"serviceType" bson:"serviceType"`

	AppointmentStatus []StatusEntry       `json:"appointmentStatus" bson:"appointmentStatus"`
	BackJob           *BackJob            `json:"backJob,omitempty" bson:"backJob,omitempty"`
	TotalPrice        float64             `json:"totalPrice" bson:"totalPrice"`
	EmployeeUser      *primitive.ObjectID `json:"employeeUser,omitempty" bson:"employeeUser,omitempty"`
	AppointmentDate   time.Time           `json:"appointmentDate" bson:"appointmentDate"`
	TimeSlot          string              `json:"timeSlot" bson:"timeSlot"`
	Parts             []Part              `json:"parts" bson:"parts"`
	TotalPartPrice    float64             `json:"totalPartPrice" bson:"totalPartPrice"`
	MechanicProof     *Image              `json:"mechanicProof,omitempty" bson:"mechanicProof,omitempty"`
	CustomerProof     *Image              `json:"customerProof,omitempty" bson:"customerProof,omitempty"`
	CreatedAt         time.Time           `json:"createdAt" bson:"createdAt"`
}

// CurrentStatus returns the label of the last history entry, or "" for
// an empty history. Back-job labels share the history, so callers must
// inspect the label, not the position.
func (a *Appointment) CurrentStatus() string {
	if len(a.AppointmentStatus) == 0 {
		return ""
	}
	return a.AppointmentStatus[len(a.AppointmentStatus)-1].Status
}

// Feedback is one mechanic review per appointment; resubmitting updates
// the existing record.
type Feedback struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Appointment primitive.ObjectID `json:"appointment" bson:"appointment"`
	Mechanic    primitive.ObjectID `json:"mechanic" bson:"mechanic"`
	Customer    primitive.ObjectID `json:"customer" bson:"customer"`
	Name        string             `json:"name" bson:"name"`
	Rating      float64            `json:"rating" bson:"rating"`
	Comment     string             `json:"comment" bson:"comment"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}
