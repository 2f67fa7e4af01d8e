package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Image is a stored object reference: a stable identifier plus the
// public retrieval URL.
type Image struct {
	PublicID string `json:"public_id" bson:"public_id"`
	URL      string `json:"url" bson:"url"`
}

type User struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Firstname string             `json:"firstname" bson:"firstname"`
	Lastname  string             `json:"lastname" bson:"lastname"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	Gender    string             `json:"gender,omitempty" bson:"gender,omitempty"`
	Birthday  *time.Time         `json:"birthday,omitempty" bson:"birthday,omitempty"`
	Phone     string             `json:"phone" bson:"phone"`
	Avatar    *Image             `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Role      Role               `json:"role" bson:"role"`
	Verified  bool               `json:"verified" bson:"verified"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`

	// Address fields kept on the profile for order prefill.
	Region     string `json:"region,omitempty" bson:"region,omitempty"`
	Province   string `json:"province,omitempty" bson:"province,omitempty"`
	City       string `json:"city,omitempty" bson:"city,omitempty"`
	Barangay   string `json:"barangay,omitempty" bson:"barangay,omitempty"`
	PostalCode string `json:"postalcode,omitempty" bson:"postalcode,omitempty"`
	Address    string `json:"address,omitempty" bson:"address,omitempty"`

	ResetPasswordToken  string     `json:"-" bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpire *time.Time `json:"-" bson:"resetPasswordExpire,omitempty"`
}

// FullName returns "firstname lastname" for review and feedback snapshots.
func (u *User) FullName() string {
	return u.Firstname + " " + u.Lastname
}

// ActorLabel is the "<firstname> - <role>" attribution written into
// stock log entries.
func (u *User) ActorLabel() string {
	return u.Firstname + " - " + u.Role.String()
}
