package domain

import "time"

type Profile struct {
	UserID      string    `bson:"_id" json:"user_id"`
	DisplayName string    `bson:"display_name,omitempty" json:"display_name,omitempty"`
	Email       string    `bson:"email,omitempty" json:"email,omitempty"`
	Phone       string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Address     string    `bson:"address,omitempty" json:"address,omitempty"`
	City        string    `bson:"city,omitempty" json:"city,omitempty"`
	State       string    `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode     string    `bson:"zip_code,omitempty" json:"zip_code,omitempty"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// ProfileUpdate carries only the fields the caller wants to change.
// Nil fields are left untouched by the store (merge write).
type ProfileUpdate struct {
	DisplayName *string `json:"display_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
	ZipCode     *string `json:"zip_code,omitempty"`
}
