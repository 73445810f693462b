package model

import (
	"time"

	"github.com/google/uuid"
)

// AddressType partitions the address book. A "both" address overlaps the
// other two types for default-exclusivity purposes.
type AddressType string

const (
	AddressShipping AddressType = "shipping"
	AddressBilling  AddressType = "billing"
	AddressBoth     AddressType = "both"
)

// Valid reports whether t is a known address type.
func (t AddressType) Valid() bool {
	return t == AddressShipping || t == AddressBilling || t == AddressBoth
}

// Overlaps reports whether two address types compete for the same default
// slot. At most one default may exist per overlapping type.
func (t AddressType) Overlaps(other AddressType) bool {
	return t == other || t == AddressBoth || other == AddressBoth
}

// Address is a stored address-book entry.
type Address struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	UserID       string      `json:"userId" db:"user_id"`
	Name         string      `json:"name" db:"name"`
	AddressLine1 string      `json:"addressLine1" db:"address_line1"`
	AddressLine2 string      `json:"addressLine2,omitempty" db:"address_line2"`
	City         string      `json:"city" db:"city"`
	State        string      `json:"state" db:"state"`
	PostalCode   string      `json:"postalCode" db:"postal_code"`
	Country      string      `json:"country" db:"country"`
	Phone        string      `json:"phone" db:"phone"`
	Type         AddressType `json:"type" db:"type"`
	IsDefault    bool        `json:"isDefault" db:"is_default"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"`
}

// Snapshot converts a stored address into the immutable form frozen onto
// orders.
func (a *Address) Snapshot() AddressSnapshot {
	return AddressSnapshot{
		Name:       a.Name,
		Address:    a.AddressLine1,
		Address2:   a.AddressLine2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}

// CreateAddressRequest is the address-book creation payload.
type CreateAddressRequest struct {
	Name         string      `json:"name"`
	AddressLine1 string      `json:"addressLine1"`
	AddressLine2 string      `json:"addressLine2,omitempty"`
	City         string      `json:"city"`
	State        string      `json:"state"`
	PostalCode   string      `json:"postalCode"`
	Country      string      `json:"country"`
	Phone        string      `json:"phone"`
	Type         AddressType `json:"type"`
	IsDefault    bool        `json:"isDefault"`
}

// Validate checks required fields, returning a field-tagged validation
// error for the first missing one.
func (r *CreateAddressRequest) Validate() error {
	switch {
	case r.Name == "":
		return NewValidationError("name", "Name is required")
	case r.AddressLine1 == "":
		return NewValidationError("addressLine1", "Address line 1 is required")
	case r.City == "":
		return NewValidationError("city", "City is required")
	case r.State == "":
		return NewValidationError("state", "State is required")
	case r.PostalCode == "":
		return NewValidationError("postalCode", "Postal code is required")
	case r.Country == "":
		return NewValidationError("country", "Country is required")
	case r.Phone == "":
		return NewValidationError("phone", "Phone is required")
	case !r.Type.Valid():
		return NewValidationError("type", "Address type must be shipping, billing or both")
	}
	return nil
}
