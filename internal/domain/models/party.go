package models

import "strings"

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

type Client struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	FullName       string `json:"full_name"`
	Sex            Sex    `json:"sex"`
	Nationality    string `json:"nationality"`
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	IDCardNumber   string `json:"id_card_number,omitempty"`
	PassportNumber string `json:"passport_number,omitempty"`
	BankAccount    string `json:"bank_account,omitempty"`
}

// ComposeFullName joins first and last names, falling back to whichever is set.
func ComposeFullName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

type DestinationKind string

const (
	DestinationCultural  DestinationKind = "cultural"
	DestinationReligious DestinationKind = "religious"
	DestinationTouristic DestinationKind = "touristic"
)

type Destination struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	Kind    DestinationKind `json:"kind"`
	City    string          `json:"city"`
	Country string          `json:"country"`
	Address string          `json:"address"`
}

type SupplierKind string

const (
	SupplierTransport  SupplierKind = "transport"
	SupplierHotel      SupplierKind = "hotel"
	SupplierRestaurant SupplierKind = "restaurant"
	SupplierGuide      SupplierKind = "guide"
	SupplierEquipment  SupplierKind = "equipment"
	SupplierOther      SupplierKind = "other"
)

func (k SupplierKind) Valid() bool {
	switch k {
	case SupplierTransport, SupplierHotel, SupplierRestaurant, SupplierGuide, SupplierEquipment, SupplierOther:
		return true
	}
	return false
}

type Supplier struct {
	ID      int64        `json:"id"`
	Name    string       `json:"name"`
	Kind    SupplierKind `json:"kind"`
	Contact string       `json:"contact,omitempty"`
	Phone   string       `json:"phone,omitempty"`
	Email   string       `json:"email,omitempty"`
}

type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}
