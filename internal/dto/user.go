package dto

import (
	"time"

	"github.com/hduce/eagle_bank_api/internal/core/domain"
)

// AddressDTO mirrors domain.Address for requests and responses.
type AddressDTO struct {
	Line1    string `json:"line1" binding:"required"`
	Line2    string `json:"line2"`
	Line3    string `json:"line3"`
	Town     string `json:"town" binding:"required"`
	County   string `json:"county"`
	Postcode string `json:"postcode" binding:"required"`
}

// CreateUserRequest defines the data needed to register a new user.
type CreateUserRequest struct {
	Name        string     `json:"name" binding:"required,max=100"`
	Email       string     `json:"email" binding:"required,email"`
	PhoneNumber string     `json:"phoneNumber" binding:"required,e164"`
	Address     AddressDTO `json:"address" binding:"required"`
	Password    string     `json:"password" binding:"required,min=8"`
}

// UpdateUserRequest defines the fields a user may change on their record.
type UpdateUserRequest struct {
	Name        *string     `json:"name" binding:"omitempty,max=100"`
	Email       *string     `json:"email" binding:"omitempty,email"`
	PhoneNumber *string     `json:"phoneNumber" binding:"omitempty,e164"`
	Address     *AddressDTO `json:"address"`
}

// UserResponse defines the data returned for a user. It never carries the
// password hash.
type UserResponse struct {
	UserID      string     `json:"userID"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phoneNumber"`
	Address     AddressDTO `json:"address"`
	CreatedAt   time.Time  `json:"createdTimestamp"`
	UpdatedAt   time.Time  `json:"updatedTimestamp"`
}

// ToUserResponse converts a domain.User to its response DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:      u.UserID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Address: AddressDTO{
			Line1:    u.Address.Line1,
			Line2:    u.Address.Line2,
			Line3:    u.Address.Line3,
			Town:     u.Address.Town,
			County:   u.Address.County,
			Postcode: u.Address.Postcode,
		},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToDomainAddress converts an AddressDTO to the domain value.
func (a AddressDTO) ToDomainAddress() domain.Address {
	return domain.Address{
		Line1:    a.Line1,
		Line2:    a.Line2,
		Line3:    a.Line3,
		Town:     a.Town,
		County:   a.County,
		Postcode: a.Postcode,
	}
}
