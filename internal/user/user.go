package user

import "time"

type User struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`

	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"dateOfBirth"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"-"`
	LastLogin *time.Time `json:"last_login"`
	IsActive  bool       `json:"is_active"`

	// Populated by the repository from the predictions table.
	TotalPredictions int `json:"total_predictions"`
}
