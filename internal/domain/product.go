package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a cut of meat in the catalog. Category and Cut are
// free-form labels; the distinct sets of both are derived at query time,
// so there is no separate category table.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Category    string    `json:"category" db:"category"`
	Cut         string    `json:"cut,omitempty" db:"cut"`
	Price       float64   `json:"price" db:"price"`
	ImageURL    string    `json:"image_url" db:"image_url"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
