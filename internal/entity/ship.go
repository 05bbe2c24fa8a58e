package entity

import (
	"time"

	"github.com/google/uuid"
)

// Ship represents a vessel for data transfer between layers.
type Ship struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IMONumber string    `json:"imo_number"`
	Flag      string    `json:"flag"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
