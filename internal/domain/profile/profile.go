package profile

import (
	"time"

	"zorgmatch/internal/common"
)

// ZzpProfile is the public card of an independent healthcare professional.
type ZzpProfile struct {
	ID           common.UUID `json:"id"`
	UserID       common.UUID `json:"user_id"`
	Title        string      `json:"title"`
	Bio          string      `json:"bio"`
	Expertise    []string    `json:"expertise"`
	Location     string      `json:"location"`
	Availability string      `json:"availability"`
	HourlyRate   string      `json:"hourly_rate,omitempty"`
	Experience   string      `json:"experience,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
