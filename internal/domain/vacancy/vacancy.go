package vacancy

import (
	"time"

	"zorgmatch/internal/common"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Vacancy struct {
	ID               common.UUID `json:"id"`
	UserID           common.UUID `json:"user_id"`
	OrganisationName string      `json:"organisation_name"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Requirements     []string    `json:"requirements"`
	Location         string      `json:"location"`
	ContractType     string      `json:"contract_type"`
	HourlyRate       string      `json:"hourly_rate,omitempty"`
	EducationLevel   string      `json:"education_level,omitempty"`
	Status           Status      `json:"status"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// Entitlement names how a vacancy creation was paid for.
type Entitlement string

const (
	EntitlementFree         Entitlement = "free"
	EntitlementSubscription Entitlement = "subscription"
	EntitlementCredit       Entitlement = "credit"
)
