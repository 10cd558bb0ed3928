package application

import (
	"time"

	"zorgmatch/internal/common"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

const TargetVacancy = "vacancy"

type Application struct {
	ID          common.UUID `json:"id"`
	ApplicantID common.UUID `json:"applicant_id"`
	TargetType  string      `json:"target_type"`
	TargetID    common.UUID `json:"target_id"`
	Message     string      `json:"message"`
	Status      Status      `json:"status"`
	RespondedAt *time.Time  `json:"responded_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ApplicantInfo is the subset of the applicant's account shown to the
// organisation reviewing an application.
type ApplicantInfo struct {
	ID               common.UUID `json:"id"`
	FirstName        string      `json:"first_name,omitempty"`
	LastName         string      `json:"last_name,omitempty"`
	Email            string      `json:"email"`
	IsOnline         bool        `json:"is_online"`
	ShowOnlineStatus bool        `json:"show_online_status"`
}

type WithApplicant struct {
	Application
	Applicant *ApplicantInfo `json:"applicant"`
}
