package user

import (
	"time"

	"zorgmatch/internal/common"
)

type Role string

const (
	RoleZzper        Role = "zzper"
	RoleOrganisation Role = "organisatie"
)

// Subscription status values mirror the payment processor's lifecycle and are
// stored verbatim.
const (
	SubscriptionActive    = "active"
	SubscriptionCanceling = "canceling"
	SubscriptionCanceled  = "canceled"
)

type User struct {
	ID                   common.UUID `json:"id"`
	Email                string      `json:"email"`
	PasswordHash         string      `json:"-"`
	FirstName            string      `json:"first_name,omitempty"`
	LastName             string      `json:"last_name,omitempty"`
	Role                 Role        `json:"role,omitempty"`
	Credits              int         `json:"credits"`
	StripeCustomerID     string      `json:"-"`
	StripeSubscriptionID string      `json:"-"`
	SubscriptionStatus   string      `json:"subscription_status,omitempty"`
	IsOnline             bool        `json:"is_online"`
	ShowOnlineStatus     bool        `json:"show_online_status"`
	LastSeen             *time.Time  `json:"last_seen,omitempty"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

func (u User) HasActiveSubscription() bool {
	return u.SubscriptionStatus == SubscriptionActive
}
