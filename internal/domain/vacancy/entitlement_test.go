package vacancy

import (
	"testing"

	"zorgmatch/internal/common"
	"zorgmatch/internal/domain/user"
)

func TestDecideEntitlement(t *testing.T) {
	tests := []struct {
		name               string
		vacancyCount       int
		subscriptionStatus string
		credits            int
		want               Entitlement
		wantErr            bool
	}{
		{name: "first vacancy is free", vacancyCount: 0, want: EntitlementFree},
		{name: "first vacancy free even with credits", vacancyCount: 0, credits: 3, want: EntitlementFree},
		{name: "active subscription covers later vacancies", vacancyCount: 2, subscriptionStatus: user.SubscriptionActive, want: EntitlementSubscription},
		{name: "subscription wins over credits", vacancyCount: 1, subscriptionStatus: user.SubscriptionActive, credits: 5, want: EntitlementSubscription},
		{name: "credits cover without subscription", vacancyCount: 1, credits: 1, want: EntitlementCredit},
		{name: "canceled subscription falls back to credits", vacancyCount: 1, subscriptionStatus: user.SubscriptionCanceled, credits: 1, want: EntitlementCredit},
		{name: "nothing left", vacancyCount: 1, wantErr: true},
		{name: "canceling status does not entitle", vacancyCount: 3, subscriptionStatus: user.SubscriptionCanceling, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecideEntitlement(tt.vacancyCount, tt.subscriptionStatus, tt.credits)
			if tt.wantErr {
				if !common.Is(err, common.CodePaymentRequired) {
					t.Fatalf("expected payment required error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
