package vacancy

import (
	"zorgmatch/internal/common"
	"zorgmatch/internal/domain/user"
)

// DecideEntitlement applies the vacancy creation policy, first match wins:
//
//  1. no vacancies yet: the first one is free
//  2. active subscription: unlimited postings, nothing consumed
//  3. a credit is available: consume exactly one
//  4. otherwise: payment required
func DecideEntitlement(vacancyCount int, subscriptionStatus string, credits int) (Entitlement, error) {
	switch {
	case vacancyCount == 0:
		return EntitlementFree, nil
	case subscriptionStatus == user.SubscriptionActive:
		return EntitlementSubscription, nil
	case credits > 0:
		return EntitlementCredit, nil
	default:
		return "", common.NewError(common.CodePaymentRequired, "no vacancy entitlement left", nil)
	}
}
