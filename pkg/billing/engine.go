package billing

import "time"

// ComputeBlockingReason derives the single authoritative blocking reason
// from a merchant's subscription, wallet, and plan.
//
// The function is pure and total: any combination of inputs terminates with
// exactly one outcome and never panics. Precedence, first match wins:
//
//  1. Missing subscription or wallet records mean the merchant was never
//     provisioned - fail closed with BlockingSubscriptionExpired.
//  2. A lapsed status (expired, canceled, past_due) whose grace period is
//     absent or has elapsed is the hard stop, regardless of wallet balance.
//  3. A paid plan with a wallet balance below minReserve blocks with
//     BlockingLowWallet.
//  4. Otherwise the merchant is unblocked.
//
// A nil plan carries no standing cost, so rule 3 cannot fire for it.
// minReserve is the configured minimum wallet reserve in the smallest
// currency unit; values <= 0 fall back to one order fee of the plan.
func ComputeBlockingReason(sub *Subscription, wallet *Wallet, plan *Plan, minReserve int64, now time.Time) BlockingReason {
	if sub == nil || wallet == nil {
		return BlockingSubscriptionExpired
	}

	if sub.IsLapsed() && sub.GraceElapsedAt(now) {
		return BlockingSubscriptionExpired
	}

	if plan != nil && plan.IsPaid() {
		reserve := minReserve
		if reserve <= 0 {
			reserve = plan.OrderFee.Amount
		}
		if wallet.Balance.Amount < reserve {
			return BlockingLowWallet
		}
	}

	return BlockingNone
}
