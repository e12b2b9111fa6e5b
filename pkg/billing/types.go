package billing

import "encoding/json"

// DefaultCurrency is applied when a request omits the currency.
const DefaultCurrency = "USD"

// Money represents a monetary amount in the smallest currency unit.
// For example, $10.99 USD would be Amount: 1099, Currency: "USD".
type Money struct {
	Amount   int64  `json:"amount"`   // Amount in smallest currency unit (cents for USD)
	Currency string `json:"currency"` // ISO 4217 currency code
}

// SubscriptionStatus represents the current state of a merchant subscription.
// Statuses are derived and updated by billing jobs outside this package;
// the engine treats them as read-only input.
type SubscriptionStatus string

const (
	StatusInactive SubscriptionStatus = "inactive"
	StatusActive   SubscriptionStatus = "active"
	StatusTrialing SubscriptionStatus = "trialing"
	StatusPastDue  SubscriptionStatus = "past_due"
	StatusCanceled SubscriptionStatus = "canceled"
	StatusExpired  SubscriptionStatus = "expired"
)

// BlockingReason is the single authoritative flag gating merchant write
// actions. It is computed fresh on every billing overview fetch and never
// cached beyond a single response.
type BlockingReason string

const (
	// BlockingNone means the merchant may transact.
	BlockingNone BlockingReason = ""
	// BlockingLowWallet means the wallet balance is below the minimum
	// required reserve for the merchant's paid plan.
	BlockingLowWallet BlockingReason = "LOW_WALLET"
	// BlockingSubscriptionExpired is the hard stop: the subscription has
	// lapsed past any grace period, or billing records are missing
	// entirely. It dominates wallet state.
	BlockingSubscriptionExpired BlockingReason = "SUBSCRIPTION_EXPIRED"
)

// Blocked reports whether the reason gates mutating actions.
func (b BlockingReason) Blocked() bool {
	return b != BlockingNone
}

// MarshalJSON serializes BlockingNone as JSON null so API consumers see the
// documented null | "LOW_WALLET" | "SUBSCRIPTION_EXPIRED" contract.
func (b BlockingReason) MarshalJSON() ([]byte, error) {
	if b == BlockingNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(b))
}

// UnmarshalJSON accepts null as BlockingNone.
func (b *BlockingReason) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = BlockingNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*b = BlockingReason(s)
	return nil
}
