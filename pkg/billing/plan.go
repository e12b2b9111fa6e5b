package billing

import "time"

// Unlimited indicates no limit for a plan resource (-1 chosen for SQL
// compatibility).
const Unlimited int64 = -1

// Features are plan-specific capabilities.
type Features struct {
	Dropshipping bool `json:"dropshipping" yaml:"dropshipping"`
	CustomDomain bool `json:"custom_domain" yaml:"custom_domain"`
}

// Plan describes a subscription tier. Plans are read-only reference data to
// the billing engine.
type Plan struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description" yaml:"description"`
	MonthlyPrice Money    `json:"monthly_price" yaml:"monthly_price"`
	OrderFee     Money    `json:"order_fee" yaml:"order_fee"`
	StoreLimit   int64    `json:"store_limit" yaml:"store_limit"`
	ProductLimit int64    `json:"product_limit" yaml:"product_limit"`
	Features     Features `json:"features" yaml:"features"`
	TrialDays    int      `json:"trial_days" yaml:"trial_days"`
	Public       bool     `json:"public" yaml:"public"`
}

// IsPaid reports whether the plan carries a standing cost: a monthly price
// or a per-order fee. Only paid plans require a wallet reserve.
func (p Plan) IsPaid() bool {
	return p.MonthlyPrice.Amount > 0 || p.OrderFee.Amount > 0
}

// TrialEndsAt calculates when the trial period ends.
// Returns startedAt unchanged if the plan has no trial.
func (p Plan) TrialEndsAt(startedAt time.Time) time.Time {
	if p.TrialDays <= 0 {
		return startedAt
	}
	return startedAt.AddDate(0, 0, p.TrialDays).UTC()
}
