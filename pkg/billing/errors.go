package billing

import "errors"

var (
	// ErrSubscriptionNotFound is returned by stores when a merchant has no
	// subscription row. The engine folds it into the fail-closed result.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrWalletNotFound is returned by stores when a merchant has no
	// wallet row. The engine folds it into the fail-closed result.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrBillingUnavailable wraps data-source failures. Unlike missing
	// records it has no safe default and propagates to the caller.
	ErrBillingUnavailable = errors.New("billing data source unavailable")

	// ErrFailedToLoadPlans is returned when the plan catalog cannot be
	// loaded at startup.
	ErrFailedToLoadPlans = errors.New("failed to load billing plans")

	// ErrInvalidPlanConfiguration is returned when the loaded plan catalog
	// is malformed.
	ErrInvalidPlanConfiguration = errors.New("invalid billing plan configuration")

	// ErrNoMerchantInContext is returned when a guard cannot determine the
	// acting merchant.
	ErrNoMerchantInContext = errors.New("no merchant in context")
)
