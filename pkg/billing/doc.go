// Package billing computes the blocking state that gates merchant write
// actions across the dashboard.
//
// The core is ComputeBlockingReason, a pure derivation over three read-only
// inputs - subscription, wallet, and plan - producing exactly one of three
// outcomes: unblocked, LOW_WALLET, or SUBSCRIPTION_EXPIRED. Expiry always
// dominates wallet state, and missing billing records fail closed: an
// account with no subscription or wallet row has never been provisioned and
// must not transact.
//
// Service wraps the derivation with data access: it fetches the merchant's
// records, looks up the plan in the loaded catalog, and returns an Overview
// snapshot. Consumers recompute the overview before every gated action; the
// RequireUnblocked middleware does exactly that for HTTP mutation routes.
//
// The package performs no writes. Payments and recharges happen in the
// billing ledger, an external collaborator invoked only after the gate
// passes.
package billing
