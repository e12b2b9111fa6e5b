package storage

import "errors"

var (
	// ErrSubdomainTaken is returned when a store subdomain is already
	// assigned. Subdomains are globally unique and immutable once assigned.
	ErrSubdomainTaken = errors.New("subdomain already taken")

	// ErrCustomDomainTaken is returned when a custom domain is already
	// mapped to another store.
	ErrCustomDomainTaken = errors.New("custom domain already taken")

	// ErrInsufficientFunds is returned by wallet debits that would drive the
	// balance negative.
	ErrInsufficientFunds = errors.New("insufficient wallet funds")

	// ErrCurrencyMismatch is returned when a wallet operation uses a
	// currency different from the wallet's.
	ErrCurrencyMismatch = errors.New("currency mismatch")
)
