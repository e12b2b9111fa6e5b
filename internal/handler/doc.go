// Package handler holds the platform's HTTP handlers: the merchant billing
// and store APIs, the storefront routes served after host-based path
// rewriting, and the branded store-not-found page.
package handler
