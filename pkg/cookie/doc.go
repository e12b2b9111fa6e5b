// Package cookie provides an HMAC-signed cookie manager used for the
// merchant session cookie. Signing gives the auth gate a tamper check on
// top of its presence check without taking a dependency on how sessions are
// issued.
//
// Secrets rotate: the first secret signs new cookies and every configured
// secret is accepted on reads, so rotation does not log merchants out.
//
//	manager, err := cookie.New([]string{secret})
//	manager.SetSigned(w, "qs_session", sessionID)
//	value, err := manager.GetSigned(r, "qs_session")
package cookie
