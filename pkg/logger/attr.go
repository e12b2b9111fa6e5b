package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// StoreID records the store identifier under the key "store_id".
// If id is nil, it returns an empty Attr.
func StoreID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("store_id", id)
}

// MerchantID records the merchant identifier under the key "merchant_id".
// If id is nil, it returns an empty Attr.
func MerchantID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("merchant_id", id)
}

// Host records a hostname under the key "host".
func Host(host string) slog.Attr {
	return slog.String("host", host)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
