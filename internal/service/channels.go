package service

// RatesChannel is the bus channel carrying recomputed rate views for one
// tenant. Every UI socket of the tenant fans out from it.
func RatesChannel(tenantID string) string {
	return "rates:" + tenantID
}

// ConfigChannel is the bus channel carrying catalogue and spread change
// events for one tenant. Live sessions resubscribe and recompute on it.
func ConfigChannel(tenantID string) string {
	return "config:" + tenantID
}
