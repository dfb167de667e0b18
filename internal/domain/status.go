package domain

import "strings"

// DeliveryStatus is the lifecycle state of a delivery.
type DeliveryStatus string

// Delivery statuses. CREATED → ASSIGNED → IN_PROGRESS → COMPLETED, with
// CANCELED reachable from any non-terminal state.
const (
	StatusCreated    DeliveryStatus = "CREATED"
	StatusAssigned   DeliveryStatus = "ASSIGNED"
	StatusInProgress DeliveryStatus = "IN_PROGRESS"
	StatusCompleted  DeliveryStatus = "COMPLETED"
	StatusCanceled   DeliveryStatus = "CANCELED"
)

var allowedStatuses = [...]DeliveryStatus{
	StatusCreated, StatusAssigned, StatusInProgress, StatusCompleted, StatusCanceled,
}

// CourierStatusOptions are the statuses a courier may stage on an assigned delivery.
var CourierStatusOptions = []DeliveryStatus{StatusAssigned, StatusInProgress, StatusCompleted}

// DashboardStatusOptions are the statuses offered on the courier dashboard.
var DashboardStatusOptions = []DeliveryStatus{StatusCreated, StatusAssigned, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the known statuses.
func (s DeliveryStatus) Valid() bool {
	for _, v := range allowedStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further status controls should be offered.
// Enforcement is the backend's; this only drives the UI.
func (s DeliveryStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// Label renders the status for humans, e.g. "IN PROGRESS".
func (s DeliveryStatus) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// CSSClass is the lowercase status used in badge class names.
func (s DeliveryStatus) CSSClass() string {
	return strings.ToLower(string(s))
}
