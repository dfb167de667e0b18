package domain

// Delivery is a parcel delivery as returned by the gateway.
// CourierID is empty while Status is CREATED.
type Delivery struct {
	ID              string         `json:"id"`
	Status          DeliveryStatus `json:"status"`
	CustomerID      string         `json:"customerId,omitempty"`
	CustomerName    string         `json:"customerName,omitempty"`
	CourierID       string         `json:"courierId,omitempty"`
	CourierUsername string         `json:"courierUsername,omitempty"`
	PickupAddress   string         `json:"pickupAddress"`
	DeliveryAddress string         `json:"deliveryAddress"`
	DeliveryDetails string         `json:"deliveryDetails"`
	CreatedDate     Date           `json:"createdDate"`
	DeliveryDate    Date           `json:"deliveryDate"`
	UpdatedDate     Date           `json:"updatedDate"`
}

// ShortID is the prefix shown in delivery card headers.
func (d Delivery) ShortID() string {
	if len(d.ID) <= 8 {
		return d.ID
	}
	return d.ID[:8]
}

// CreateDelivery is the payload of POST /api/delivery.
type CreateDelivery struct {
	CustomerID      string `json:"customerId"`
	DeliveryDetails string `json:"deliveryDetails"`
	PickupAddress   string `json:"pickupAddress"`
	DeliveryAddress string `json:"deliveryAddress"`
	DeliveryDate    string `json:"deliveryDate"`
}

// FilterByStatus returns the deliveries in status s, preserving order.
func FilterByStatus(list []Delivery, s DeliveryStatus) []Delivery {
	out := make([]Delivery, 0, len(list))
	for _, d := range list {
		if d.Status == s {
			out = append(out, d)
		}
	}
	return out
}
