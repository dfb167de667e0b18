package domain

// Viewer is who is looking at a delivery list: a Customer or a Courier.
// It is decided once per request from the session.
type Viewer interface {
	viewer()
	Key() string
}

// Customer sees deliveries they created.
type Customer struct{ Username string }

// Courier sees the open queue and deliveries they accepted.
type Courier struct{ Username string }

func (Customer) viewer() {}
func (Courier) viewer()  {}

// Key is the identifier the backend associates deliveries with.
func (c Customer) Key() string { return c.Username }

// Key is the identifier the backend associates deliveries with.
func (c Courier) Key() string { return c.Username }

// ViewerFor picks the viewer for a session, preferring the role the route
// asked for. ok is false when the session has neither role or no key.
func ViewerFor(s Session, prefer Role) (Viewer, bool) {
	key := s.DeliveryKey()
	if key == "" {
		return nil, false
	}
	customer, courier := s.HasRole(RoleCustomer), s.HasRole(RoleCourier)
	switch {
	case prefer == RoleCourier && courier:
		return Courier{Username: key}, true
	case prefer == RoleCustomer && customer:
		return Customer{Username: key}, true
	case courier:
		return Courier{Username: key}, true
	case customer:
		return Customer{Username: key}, true
	default:
		return nil, false
	}
}
