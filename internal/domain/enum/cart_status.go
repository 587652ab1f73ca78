package enum

// CartStatus is the lifecycle status of an order on the server.
// A cart is an order still in the pending phase.
type CartStatus string

const (
	CartStatusPending   CartStatus = "pending"
	CartStatusCompleted CartStatus = "completed"
	CartStatusCancelled CartStatus = "cancelled"
)

func (s CartStatus) String() string {
	return string(s)
}

func (s CartStatus) IsTerminal() bool {
	return s == CartStatusCompleted || s == CartStatusCancelled
}
