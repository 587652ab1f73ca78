package enum

// PaymentStatus is the payment state the server tracks on an order
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPartial PaymentStatus = "partial"
)

// DefaultPaymentStatus is sent when a cart is created
const DefaultPaymentStatus = PaymentStatusPending

func (s PaymentStatus) String() string {
	return string(s)
}
