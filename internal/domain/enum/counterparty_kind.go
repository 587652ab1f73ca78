package enum

// CounterpartyKind is the kind of contact a cart is opened against
type CounterpartyKind string

const (
	CounterpartyCustomer CounterpartyKind = "customer"
	CounterpartySupplier CounterpartyKind = "supplier"
)

func (k CounterpartyKind) String() string {
	return string(k)
}
