package enum

// CheckoutStep is the current step of the cart dialog state machine
type CheckoutStep string

const (
	CheckoutStepIdle          CheckoutStep = "idle"
	CheckoutStepBrowsing      CheckoutStep = "browsing"
	CheckoutStepQuantityEntry CheckoutStep = "quantity_entry"
	CheckoutStepReview        CheckoutStep = "review"
	CheckoutStepCompleting    CheckoutStep = "completing"
)

func (s CheckoutStep) String() string {
	return string(s)
}

// QuantityMode tells whether the quantity dialog adds a product or edits a line
type QuantityMode string

const (
	QuantityModeAdd  QuantityMode = "add"
	QuantityModeEdit QuantityMode = "edit"
)
