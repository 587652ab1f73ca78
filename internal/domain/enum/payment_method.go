package enum

import (
	"encoding/json"
	"fmt"
)

// PaymentMethod is how a sale is paid at the till
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCard     PaymentMethod = "card"
)

func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether m is a known payment method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCard:
		return true
	}
	return false
}

// AccountType returns the bill account class a payment method settles into.
// Cash lands in a cash account, every other method in a debt account.
func (m PaymentMethod) AccountType() BillAccountType {
	if m == PaymentMethodCash {
		return BillAccountTypeCash
	}
	return BillAccountTypeDebt
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	method := PaymentMethod(str)
	if !method.IsValid() {
		return fmt.Errorf("unknown payment method %q", str)
	}
	*m = method
	return nil
}
