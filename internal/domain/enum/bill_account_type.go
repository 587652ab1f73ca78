package enum

import (
	"encoding/json"
)

// BillAccountType represents the ledger class of a bill account
type BillAccountType string

const (
	BillAccountTypeCash BillAccountType = "cash"
	BillAccountTypeDebt BillAccountType = "debt"
)

func (t BillAccountType) String() string {
	return string(t)
}

func (t BillAccountType) IsValid() bool {
	return t == BillAccountTypeCash || t == BillAccountTypeDebt
}

func (t BillAccountType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *BillAccountType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = BillAccountType(str)
	return nil
}
