package model

import "fmt"

// AccountType classifies accounts in the ledger, using the ledger
// application's own type names.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeBank      AccountType = "BANK"
	AccountTypeCash      AccountType = "CASH"
	AccountTypeCredit    AccountType = "CREDIT"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeExpense   AccountType = "EXPENSE"
	AccountTypeIncome    AccountType = "INCOME"
	AccountTypeLiability AccountType = "LIABILITY"
)

// Account represents a row in the accounts table.
type Account struct {
	GUID          string
	Name          string
	Type          AccountType
	ParentGUID    string // empty = top-level
	CommodityGUID string
	CommoditySCU  int64 // smallest currency unit, e.g. 100 for cents
}

func (a Account) String() string {
	return fmt.Sprintf("%s [%s]", a.Name, a.GUID)
}

// Commodity represents a row in the commodities table.
type Commodity struct {
	GUID      string
	Namespace string
	Mnemonic  string
	Fullname  string
	Fraction  int64 // minor units per whole unit
}
