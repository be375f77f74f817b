package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is a chart-of-accounts entry referenced by posting lines.
// Catalog maintenance lives outside this service; the ledger core only reads
// accounts to confirm they exist, are active and carry the expected currency.
type Account struct {
	AccountID    string      `json:"accountID"`    // Primary Key (e.g., UUID)
	CompanyID    string      `json:"companyID"`    // Tenant scope (NON-NULL)
	Name         string      `json:"name"`         // User-defined name
	AccountType  AccountType `json:"accountType"`  // ASSET, LIABILITY, etc.
	CurrencyCode string      `json:"currencyCode"` // ISO currency code (NON-NULL)
	Description  string      `json:"description"`  // Nullable user description
	IsActive     bool        `json:"isActive"`     // Soft delete or status flag
	AuditFields
}
