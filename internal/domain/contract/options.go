package contract

import "time"

// CreateRequest defines contract creation inputs. Empty Status and Currency
// take their defaults.
type CreateRequest struct {
	ContractName string     `json:"contract_name"`
	CompanyName  string     `json:"company_name"`
	Description  string     `json:"description"`
	Value        float64    `json:"value"`
	Currency     Currency   `json:"currency"`
	TermMonths   int        `json:"term_months"`
	Status       Status     `json:"status"`
	SignedDate   *time.Time `json:"signed_date"`
	ExpiryDate   *time.Time `json:"expiry_date"`
}

// UpdateRequest changes the non-nil fields of a contract.
type UpdateRequest struct {
	ContractName *string    `json:"contract_name"`
	CompanyName  *string    `json:"company_name"`
	Description  *string    `json:"description"`
	Value        *float64   `json:"value"`
	Currency     *Currency  `json:"currency"`
	TermMonths   *int       `json:"term_months"`
	Status       *Status    `json:"status"`
	SignedDate   *time.Time `json:"signed_date"`
	ExpiryDate   *time.Time `json:"expiry_date"`
}

type form struct {
	ContractName string   `json:"contract_name" validate:"notblank"`
	CompanyName  string   `json:"company_name" validate:"notblank"`
	Value        float64  `json:"value" validate:"gt=0"`
	Currency     Currency `json:"currency" validate:"contract_currency"`
	TermMonths   int      `json:"term_months" validate:"gt=0"`
	Status       Status   `json:"status" validate:"contract_status"`
}
