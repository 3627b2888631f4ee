package contract

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rpggio/workboard/internal/domain/record"
)

// Collection is the document collection holding contracts.
const Collection = "contracts"

// Document field names.
const (
	FieldContractName = "contractName"
	FieldCompanyName  = "companyName"
	FieldDescription  = "description"
	FieldValue        = "value"
	FieldCurrency     = "currency"
	FieldTerm         = "term"
	FieldStatus       = "status"
	FieldSignedDate   = "signedDate"
	FieldExpiryDate   = "expiryDate"
	FieldCreatedAt    = "createdAt"
	FieldUpdatedAt    = "updatedAt"

	// Keys written by older clients.
	legacyExpiryDate = "expriryDate"
	legacyCreatedAt  = "createAt"
	legacyUpdatedAt  = "updateAt"
)

// Status is the approval state of a contract.
type Status string

const (
	StatusPendingApproval Status = "Chờ duyệt"
	StatusSigned          Status = "Đã ký"
	StatusInProgress      Status = "Đang thực hiện"
	StatusCompleted       Status = "Hoàn thành"
	StatusExpired         Status = "Hết hạn"
)

// Statuses lists every contract status in display order.
var Statuses = []Status{StatusPendingApproval, StatusSigned, StatusInProgress, StatusCompleted, StatusExpired}

// Currency is the denomination of a contract value.
type Currency string

const (
	CurrencyVND Currency = "VNĐ"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// Currencies lists the accepted currencies.
var Currencies = []Currency{CurrencyVND, CurrencyUSD, CurrencyEUR}

// Contract is an agreement with a client company.
type Contract struct {
	ID           string     `json:"id"`
	ContractName string     `json:"contract_name"`
	CompanyName  string     `json:"company_name"`
	Description  string     `json:"description,omitempty"`
	Value        float64    `json:"value"`
	Currency     Currency   `json:"currency"`
	TermMonths   int        `json:"term_months"`
	Status       Status     `json:"status"`
	SignedDate   *time.Time `json:"signed_date,omitempty"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FromRecord reads a contract document, falling back to legacy keys.
func FromRecord(rec record.Record) *Contract {
	c := &Contract{
		ID:           rec.ID,
		ContractName: rec.Text(FieldContractName),
		CompanyName:  rec.Text(FieldCompanyName),
		Description:  rec.Text(FieldDescription),
		Currency:     Currency(rec.Text(FieldCurrency)),
		Status:       Status(rec.Text(FieldStatus)),
	}
	c.Value, _ = rec.Number(FieldValue)
	if term, ok := rec.Number(FieldTerm); ok {
		c.TermMonths = int(term)
	}
	c.SignedDate = optionalTime(rec, FieldSignedDate)
	c.ExpiryDate = optionalTime(rec, FieldExpiryDate, legacyExpiryDate)
	if t := optionalTime(rec, FieldCreatedAt, legacyCreatedAt); t != nil {
		c.CreatedAt = *t
	}
	if t := optionalTime(rec, FieldUpdatedAt, legacyUpdatedAt); t != nil {
		c.UpdatedAt = *t
	}
	return c
}

// Fields renders the contract as document fields.
func (c *Contract) Fields() map[string]any {
	fields := map[string]any{
		FieldContractName: c.ContractName,
		FieldCompanyName:  c.CompanyName,
		FieldDescription:  c.Description,
		FieldValue:        c.Value,
		FieldCurrency:     string(c.Currency),
		FieldTerm:         c.TermMonths,
		FieldStatus:       string(c.Status),
		FieldCreatedAt:    c.CreatedAt,
		FieldUpdatedAt:    c.UpdatedAt,
	}
	if c.SignedDate != nil {
		fields[FieldSignedDate] = *c.SignedDate
	}
	if c.ExpiryDate != nil {
		fields[FieldExpiryDate] = *c.ExpiryDate
	}
	return fields
}

// IsExpired reports whether the expiry date lies before now.
func (c *Contract) IsExpired(now time.Time) bool {
	return c.ExpiryDate != nil && c.ExpiryDate.Before(now)
}

// FormattedValue renders the value with FormatValue.
func (c *Contract) FormattedValue() string {
	return FormatValue(c.Value, c.Currency)
}

// FormatValue abbreviates large amounts with Vietnamese magnitude words,
// e.g. 2500000000 VNĐ renders as "2.5 tỷ VNĐ".
func FormatValue(value float64, currency Currency) string {
	switch {
	case value >= 1e9:
		return fmt.Sprintf("%.1f tỷ %s", value/1e9, currency)
	case value >= 1e6:
		return fmt.Sprintf("%.1f triệu %s", value/1e6, currency)
	case value >= 1e3:
		return fmt.Sprintf("%.1f nghìn %s", value/1e3, currency)
	default:
		return strconv.FormatFloat(value, 'f', -1, 64) + " " + string(currency)
	}
}

func optionalTime(rec record.Record, fields ...string) *time.Time {
	for _, field := range fields {
		if t, ok := rec.Time(field); ok {
			return &t
		}
	}
	return nil
}
