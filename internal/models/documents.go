package models

import "github.com/shopspring/decimal"

// LineItem is one line of an invoice or receipt. Lines are embedded in
// their document, not stored as a separate collection.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// Invoice statuses.
const (
	InvoiceStatusDraft = "draft"
	InvoiceStatusSent  = "sent"
	InvoiceStatusPaid  = "paid"
)

// Invoice is a sequence-numbered sales document. ClientID optionally
// references a Client record; deleting the client does not cascade.
type Invoice struct {
	Number     string          `json:"number"`
	ClientID   string          `json:"client_id,omitempty"`
	ClientName string          `json:"client_name"`
	Items      []LineItem      `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Total      decimal.Decimal `json:"total"`
	Status     string          `json:"status"`
	DueDate    string          `json:"due_date"`
}

// Receipt records a completed sale.
type Receipt struct {
	Number        string          `json:"number"`
	ClientID      string          `json:"client_id,omitempty"`
	Items         []LineItem      `json:"items"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method"`
}
