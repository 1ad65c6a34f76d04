package models

import "github.com/shopspring/decimal"

// InventoryItem is one stocked product.
type InventoryItem struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Cost     decimal.Decimal `json:"cost"`
	MinStock int             `json:"min_stock"`
}

// Expense is a single business expense. Date is an ISO date (2006-01-02).
type Expense struct {
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
}

type Supplier struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// Budget is a monthly spending limit for one expense category.
// Month is "2006-01".
type Budget struct {
	Category string          `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
	Month    string          `json:"month"`
}

type SpecialOrder struct {
	ClientName  string          `json:"client_name"`
	Description string          `json:"description"`
	Deposit     decimal.Decimal `json:"deposit"`
	Status      string          `json:"status"`
	DueDate     string          `json:"due_date"`
}

type Client struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}
