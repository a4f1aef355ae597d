package model

import "time"

type TransactionType string

const (
	TransactionSpend   TransactionType = "spend"
	TransactionReceive TransactionType = "receive"
)

// Transaction is a bank transaction reconciled in Xero. Amounts are positive
// cents; Type carries the direction.
type Transaction struct {
	ID          int64           `json:"id"`
	XeroID      *string         `json:"xero_id,omitempty"`
	Date        time.Time       `json:"date"`
	ContactName string          `json:"contact_name"`
	Description string          `json:"description"`
	AmountCents int64           `json:"amount_cents"`
	Type        TransactionType `json:"type"`
	Category    *string         `json:"category,omitempty"`
	ProjectCode *string         `json:"project_code,omitempty"`
}

type Invoice struct {
	ID             int64     `json:"id"`
	Number         string    `json:"number"`
	ContactName    string    `json:"contact_name"`
	IssuedOn       time.Time `json:"issued_on"`
	DueOn          time.Time `json:"due_on"`
	TotalCents     int64     `json:"total_cents"`
	AmountDueCents int64     `json:"amount_due_cents"`
	Status         string    `json:"status"`
	ProjectCode    *string   `json:"project_code,omitempty"`
	DaysOverdue    int       `json:"days_overdue"`
}

type Receipt struct {
	ID          int64     `json:"id"`
	Vendor      string    `json:"vendor"`
	AmountCents int64     `json:"amount_cents"`
	SpentOn     time.Time `json:"spent_on"`
	Category    *string   `json:"category,omitempty"`
	ProjectCode *string   `json:"project_code,omitempty"`
	Note        *string   `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TypeTotal is a summed amount for one transaction direction.
type TypeTotal struct {
	Type       TransactionType `json:"type"`
	TotalCents int64           `json:"total_cents"`
	Count      int64           `json:"count"`
}

type MonthTotal struct {
	Month      time.Time       `json:"month"`
	Type       TransactionType `json:"type"`
	TotalCents int64           `json:"total_cents"`
}

type CategoryTotal struct {
	Category   string `json:"category"`
	TotalCents int64  `json:"total_cents"`
	Count      int64  `json:"count"`
}

type OutstandingSummary struct {
	Count        int64 `json:"count"`
	DueCents     int64 `json:"due_cents"`
	Overdue      int64 `json:"overdue"`
	OverdueCents int64 `json:"overdue_cents"`
}
