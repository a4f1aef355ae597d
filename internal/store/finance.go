package store

import (
	"context"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/db/sqlc"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
)

type financeStore struct {
	queries *sqlc.Queries
}

func newFinanceStore(queries *sqlc.Queries) FinanceStore {
	return &financeStore{queries: queries}
}

func (s *financeStore) TotalsByType(ctx context.Context, from, to time.Time) ([]model.TypeTotal, error) {
	rows, err := s.queries.SumTransactionsByType(ctx, sqlc.SumTransactionsByTypeParams{
		FromDate: date(from),
		ToDate:   date(to),
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.TypeTotal, len(rows))
	for i, r := range rows {
		out[i] = model.TypeTotal{Type: model.TransactionType(r.Type), TotalCents: r.TotalCents, Count: r.Total}
	}
	return out, nil
}

func (s *financeStore) TotalsByMonth(ctx context.Context, from, to time.Time) ([]model.MonthTotal, error) {
	rows, err := s.queries.SumTransactionsByMonth(ctx, sqlc.SumTransactionsByMonthParams{
		FromDate: date(from),
		ToDate:   date(to),
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.MonthTotal, len(rows))
	for i, r := range rows {
		out[i] = model.MonthTotal{Month: r.Month.Time, Type: model.TransactionType(r.Type), TotalCents: r.TotalCents}
	}
	return out, nil
}

func (s *financeStore) SpendByCategory(ctx context.Context, from, to time.Time, limit int) ([]model.CategoryTotal, error) {
	rows, err := s.queries.SpendByCategory(ctx, sqlc.SpendByCategoryParams{
		FromDate: date(from),
		ToDate:   date(to),
		RowLimit: limit32(limit, 10),
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.CategoryTotal, len(rows))
	for i, r := range rows {
		out[i] = model.CategoryTotal{Category: r.Category, TotalCents: r.TotalCents, Count: r.Total}
	}
	return out, nil
}

func (s *financeStore) ListTransactions(ctx context.Context, from, to time.Time, projectCode *string, limit int) ([]model.Transaction, error) {
	rows, err := s.queries.ListTransactions(ctx, sqlc.ListTransactionsParams{
		FromDate:    date(from),
		ToDate:      date(to),
		ProjectCode: projectCode,
		RowLimit:    limit32(limit, 25),
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.Transaction, len(rows))
	for i, r := range rows {
		out[i] = model.Transaction{
			ID:          r.ID,
			XeroID:      r.XeroID,
			Date:        r.Date.Time,
			ContactName: r.ContactName,
			Description: r.Description,
			AmountCents: r.AmountCents,
			Type:        model.TransactionType(r.Type),
			Category:    r.Category,
			ProjectCode: r.ProjectCode,
		}
	}
	return out, nil
}

func (s *financeStore) ProjectTotals(ctx context.Context, projectCode string) ([]model.TypeTotal, error) {
	rows, err := s.queries.SumTransactionsForProject(ctx, projectCode)
	if err != nil {
		return nil, err
	}
	out := make([]model.TypeTotal, len(rows))
	for i, r := range rows {
		out[i] = model.TypeTotal{Type: model.TransactionType(r.Type), TotalCents: r.TotalCents, Count: r.Total}
	}
	return out, nil
}

// ListOutstandingInvoices returns unpaid invoices ordered by due date.
// DaysOverdue is left for the caller, which knows the local date.
func (s *financeStore) ListOutstandingInvoices(ctx context.Context, limit int) ([]model.Invoice, error) {
	rows, err := s.queries.ListOutstandingInvoices(ctx, limit32(limit, 50))
	if err != nil {
		return nil, err
	}
	out := make([]model.Invoice, len(rows))
	for i, r := range rows {
		out[i] = model.Invoice{
			ID:             r.ID,
			Number:         r.Number,
			ContactName:    r.ContactName,
			IssuedOn:       r.IssuedOn.Time,
			DueOn:          r.DueOn.Time,
			TotalCents:     r.TotalCents,
			AmountDueCents: r.AmountDueCents,
			Status:         r.Status,
			ProjectCode:    r.ProjectCode,
		}
	}
	return out, nil
}

func (s *financeStore) SummariseOutstanding(ctx context.Context, today time.Time) (*model.OutstandingSummary, error) {
	row, err := s.queries.SummariseOutstandingInvoices(ctx, date(today))
	if err != nil {
		return nil, err
	}
	return &model.OutstandingSummary{
		Count:        row.Total,
		DueCents:     row.DueCents,
		Overdue:      row.Overdue,
		OverdueCents: row.OverdueCents,
	}, nil
}

// CreateReceipt is idempotent on receipt.ID.
func (s *financeStore) CreateReceipt(ctx context.Context, receipt *model.Receipt) error {
	row, err := s.queries.CreateReceipt(ctx, sqlc.CreateReceiptParams{
		ID:          receipt.ID,
		Vendor:      receipt.Vendor,
		AmountCents: receipt.AmountCents,
		SpentOn:     date(receipt.SpentOn),
		Category:    receipt.Category,
		ProjectCode: receipt.ProjectCode,
		Note:        receipt.Note,
	})
	if err != nil {
		return err
	}
	*receipt = toReceiptModel(row)
	return nil
}

func (s *financeStore) ListReceipts(ctx context.Context, limit int) ([]model.Receipt, error) {
	rows, err := s.queries.ListReceipts(ctx, limit32(limit, 20))
	if err != nil {
		return nil, err
	}
	out := make([]model.Receipt, len(rows))
	for i, r := range rows {
		out[i] = toReceiptModel(r)
	}
	return out, nil
}

func toReceiptModel(row sqlc.Receipt) model.Receipt {
	return model.Receipt{
		ID:          row.ID,
		Vendor:      row.Vendor,
		AmountCents: row.AmountCents,
		SpentOn:     row.SpentOn.Time,
		Category:    row.Category,
		ProjectCode: row.ProjectCode,
		Note:        row.Note,
		CreatedAt:   row.CreatedAt.Time,
	}
}
