package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/format"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

type FinanceSummary struct {
	Period        DateRange             `json:"period"`
	IncomeCents   int64                 `json:"income_cents"`
	SpendCents    int64                 `json:"spend_cents"`
	NetCents      int64                 `json:"net_cents"`
	Transactions  int64                 `json:"transactions"`
	Months        []MonthBucket         `json:"months"`
	TopCategories []model.CategoryTotal `json:"top_categories"`
}

// MonthBucket is income and spend for one calendar month.
type MonthBucket struct {
	Month       string `json:"month"` // "2025-07"
	IncomeCents int64  `json:"income_cents"`
	SpendCents  int64  `json:"spend_cents"`
	NetCents    int64  `json:"net_cents"`
}

type QuarterSummary struct {
	Quarter  string          `json:"quarter"`
	Current  *FinanceSummary `json:"current"`
	Previous *FinanceSummary `json:"previous"`
	// ChangePct compares net position against the previous quarter. Nil when
	// the previous net was zero.
	ChangePct *float64 `json:"change_pct,omitempty"`
}

type OutstandingInvoices struct {
	Summary  model.OutstandingSummary `json:"summary"`
	Invoices []model.Invoice          `json:"invoices"`
}

type ProjectFinances struct {
	ProjectCode   string              `json:"project_code"`
	IncomeCents   int64               `json:"income_cents"`
	SpendCents    int64               `json:"spend_cents"`
	NetCents      int64               `json:"net_cents"`
	BudgetCents   *int64              `json:"budget_cents,omitempty"`
	BudgetUsedPct *int                `json:"budget_used_pct,omitempty"`
	Transactions  []model.Transaction `json:"recent_transactions"`
}

type FinanceService interface {
	Summary(ctx context.Context, period string) (*FinanceSummary, error)
	QuarterSummary(ctx context.Context, offset int) (*QuarterSummary, error)
	OutstandingInvoices(ctx context.Context, limit int) (*OutstandingInvoices, error)
	SpendByCategory(ctx context.Context, from, to time.Time, limit int) ([]model.CategoryTotal, error)
	ProjectFinances(ctx context.Context, projectCode string) (*ProjectFinances, error)
	RecentTransactions(ctx context.Context, days int, projectCode *string, limit int) ([]model.Transaction, error)
	Receipts(ctx context.Context, limit int) ([]model.Receipt, error)
}

type financeService struct {
	finance  store.FinanceStore
	projects store.ProjectStore
	loc      *time.Location
	now      func() time.Time
}

func NewFinanceService(finance store.FinanceStore, projects store.ProjectStore, loc *time.Location, now func() time.Time) FinanceService {
	return &financeService{finance: finance, projects: projects, loc: loc, now: now}
}

func (s *financeService) today() time.Time {
	return s.now().In(s.loc)
}

func (s *financeService) Summary(ctx context.Context, period string) (*FinanceSummary, error) {
	r, err := PeriodRange(period, s.today())
	if err != nil {
		return nil, err
	}
	return s.summarise(ctx, r)
}

func (s *financeService) summarise(ctx context.Context, r DateRange) (*FinanceSummary, error) {
	var (
		totals     []model.TypeTotal
		months     []model.MonthTotal
		categories []model.CategoryTotal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.finance.TotalsByType(gctx, r.From, r.To)
		return err
	})
	g.Go(func() error {
		var err error
		months, err = s.finance.TotalsByMonth(gctx, r.From, r.To)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.finance.SpendByCategory(gctx, r.From, r.To, 5)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("summarising %s: %w", r.Label, err)
	}

	summary := &FinanceSummary{
		Period:        r,
		Months:        BucketMonths(months, r.From, r.To),
		TopCategories: categories,
	}
	if summary.TopCategories == nil {
		summary.TopCategories = []model.CategoryTotal{}
	}
	for _, t := range totals {
		switch t.Type {
		case model.TransactionReceive:
			summary.IncomeCents += t.TotalCents
		case model.TransactionSpend:
			summary.SpendCents += t.TotalCents
		}
		summary.Transactions += t.Count
	}
	summary.NetCents = summary.IncomeCents - summary.SpendCents
	return summary, nil
}

func (s *financeService) QuarterSummary(ctx context.Context, offset int) (*QuarterSummary, error) {
	today := s.today()
	q := QuarterFor(today).Offset(offset)
	prev := q.Previous()

	current, err := s.summarise(ctx, DateRange{Label: q.Label(), From: q.Start(s.loc), To: q.End(s.loc)})
	if err != nil {
		return nil, err
	}
	previous, err := s.summarise(ctx, DateRange{Label: prev.Label(), From: prev.Start(s.loc), To: prev.End(s.loc)})
	if err != nil {
		return nil, err
	}

	out := &QuarterSummary{Quarter: q.Label(), Current: current, Previous: previous}
	if previous.NetCents != 0 {
		pct := float64(current.NetCents-previous.NetCents) / absFloat(float64(previous.NetCents)) * 100
		out.ChangePct = &pct
	}
	return out, nil
}

func (s *financeService) OutstandingInvoices(ctx context.Context, limit int) (*OutstandingInvoices, error) {
	today := s.today()

	invoices, err := s.finance.ListOutstandingInvoices(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing outstanding invoices: %w", err)
	}
	summary, err := s.finance.SummariseOutstanding(ctx, format.StartOfDay(today, s.loc))
	if err != nil {
		return nil, fmt.Errorf("summarising outstanding invoices: %w", err)
	}

	for i := range invoices {
		invoices[i].DaysOverdue = DaysOverdue(invoices[i].DueOn, today)
	}
	sort.SliceStable(invoices, func(i, j int) bool {
		return invoices[i].DaysOverdue > invoices[j].DaysOverdue
	})

	return &OutstandingInvoices{Summary: *summary, Invoices: invoices}, nil
}

func (s *financeService) SpendByCategory(ctx context.Context, from, to time.Time, limit int) ([]model.CategoryTotal, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("%w: range end must be after start", ErrInvalidInput)
	}
	return s.finance.SpendByCategory(ctx, from, to, limit)
}

func (s *financeService) ProjectFinances(ctx context.Context, projectCode string) (*ProjectFinances, error) {
	project, err := s.projects.GetByCode(ctx, projectCode)
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", projectCode, err)
	}

	totals, err := s.finance.ProjectTotals(ctx, project.Code)
	if err != nil {
		return nil, fmt.Errorf("totalling project %s: %w", project.Code, err)
	}
	recent, err := s.finance.ListTransactions(ctx, time.Time{}, s.now().Add(24*time.Hour), &project.Code, 10)
	if err != nil {
		return nil, fmt.Errorf("listing project transactions: %w", err)
	}

	return rollupProject(project, totals, recent), nil
}

func rollupProject(project *model.Project, totals []model.TypeTotal, recent []model.Transaction) *ProjectFinances {
	out := &ProjectFinances{
		ProjectCode:  project.Code,
		BudgetCents:  project.BudgetCents,
		Transactions: recent,
	}
	if out.Transactions == nil {
		out.Transactions = []model.Transaction{}
	}
	for _, t := range totals {
		switch t.Type {
		case model.TransactionReceive:
			out.IncomeCents += t.TotalCents
		case model.TransactionSpend:
			out.SpendCents += t.TotalCents
		}
	}
	out.NetCents = out.IncomeCents - out.SpendCents
	if project.BudgetCents != nil && *project.BudgetCents > 0 {
		pct := int(out.SpendCents * 100 / *project.BudgetCents)
		out.BudgetUsedPct = &pct
	}
	return out
}

func (s *financeService) RecentTransactions(ctx context.Context, days int, projectCode *string, limit int) ([]model.Transaction, error) {
	if days <= 0 {
		days = 30
	}
	to := format.StartOfDay(s.today(), s.loc).AddDate(0, 0, 1)
	return s.finance.ListTransactions(ctx, to.AddDate(0, 0, -days), to, projectCode, limit)
}

func (s *financeService) Receipts(ctx context.Context, limit int) ([]model.Receipt, error) {
	return s.finance.ListReceipts(ctx, limit)
}

// BucketMonths folds per-type monthly totals into one bucket per month of
// [from, to), including months with no transactions.
func BucketMonths(totals []model.MonthTotal, from, to time.Time) []MonthBucket {
	index := map[string]int{}
	var buckets []MonthBucket
	for m := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location()); m.Before(to); m = m.AddDate(0, 1, 0) {
		key := m.Format("2006-01")
		index[key] = len(buckets)
		buckets = append(buckets, MonthBucket{Month: key})
	}

	for _, t := range totals {
		i, ok := index[t.Month.Format("2006-01")]
		if !ok {
			continue
		}
		switch t.Type {
		case model.TransactionReceive:
			buckets[i].IncomeCents += t.TotalCents
		case model.TransactionSpend:
			buckets[i].SpendCents += t.TotalCents
		}
	}
	for i := range buckets {
		buckets[i].NetCents = buckets[i].IncomeCents - buckets[i].SpendCents
	}
	if buckets == nil {
		buckets = []MonthBucket{}
	}
	return buckets
}

// DaysOverdue counts whole days since the due date, zero when not yet due.
// Due dates are calendar dates and are compared by their date components.
func DaysOverdue(due, today time.Time) int {
	y, m, d := due.Date()
	ty, tm, td := today.Date()
	days := int(time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC).Sub(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
