package agent

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/llm"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/approval"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/service"
)

type FinancialSummaryParams struct {
	Period string `json:"period,omitempty" jsonschema:"enum=month,enum=quarter,enum=fy,description=Reporting period containing today (default month)"`
}

type QuarterSummaryParams struct {
	Offset int `json:"offset,omitempty" jsonschema:"description=0 for the current financial quarter and -1 for the previous one"`
}

type LimitParams struct {
	Limit int `json:"limit,omitempty" jsonschema:"description=Maximum rows to return"`
}

type SpendByCategoryParams struct {
	Period string `json:"period,omitempty" jsonschema:"enum=month,enum=quarter,enum=fy,description=Named period (ignored when from and to are set)"`
	From   string `json:"from,omitempty" jsonschema:"description=First day YYYY-MM-DD"`
	To     string `json:"to,omitempty" jsonschema:"description=Last day YYYY-MM-DD (inclusive)"`
	Limit  int    `json:"limit,omitempty" jsonschema:"description=Maximum categories (default 10)"`
}

type ProjectFinanceParams struct {
	ProjectCode string `json:"project_code" jsonschema:"required,description=Project code such as ACT-GD"`
}

type RecentTransactionsParams struct {
	Days        int    `json:"days,omitempty" jsonschema:"description=Look back this many days (default 30)"`
	ProjectCode string `json:"project_code,omitempty" jsonschema:"description=Only transactions tagged to this project"`
	Limit       int    `json:"limit,omitempty" jsonschema:"description=Maximum transactions (default 25)"`
}

type LogReceiptParams struct {
	Vendor      string  `json:"vendor" jsonschema:"required,description=Who was paid"`
	Amount      float64 `json:"amount" jsonschema:"required,description=Amount in dollars including GST"`
	SpentOn     string  `json:"spent_on,omitempty" jsonschema:"description=Purchase date YYYY-MM-DD (default today)"`
	Category    string  `json:"category,omitempty" jsonschema:"description=Expense category"`
	ProjectCode string  `json:"project_code,omitempty" jsonschema:"description=Project to charge"`
	Note        string  `json:"note,omitempty" jsonschema:"description=Free text note"`
}

func (t *toolset) registerFinance(r *Registry) {
	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "get_financial_summary",
			Description: "Income and spend totals for the current month, financial quarter or financial year (July to June) with a month-by-month breakdown and top spend categories. Amounts are in cents.",
			Parameters:  llm.GenerateSchemaFrom(FinancialSummaryParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p FinancialSummaryParams) (any, error) {
			return t.Finance.Summary(ctx, p.Period)
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "get_quarter_summary",
			Description: "A financial quarter (e.g. FY26 Q2) compared with the quarter before it.",
			Parameters:  llm.GenerateSchemaFrom(QuarterSummaryParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p QuarterSummaryParams) (any, error) {
			return t.Finance.QuarterSummary(ctx, p.Offset)
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "list_outstanding_invoices",
			Description: "Unpaid invoices with amount due and days overdue, plus totals.",
			Parameters:  llm.GenerateSchemaFrom(LimitParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p LimitParams) (any, error) {
			return t.Finance.OutstandingInvoices(ctx, defaultInt(p.Limit, 20))
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "get_spend_by_category",
			Description: "Spend grouped by category for a period or date range.",
			Parameters:  llm.GenerateSchemaFrom(SpendByCategoryParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p SpendByCategoryParams) (any, error) {
			from, to, err := t.spendRange(p)
			if err != nil {
				return nil, err
			}
			return t.Finance.SpendByCategory(ctx, from, to, defaultInt(p.Limit, 10))
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "get_project_finances",
			Description: "Income and spend for one project against its budget with recent transactions.",
			Parameters:  llm.GenerateSchemaFrom(ProjectFinanceParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p ProjectFinanceParams) (any, error) {
			return t.Finance.ProjectFinances(ctx, p.ProjectCode)
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "list_recent_transactions",
			Description: "Recent bank transactions from the accounting system, newest first.",
			Parameters:  llm.GenerateSchemaFrom(RecentTransactionsParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p RecentTransactionsParams) (any, error) {
			return t.Finance.RecentTransactions(ctx, p.Days, optional(p.ProjectCode), defaultInt(p.Limit, 25))
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "list_receipts",
			Description: "Receipts logged through the assistant, newest first.",
			Parameters:  llm.GenerateSchemaFrom(LimitParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p LimitParams) (any, error) {
			return t.Finance.Receipts(ctx, defaultInt(p.Limit, 20))
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "log_receipt",
			Description: "Log a receipt against the books. Needs the user's confirmation before it is saved.",
			Parameters:  llm.GenerateSchemaFrom(LogReceiptParams{}),
		},
		Kind:                 ToolWrite,
		RequiresConfirmation: true,
		Handler: Typed(func(ctx context.Context, p LogReceiptParams) (any, error) {
			spentOn := p.SpentOn
			if spentOn == "" {
				spentOn = t.Now().In(t.Location).Format(time.DateOnly)
			}
			return t.stage(ctx, model.ActionLogReceipt, approval.ReceiptPayload{
				Vendor:      p.Vendor,
				AmountCents: int64(math.Round(p.Amount * 100)),
				SpentOn:     spentOn,
				Category:    optional(p.Category),
				ProjectCode: optional(p.ProjectCode),
				Note:        optional(p.Note),
			})
		}),
	})
}

func (t *toolset) spendRange(p SpendByCategoryParams) (time.Time, time.Time, error) {
	if p.From != "" || p.To != "" {
		if p.From == "" || p.To == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("from and to must be given together")
		}
		now := t.Now()
		from, err := parseDate(p.From, now, t.Location)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to, err := parseDate(p.To, now, t.Location)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return from, to.AddDate(0, 0, 1), nil
	}
	r, err := service.PeriodRange(p.Period, t.Now().In(t.Location))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return r.From, r.To, nil
}
