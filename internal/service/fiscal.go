package service

import (
	"fmt"
	"strings"
	"time"
)

// Quarter is a quarter of the Australian financial year, which runs July to
// June and is named after the calendar year it ends in: FY26 Q1 is
// July to September 2025.
type Quarter struct {
	FY int
	Q  int
}

// QuarterFor returns the financial quarter containing t, in t's location.
func QuarterFor(t time.Time) Quarter {
	month := int(t.Month())
	fy := t.Year()
	if month >= 7 {
		fy++
	}
	// July is month 1 of the financial year.
	fiscalMonth := (month+5)%12 + 1
	return Quarter{FY: fy, Q: (fiscalMonth-1)/3 + 1}
}

func (q Quarter) Next() Quarter {
	if q.Q == 4 {
		return Quarter{FY: q.FY + 1, Q: 1}
	}
	return Quarter{FY: q.FY, Q: q.Q + 1}
}

func (q Quarter) Previous() Quarter {
	if q.Q == 1 {
		return Quarter{FY: q.FY - 1, Q: 4}
	}
	return Quarter{FY: q.FY, Q: q.Q - 1}
}

// Offset moves n quarters forward, or backward for negative n.
func (q Quarter) Offset(n int) Quarter {
	idx := q.FY*4 + (q.Q - 1) + n
	return Quarter{FY: idx / 4, Q: idx%4 + 1}
}

// Start is midnight on the first day of the quarter.
func (q Quarter) Start(loc *time.Location) time.Time {
	month := time.Month((q.Q-1)*3 + 7)
	year := q.FY - 1
	if month > 12 {
		month -= 12
		year++
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, loc)
}

// End is the exclusive end of the quarter.
func (q Quarter) End(loc *time.Location) time.Time {
	return q.Next().Start(loc)
}

// Label renders the quarter as "FY26 Q2".
func (q Quarter) Label() string {
	return fmt.Sprintf("FY%02d Q%d", q.FY%100, q.Q)
}

func (q Quarter) String() string {
	return q.Label()
}

// FinancialYearStart returns 1 July of the financial year containing t.
func FinancialYearStart(t time.Time) time.Time {
	year := t.Year()
	if t.Month() < time.July {
		year--
	}
	return time.Date(year, time.July, 1, 0, 0, 0, 0, t.Location())
}

type Period string

const (
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodFY      Period = "fy"
)

// DateRange is a half open [From, To) interval with a display label.
type DateRange struct {
	Label string    `json:"label"`
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
}

// PeriodRange resolves a named reporting period to the range containing now.
// An empty period means the current month.
func PeriodRange(period string, now time.Time) (DateRange, error) {
	switch Period(strings.ToLower(strings.TrimSpace(period))) {
	case "", PeriodMonth:
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return DateRange{Label: from.Format("January 2006"), From: from, To: from.AddDate(0, 1, 0)}, nil
	case PeriodQuarter:
		q := QuarterFor(now)
		return DateRange{Label: q.Label(), From: q.Start(now.Location()), To: q.End(now.Location())}, nil
	case PeriodFY:
		from := FinancialYearStart(now)
		return DateRange{
			Label: fmt.Sprintf("FY%02d", (from.Year()+1)%100),
			From:  from,
			To:    from.AddDate(1, 0, 0),
		}, nil
	default:
		return DateRange{}, fmt.Errorf("%w: unknown period %q", ErrInvalidInput, period)
	}
}
