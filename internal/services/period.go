package services

import (
	"sort"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/store"
)

// Period is one calendar month.
type Period struct {
	Year  int
	Month time.Month
}

func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Year: p.Year + 1, Month: time.January}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

func (p Period) Prev() Period {
	if p.Month == time.January {
		return Period{Year: p.Year - 1, Month: time.December}
	}
	return Period{Year: p.Year, Month: p.Month - 1}
}

func (p Period) Start(loc *time.Location) time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, loc)
}

// Range is the half-open interval [start of month, start of next month).
func (p Period) Range(loc *time.Location) (time.Time, time.Time) {
	return p.Start(loc), p.Next().Start(loc)
}

func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// Calendar resolves "this month" in the application time zone.
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{Location: loc, Now: time.Now}
}

func (c Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c Calendar) PeriodOf(t time.Time) Period {
	local := t.In(c.loc())
	return Period{Year: local.Year(), Month: local.Month()}
}

func (c Calendar) Current() Period {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return c.PeriodOf(now())
}

// Previous is the month before the current one, wrapping January to
// December of the prior year.
func (c Calendar) Previous() Period {
	return c.Current().Prev()
}

// Trailing covers the n full months before the current one.
func (c Calendar) Trailing(n int) (time.Time, time.Time) {
	current := c.Current()
	first := current
	for i := 0; i < n; i++ {
		first = first.Prev()
	}
	return first.Start(c.loc()), current.Start(c.loc())
}

type MonthlyTotal struct {
	Year    int   `json:"year"`
	Month   int   `json:"month"`
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
}

// BinMonthly groups income and expense amounts by calendar month in
// chronological order. Months without either kind are left out; a month
// with only one kind reports zero for the other.
func (c Calendar) BinMonthly(amounts []store.DatedAmount) []MonthlyTotal {
	bins := make(map[Period]*MonthlyTotal)
	for _, a := range amounts {
		if a.Type != models.TypeIncome && a.Type != models.TypeExpense {
			continue
		}
		p := c.PeriodOf(a.CreatedAt)
		bin, ok := bins[p]
		if !ok {
			bin = &MonthlyTotal{Year: p.Year, Month: int(p.Month)}
			bins[p] = bin
		}
		if a.Type == models.TypeIncome {
			bin.Income += a.Amount
		} else {
			bin.Expense += a.Amount
		}
	}
	periods := make([]Period, 0, len(bins))
	for p := range bins {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	out := make([]MonthlyTotal, 0, len(periods))
	for _, p := range periods {
		out = append(out, *bins[p])
	}
	return out
}
