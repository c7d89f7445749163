package cli

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"budget/internal/core"
	apphttp "budget/internal/http"
	"budget/internal/services"
)

// SeedCategories are the sample categories created by Seed.
var SeedCategories = []string{
	"Jedzenie", "Transport", "Rozrywka", "Zdrowie",
	"Mieszkanie", "Edukacja", "Premia", "Inne",
}

type seedEntry struct {
	day         int
	category    string
	typ         core.TransactionType
	description string
	lo, hi      float64
}

// monthlyEntries repeat every month.
var monthlyEntries = []seedEntry{
	{25, "Inne", core.Income, "Wynagrodzenie miesięczne", 4500, 5500},
	{1, "Mieszkanie", core.Expense, "Czynsz", 1800, 2200},
	{15, "Mieszkanie", core.Expense, "Opłaty: prąd, gaz, woda", 300, 500},
	{10, "Mieszkanie", core.Expense, "Internet i telefon", 80, 120},
	{5, "Transport", core.Expense, "Bilet miesięczny", 100, 150},
	{3, "Jedzenie", core.Expense, "Zakupy spożywcze", 150, 300},
	{12, "Jedzenie", core.Expense, "Zakupy spożywcze", 150, 300},
	{20, "Jedzenie", core.Expense, "Zakupy spożywcze", 150, 300},
	{18, "Rozrywka", core.Expense, "Kino i restauracja", 60, 250},
}

// SeedResult counts what Seed created.
type SeedResult struct {
	Categories   int
	Transactions int
}

// Seed fills the store with sample categories and months of transactions
// ending today. Existing categories with a sample name are reused. Amounts
// are drawn from seed so runs are reproducible.
func Seed(ctx context.Context, svc apphttp.Services, today core.Date, months int, seed uint64) (SeedResult, error) {
	var res SeedResult
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	existing, err := svc.Categories.List(ctx)
	if err != nil {
		return res, err
	}
	ids := make(map[string]string, len(existing))
	for _, c := range existing {
		ids[c.Name] = c.ID
	}
	for _, name := range SeedCategories {
		if _, ok := ids[name]; ok {
			continue
		}
		c, err := svc.Categories.Create(ctx, name)
		if err != nil {
			return res, fmt.Errorf("seed category %s: %w", name, err)
		}
		ids[name] = c.ID
		res.Categories++
	}

	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	for offset := months - 1; offset >= 0; offset-- {
		month := first.AddDate(0, -offset, 0)
		for _, e := range monthlyEntries {
			date := core.NewDate(month.Year(), int(month.Month()), e.day)
			if date.After(today.Time) {
				continue
			}
			id := ids[e.category]
			if _, err := svc.Transactions.Create(ctx, services.TransactionInput{
				Amount:      randomAmount(rng, e.lo, e.hi),
				Type:        e.typ,
				Date:        date,
				Description: e.description,
				CategoryID:  &id,
			}); err != nil {
				return res, fmt.Errorf("seed transaction %s %s: %w", date, e.description, err)
			}
			res.Transactions++
		}

		// one yearly bonus each December
		if month.Month() == time.December {
			date := core.NewDate(month.Year(), 12, 20)
			if !date.After(today.Time) {
				id := ids["Premia"]
				if _, err := svc.Transactions.Create(ctx, services.TransactionInput{
					Amount:      randomAmount(rng, 2000, 4000),
					Type:        core.Income,
					Date:        date,
					Description: "Premia roczna",
					CategoryID:  &id,
				}); err != nil {
					return res, fmt.Errorf("seed bonus %s: %w", date, err)
				}
				res.Transactions++
			}
		}
	}
	return res, nil
}

func randomAmount(rng *rand.Rand, lo, hi float64) decimal.Decimal {
	return decimal.NewFromFloat(lo + rng.Float64()*(hi-lo)).Round(2)
}
