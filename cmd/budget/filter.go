package main

import (
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"budget/internal/core"
	apphttp "budget/internal/http"
)

// filterFlags mirror the API's filter query parameters.
type filterFlags struct {
	from, to, typ, category, period string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "last date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.typ, "type", "", "INCOME, EXPENSE or ALL")
	cmd.Flags().StringVar(&f.category, "category", "", "category id or ALL")
	cmd.Flags().StringVar(&f.period, "period", "", "current-month, previous-month, last-3-months, last-6-months, last-12-months or custom")
}

func (f *filterFlags) filter() (core.Filter, error) {
	q := url.Values{}
	for key, value := range map[string]string{
		"dateFrom":   f.from,
		"dateTo":     f.to,
		"type":       f.typ,
		"categoryId": f.category,
		"period":     f.period,
	} {
		if value != "" {
			q.Set(key, value)
		}
	}
	return apphttp.ParseFilter(q, core.DateOf(time.Now()))
}
