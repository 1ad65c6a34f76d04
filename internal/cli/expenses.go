package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/tiendita-app/tiendita/internal/models"
)

func (a *App) addExpense(ctx context.Context) {
	description, err := GetSimpleText(a.reader, "Description", a.out)
	if err != nil || description == "" {
		fmt.Fprintln(a.out, "Description is required")
		return
	}
	category, _ := GetSimpleText(a.reader, "Category", a.out)
	amount, err := GetAmount(a.reader, "Amount", a.out)
	if err != nil {
		return
	}
	date, _ := GetSimpleText(a.reader, "Date (YYYY-MM-DD, empty for today)", a.out)
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	exp := models.Expense{Description: description, Category: category, Amount: amount, Date: date}
	id, err := a.entities.Expenses.Add(ctx, exp)
	if err != nil {
		fmt.Fprintln(a.out, "Failed to save expense:", err.Error())
		return
	}
	fmt.Fprintf(a.out, "Saved expense %s\n", id)
}

func (a *App) listExpenses(ctx context.Context) {
	expenses, err := a.entities.Expenses.List(ctx)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	if len(expenses) == 0 {
		fmt.Fprintln(a.out, "No expenses")
		return
	}

	for _, e := range expenses {
		fmt.Fprintf(a.out, "%s  %s  %-20s %-12s %s%s\n",
			e.ID, e.Value.Date, e.Value.Description, e.Value.Category, e.Value.Amount, syncMark(e.Synced))
	}

	totals, err := a.entities.Expenses.TotalsByCategory(ctx)
	if err != nil {
		return
	}
	fmt.Fprintln(a.out, "Totals by category:")
	for category, total := range totals {
		fmt.Fprintf(a.out, "  %-12s %s\n", category, total)
	}
}
