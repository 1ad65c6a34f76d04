package cli

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tiendita-app/tiendita/internal/models"
)

func (a *App) addInvoice(ctx context.Context) {
	clientName, err := GetSimpleText(a.reader, "Client name", a.out)
	if err != nil || clientName == "" {
		fmt.Fprintln(a.out, "Client name is required")
		return
	}

	var items []models.LineItem
	subtotal := decimal.Zero
	for {
		description, err := GetSimpleText(a.reader, "Line description (empty to finish)", a.out)
		if err != nil || description == "" {
			break
		}
		quantity, err := GetInt(a.reader, "Quantity", 1, a.out)
		if err != nil {
			return
		}
		unitPrice, err := GetAmount(a.reader, "Unit price", a.out)
		if err != nil {
			return
		}

		total := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
		items = append(items, models.LineItem{
			Description: description,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			Total:       total,
		})
		subtotal = subtotal.Add(total)
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "An invoice needs at least one line")
		return
	}

	tax, err := GetAmount(a.reader, "Tax", a.out)
	if err != nil {
		return
	}

	inv := models.Invoice{
		ClientName: clientName,
		Items:      items,
		Subtotal:   subtotal,
		Tax:        tax,
		Total:      subtotal.Add(tax),
	}
	id, err := a.entities.Invoices.Add(ctx, inv)
	if err != nil {
		fmt.Fprintln(a.out, "Failed to save invoice:", err.Error())
		return
	}
	fmt.Fprintf(a.out, "Saved invoice %s\n", id)
}

func (a *App) listInvoices(ctx context.Context) {
	invoices, err := a.entities.Invoices.List(ctx)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	if len(invoices) == 0 {
		fmt.Fprintln(a.out, "No invoices")
		return
	}
	for _, inv := range invoices {
		fmt.Fprintf(a.out, "%s  %-8s %-20s total=%s status=%s%s\n",
			inv.ID, inv.Value.Number, inv.Value.ClientName, inv.Value.Total, inv.Value.Status, syncMark(inv.Synced))
	}
}
