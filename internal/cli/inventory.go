package cli

import (
	"context"
	"fmt"

	"github.com/tiendita-app/tiendita/internal/models"
)

func (a *App) addItem(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Name", a.out)
	if err != nil || name == "" {
		fmt.Fprintln(a.out, "Name is required")
		return
	}
	category, _ := GetSimpleText(a.reader, "Category", a.out)
	quantity, err := GetInt(a.reader, "Quantity", 0, a.out)
	if err != nil {
		return
	}
	minStock, err := GetInt(a.reader, "Minimum stock", 0, a.out)
	if err != nil {
		return
	}
	price, err := GetAmount(a.reader, "Price", a.out)
	if err != nil {
		return
	}

	item := models.InventoryItem{
		Name:     name,
		Category: category,
		Quantity: quantity,
		MinStock: minStock,
		Price:    price,
	}
	id, err := a.entities.Inventory.Add(ctx, item)
	if err != nil {
		fmt.Fprintln(a.out, "Failed to save item:", err.Error())
		return
	}
	fmt.Fprintf(a.out, "Saved item %s\n", id)
}

func (a *App) listItems(ctx context.Context) {
	items, err := a.entities.Inventory.List(ctx)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No items")
		return
	}

	for _, it := range items {
		marker := ""
		if it.Value.Quantity <= it.Value.MinStock {
			marker = " LOW"
		}
		fmt.Fprintf(a.out, "%s  %-20s qty=%d price=%s%s%s\n",
			it.ID, it.Value.Name, it.Value.Quantity, it.Value.Price, syncMark(it.Synced), marker)
	}
}

// syncMark flags records not yet confirmed on the server.
func syncMark(synced bool) string {
	if synced {
		return ""
	}
	return " *"
}
