package cli

import (
	"context"
	"fmt"

	"github.com/tiendita-app/tiendita/internal/models"
)

func (a *App) addClient(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Name", a.out)
	if err != nil || name == "" {
		fmt.Fprintln(a.out, "Name is required")
		return
	}
	phone, _ := GetSimpleText(a.reader, "Phone", a.out)
	email, _ := GetSimpleText(a.reader, "Email", a.out)

	id, err := a.entities.Clients.Add(ctx, models.Client{Name: name, Phone: phone, Email: email})
	if err != nil {
		fmt.Fprintln(a.out, "Failed to save client:", err.Error())
		return
	}
	fmt.Fprintf(a.out, "Saved client %s\n", id)
}

func (a *App) listClients(ctx context.Context) {
	clients, err := a.entities.Clients.List(ctx)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	if len(clients) == 0 {
		fmt.Fprintln(a.out, "No clients")
		return
	}
	for _, c := range clients {
		fmt.Fprintf(a.out, "%s  %-20s %-15s %s%s\n",
			c.ID, c.Value.Name, c.Value.Phone, c.Value.Email, syncMark(c.Synced))
	}
}
