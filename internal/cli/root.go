package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) prompt(ctx context.Context) string {
	st := a.syncer.Status(ctx)
	mode := "offline"
	if st.Online {
		mode = "online"
	}
	who := ""
	if a.session.LoggedIn() {
		who = a.session.UserID() + " "
	}
	return fmt.Sprintf("tiendita (%s%s)> ", who, mode)
}

// Root runs the command loop until exit or EOF. Command lines are read
// from the same buffered reader the prompts use, so a command and the
// input it asks for interleave on one stream.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to the tiendita CLI (type 'help' for commands)")

	for {
		fmt.Fprint(a.out, a.prompt(ctx))
		line, err := a.reader.ReadString('\n')

		if parts := strings.Fields(line); len(parts) > 0 {
			if done := a.dispatch(ctx, parts[0]); done {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// dispatch runs one command; returns true when the loop should stop.
func (a *App) dispatch(ctx context.Context, cmd string) bool {
	switch cmd {
	case "help":
		a.help()
	case "login":
		a.login(ctx)
	case "logout":
		a.logout()
	case "status":
		a.status(ctx)
	case "sync":
		a.sync(ctx)
	case "additem":
		a.addItem(ctx)
	case "items":
		a.listItems(ctx)
	case "addexpense":
		a.addExpense(ctx)
	case "expenses":
		a.listExpenses(ctx)
	case "addclient":
		a.addClient(ctx)
	case "clients":
		a.listClients(ctx)
	case "addinvoice":
		a.addInvoice(ctx)
	case "invoices":
		a.listInvoices(ctx)
	case "exit", "quit":
		fmt.Fprintln(a.out, "Bye!")
		return true
	default:
		fmt.Fprintln(a.out, "Unknown command:", cmd)
	}
	return false
}

func (a *App) help() {
	fmt.Fprintln(a.out, "Available commands:")
	fmt.Fprintln(a.out, "  login, logout, status, sync")
	fmt.Fprintln(a.out, "  additem, items, addexpense, expenses")
	fmt.Fprintln(a.out, "  addclient, clients, addinvoice, invoices")
	fmt.Fprintln(a.out, "  exit")
}
