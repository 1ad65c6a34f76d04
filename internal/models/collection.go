// Package models defines the business record types, the generic record
// envelope stored in local collections, and the change-queue entry shape.
package models

import "fmt"

// Collection identifies one local entity collection. Queue entries carry
// the table name on the wire; CollectionByTable maps it back so dispatch
// stays exhaustive instead of stringly-typed.
type Collection int

const (
	CollectionInventory Collection = iota
	CollectionExpenses
	CollectionSuppliers
	CollectionBudgets
	CollectionSpecialOrders
	CollectionClients
	CollectionInvoices
	CollectionReceipts
)

var collectionTables = map[Collection]string{
	CollectionInventory:     "inventory",
	CollectionExpenses:      "expenses",
	CollectionSuppliers:     "suppliers",
	CollectionBudgets:       "budgets",
	CollectionSpecialOrders: "special_orders",
	CollectionClients:       "clients",
	CollectionInvoices:      "invoices",
	CollectionReceipts:      "receipts",
}

// Table returns the local table name, which is also the remote collection
// name. Panics on a value outside the enum: table names flow into SQL, so
// a missed case must fail loudly, not produce a query.
func (c Collection) Table() string {
	name, ok := collectionTables[c]
	if !ok {
		panic(fmt.Sprintf("unknown collection %d", int(c)))
	}
	return name
}

func (c Collection) String() string { return c.Table() }

// Collections returns every known collection in a stable order. The sync
// manager iterates this list during the pull phase.
func Collections() []Collection {
	return []Collection{
		CollectionInventory,
		CollectionExpenses,
		CollectionSuppliers,
		CollectionBudgets,
		CollectionSpecialOrders,
		CollectionClients,
		CollectionInvoices,
		CollectionReceipts,
	}
}

// CollectionByTable resolves a table name taken from a queue entry.
func CollectionByTable(name string) (Collection, error) {
	for c, table := range collectionTables {
		if table == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown collection table %q", name)
}
