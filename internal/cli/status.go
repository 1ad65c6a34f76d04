package cli

import (
	"context"
	"fmt"
)

func (a *App) status(ctx context.Context) {
	st := a.syncer.Status(ctx)

	mode := "offline"
	if st.Online {
		mode = "online"
	}
	fmt.Fprintf(a.out, "Mode:            %s\n", mode)
	fmt.Fprintf(a.out, "Syncing:         %t\n", st.Syncing)
	fmt.Fprintf(a.out, "Pending changes: %d\n", st.PendingChanges)
	if st.LastSync.IsZero() {
		fmt.Fprintln(a.out, "Last sync:       never")
	} else {
		fmt.Fprintf(a.out, "Last sync:       %s\n", st.LastSync.Local().Format("2006-01-02 15:04:05"))
	}
}

func (a *App) sync(ctx context.Context) {
	if err := a.syncer.SyncNow(ctx); err != nil {
		fmt.Fprintln(a.out, "Sync failed:", err.Error())
		return
	}
	fmt.Fprintln(a.out, "Sync finished")
}
