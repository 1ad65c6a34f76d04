package cli

import (
	"context"
	"fmt"
)

func (a *App) login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}
	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return
	}

	token, err := a.backend.Login(ctx, email, string(password))
	if err != nil {
		fmt.Fprintln(a.out, "Login failed:", err.Error())
		return
	}
	if err := a.session.SetToken(token); err != nil {
		fmt.Fprintln(a.out, "Login failed:", err.Error())
		return
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", a.session.UserID())
}

func (a *App) logout() {
	a.session.Clear()
	fmt.Fprintln(a.out, "Logged out")
}
