package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

var errNotLoggedIn = errors.New("not logged in, use 'login' first")

func (a *App) fail(err error) error {
	fmt.Fprintf(a.out, "error: %v\n", err)
	return err
}

func (a *App) printAccount(acc *api.Account) {
	state := "verified"
	if !acc.Enabled {
		state = "pending verification"
		if acc.VerificationExpiresAt != nil {
			state += ", code expires " + acc.VerificationExpiresAt.Local().Format(time.RFC3339)
		}
	}
	fmt.Fprintf(a.out, "#%d %s <%s> %s\n", acc.ID, acc.UserName, acc.Email, state)
}

func (a *App) Register(ctx context.Context) error {

	userName, err := GetSimpleText(a.reader, "Enter user name", a.out)
	if err != nil {
		return a.fail(err)
	}

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return a.fail(err)
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return a.fail(err)
	}
	defer common.WipeByteArray(password)

	acc, err := a.client.Register(ctx, userName, email, string(password))
	if err != nil {
		return a.fail(err)
	}

	a.printAccount(acc)
	fmt.Fprintln(a.out, "Registered. Check your email for the verification code, then run 'confirm'.")
	return nil
}

func (a *App) Confirm(ctx context.Context, code string) error {

	if code == "" {
		var err error
		code, err = GetSimpleText(a.reader, "Enter verification code", a.out)
		if err != nil {
			return a.fail(err)
		}
	}

	acc, err := a.client.Confirm(ctx, code)
	if err != nil {
		switch {
		case errors.Is(err, client.ErrCodeExpired):
			fmt.Fprintln(a.out, "The code has expired; use 'resend' to get a new one.")
		case errors.Is(err, client.ErrAlreadyVerified):
			fmt.Fprintln(a.out, "The account is already verified; use 'login'.")
		}
		return a.fail(err)
	}

	a.printAccount(acc)
	return nil
}

func (a *App) Resend(ctx context.Context) error {

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return a.fail(err)
	}

	resp, err := a.client.ResendVerification(ctx, email)
	if err != nil {
		return a.fail(err)
	}

	fmt.Fprintf(a.out, "If %s is awaiting verification, a new code was sent, valid until %s\n",
		email, resp.ExpiresAt.Local().Format(time.RFC3339))
	return nil
}

func (a *App) Login(ctx context.Context) error {

	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return a.fail(err)
	}

	password, err := GetPassword(a.out)
	if err != nil {
		return a.fail(err)
	}
	defer common.WipeByteArray(password)

	resp, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		if errors.Is(err, client.ErrNotVerified) {
			fmt.Fprintln(a.out, "Verify your email first ('confirm').")
		}
		return a.fail(err)
	}

	a.email = email
	fmt.Fprintf(a.out, "Login successful, session valid for %s\n", time.Duration(resp.ExpiresIn)*time.Second)
	return nil
}

func (a *App) Me(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.fail(errNotLoggedIn)
	}

	acc, err := a.client.Me(ctx)
	if err != nil {
		return a.fail(err)
	}

	a.printAccount(acc)
	return nil
}

func (a *App) List(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.fail(errNotLoggedIn)
	}

	accounts, err := a.client.ListAccounts(ctx)
	if err != nil {
		return a.fail(err)
	}

	for i := range accounts {
		a.printAccount(&accounts[i])
	}
	fmt.Fprintf(a.out, "%d account(s)\n", len(accounts))
	return nil
}

func (a *App) Export(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.fail(errNotLoggedIn)
	}

	key, err := a.client.ExportAccounts(ctx)
	if err != nil {
		return a.fail(err)
	}

	fmt.Fprintf(a.out, "Snapshot stored as %s\n", key)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.client.Logout()
	a.email = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
