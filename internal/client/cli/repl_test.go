package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	code  string
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Confirm(ctx context.Context, code string) error {
	f.calls = append(f.calls, "confirm")
	f.code = code
	return nil
}
func (f *fakeExec) Resend(ctx context.Context) error {
	f.calls = append(f.calls, "resend")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Me(ctx context.Context) error     { f.calls = append(f.calls, "me"); return nil }
func (f *fakeExec) List(ctx context.Context) error   { f.calls = append(f.calls, "list"); return nil }
func (f *fakeExec) Export(ctx context.Context) error { f.calls = append(f.calls, "export"); return nil }
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}

func silence(t *testing.T) *[]string {
	t.Helper()
	var printed []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			if s, ok := v.(string); ok {
				parts = append(parts, s)
			}
		}
		printed = append(printed, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &printed
}

func TestRunREPL_Dispatch(t *testing.T) {
	printed := silence(t)

	input := strings.Join([]string{
		"help",
		"register",
		"confirm abc-123",
		"resend",
		"",
		"login",
		"help",
		"me",
		"l",
		"export",
		"logout",
		"foobar",
		"exit",
		"register",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr(input))

	assert.Equal(t, []string{"register", "confirm", "resend", "login", "me", "list", "export", "logout"}, exec.calls)
	assert.Equal(t, "abc-123", exec.code)
	assert.Contains(t, *printed, "Unknown command: foobar")
	assert.Contains(t, *printed, "Bye!")
	assert.Contains(t, *printed, "Available commands: me, (l)ist, export, logout, exit")
}

func TestRunREPL_ConfirmWithoutArg(t *testing.T) {
	silence(t)

	exec := &fakeExec{code: "preset"}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("confirm\nquit\n"))

	assert.Equal(t, []string{"confirm"}, exec.calls)
	assert.Empty(t, exec.code)
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	silence(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("login"))

	assert.Equal(t, []string{"login"}, exec.calls)
}
