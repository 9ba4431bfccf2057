package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool
	staff    bool

	calls []string
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) isStaff() bool    { return f.staff }
func (f *fakeExec) Register(ctx context.Context) error {
	return f.record("register")
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) VerifyEmail(ctx context.Context) error    { return f.record("verify") }
func (f *fakeExec) GoogleLogin(ctx context.Context) error    { return f.record("google") }
func (f *fakeExec) ForgotPassword(ctx context.Context) error { return f.record("forgot") }
func (f *fakeExec) ResetPassword(ctx context.Context) error  { return f.record("reset") }
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Whoami(ctx context.Context) error        { return f.record("whoami") }
func (f *fakeExec) EditProfile(ctx context.Context) error   { return f.record("profile") }
func (f *fakeExec) List(ctx context.Context) error          { return f.record("list") }
func (f *fakeExec) Show(ctx context.Context) error          { return f.record("show") }
func (f *fakeExec) NewPost(ctx context.Context) error       { return f.record("new") }
func (f *fakeExec) SubmitPost(ctx context.Context) error    { return f.record("submit") }
func (f *fakeExec) Review(ctx context.Context) error        { return f.record("review") }
func (f *fakeExec) DeletePost(ctx context.Context) error    { return f.record("delete") }
func (f *fakeExec) Comment(ctx context.Context) error       { return f.record("comment") }
func (f *fakeExec) Like(ctx context.Context) error          { return f.record("like") }
func (f *fakeExec) Stats(ctx context.Context) error         { return f.record("stats") }
func (f *fakeExec) Notifications(ctx context.Context) error { return f.record("notifications") }
func (f *fakeExec) MarkRead(ctx context.Context) error      { return f.record("read") }

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"new",
		"list",
		"show",
		"like",
		"n",
		"stats",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "new", "list", "show", "like", "notifications", "stats"}
	if len(exec.calls) < len(wantOrder) {
		t.Fatalf("few calls: %+v", exec.calls)
	}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
}

func TestRunREPL_BlankLinesAndQuit(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("\n   \nquit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}

func TestRunREPL_ExitsOnEOF(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("list\n")
	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "" }, sc)

	if len(exec.calls) != 1 || exec.calls[0] != "list" {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
