package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	SendOTP(ctx context.Context) error
	VerifyEmail(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	ChangePassword(ctx context.Context) error

	Dashboard(ctx context.Context) error
	Plans(ctx context.Context) error
	Plan(ctx context.Context, id string) error
	NewPlan(ctx context.Context) error
	Complete(ctx context.Context, id string) error

	Join(ctx context.Context, planID string) error
	Requests(ctx context.Context) error
	Respond(ctx context.Context, id, status string) error

	Matches(ctx context.Context) error
	Search(ctx context.Context, query string) error
	Reviews(ctx context.Context, userID string) error
	Review(ctx context.Context) error

	Subscribe(ctx context.Context, plan string) error
	VerifyPayment(ctx context.Context, sessionID string) error
}

const (
	helpGuest  = "Available commands: register, login, sendotp, verify, resetpw, exit"
	helpMember = "Available commands: me, dashboard, plans, plan <id>, newplan, complete <id>, " +
		"join <planId>, requests, respond <id> <accepted|rejected>, matches, search <text>, " +
		"reviews [userId], review, subscribe <monthly|yearly>, verify-payment <sessionId>, " +
		"sendotp, verify, changepw, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the travelmate CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command and dispatches to methods on 'a'. Commands that need an argument
// print their usage when it is missing. The loop exits on scanner EOF or
// when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers
// report their own errors.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("tm %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		// withArg runs fn with the first argument, or prints usage.
		withArg := func(usage string, fn func(string) error) {
			if len(args) == 0 {
				printlnFn("Usage:", usage)
				return
			}
			_ = fn(args[0])
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpMember)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "me", "profile":
			_ = a.Me(ctx)
		case "sendotp":
			_ = a.SendOTP(ctx)
		case "verify":
			_ = a.VerifyEmail(ctx)
		case "resetpw":
			_ = a.ResetPassword(ctx)
		case "changepw":
			_ = a.ChangePassword(ctx)

		case "dashboard":
			_ = a.Dashboard(ctx)
		case "plans":
			_ = a.Plans(ctx)
		case "plan":
			withArg("plan <id>", func(id string) error { return a.Plan(ctx, id) })
		case "newplan":
			_ = a.NewPlan(ctx)
		case "complete":
			withArg("complete <id>", func(id string) error { return a.Complete(ctx, id) })

		case "join":
			withArg("join <planId>", func(id string) error { return a.Join(ctx, id) })
		case "requests":
			_ = a.Requests(ctx)
		case "respond":
			if len(args) < 2 {
				printlnFn("Usage:", "respond <id> <accepted|rejected>")
				continue
			}
			_ = a.Respond(ctx, args[0], args[1])

		case "matches":
			_ = a.Matches(ctx)
		case "search":
			if len(args) == 0 {
				printlnFn("Usage:", "search <text>")
				continue
			}
			_ = a.Search(ctx, strings.Join(args, " "))
		case "reviews":
			userID := ""
			if len(args) > 0 {
				userID = args[0]
			}
			_ = a.Reviews(ctx, userID)
		case "review":
			_ = a.Review(ctx)

		case "subscribe":
			withArg("subscribe <monthly|yearly>", func(p string) error { return a.Subscribe(ctx, p) })
		case "verify-payment":
			withArg("verify-payment <sessionId>", func(id string) error { return a.VerifyPayment(ctx, id) })

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
