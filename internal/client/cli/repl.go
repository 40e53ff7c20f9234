package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(args ...any) { fmt.Println(args...) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	SetupMFA(ctx context.Context) error
	DisableMFA(ctx context.Context) error
	Totp(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	List(ctx context.Context) error
	Download(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Share(ctx context.Context, id string) error
	MyShares(ctx context.Context) error
	SharedWithMe(ctx context.Context) error
	AllShares(ctx context.Context) error
	RevokeShare(ctx context.Context, id string) error
	Users(ctx context.Context) error
	SetRole(ctx context.Context, id, role string) error
}

// runREPL starts a simple read–eval–print loop for the SafeShare CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help                — show available commands
//	  - register            — create an account
//	  - login               — authenticate (prompts for the MFA code when required)
//	  - totp                — print the current code from the local authenticator
//	  - exit | quit         — leave the program
//
//	Logged in:
//	  - help                — show available commands
//	  - upload <path>       — encrypt and upload a file
//	  - list                — list own files
//	  - download <id>       — download and decrypt a file
//	  - delete <id>         — delete a file
//	  - share <id>          — share a file (interactive prompts)
//	  - shares              — list own outgoing shares
//	  - shared              — list files shared with me
//	  - all-shares          — admin: list every share on the backend
//	  - revoke-share <id>   — admin: revoke sharing of a file
//	  - users               — admin: list every account
//	  - set-role <id> <role> — admin: change a user's role
//	  - setup-mfa           — provision a TOTP secret and enable MFA
//	  - disable-mfa         — turn MFA off for the account
//	  - whoami              — show the current profile
//	  - logout              — log out
//	  - exit | quit         — leave the program
//
// Errors returned by command handlers are printed and swallowed here. This
// keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	report := func(err error) {
		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}

	for {
		printlnFn(fmt.Sprintf("safeshare %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		needsArg := func() string {
			if len(args) == 0 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				return ""
			}
			return args[0]
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: upload, (l)ist, download, delete, share, shares, shared, all-shares, revoke-share, users, set-role, setup-mfa, disable-mfa, totp, whoami, logout, exit")
			} else {
				printlnFn("Available commands: register, login, totp, exit")
			}

		case "register":
			report(a.Register(ctx))

		case "login":
			report(a.Login(ctx))

		case "logout":
			report(a.Logout(ctx))

		case "setup-mfa":
			report(a.SetupMFA(ctx))

		case "disable-mfa":
			report(a.DisableMFA(ctx))

		case "totp":
			report(a.Totp(ctx))

		case "whoami":
			report(a.WhoAmI(ctx))

		case "upload":
			if len(args) == 0 {
				printlnFn("Usage: upload <path>")
				continue
			}
			report(a.Upload(ctx, args[0]))

		case "l", "list":
			report(a.List(ctx))

		case "download":
			if id := needsArg(); id != "" {
				report(a.Download(ctx, id))
			}

		case "delete":
			if id := needsArg(); id != "" {
				report(a.Delete(ctx, id))
			}

		case "share":
			if id := needsArg(); id != "" {
				report(a.Share(ctx, id))
			}

		case "shares":
			report(a.MyShares(ctx))

		case "shared":
			report(a.SharedWithMe(ctx))

		case "all-shares":
			report(a.AllShares(ctx))

		case "revoke-share":
			if id := needsArg(); id != "" {
				report(a.RevokeShare(ctx, id))
			}

		case "users":
			report(a.Users(ctx))

		case "set-role":
			if len(args) < 2 {
				printlnFn("Usage: set-role <id> <role>")
				continue
			}
			report(a.SetRole(ctx, args[0], args[1]))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
