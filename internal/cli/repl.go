package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	touch()
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Countries(ctx context.Context, term string) error
	Country(ctx context.Context, code string) error
	Weather(ctx context.Context, city string) error
	Creatures(ctx context.Context, page int) error
	Creature(ctx context.Context, name string) error
	Users(ctx context.Context) error
	Admin(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the AtlasInfo CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit". Every entered command is reported to the inactivity
// watchdog via touch.
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help             — show available commands
//	  - register         — create an account
//	  - login            — authenticate
//	  - exit | quit      — leave the program
//
//	Logged in:
//	  - help             — show available commands
//	  - whoami           — show the current session
//	  - countries [term] — list or search countries
//	  - country CODE     — show one country by its alpha code
//	  - weather CITY     — current weather for a city
//	  - creatures [page] — list creatures, one page at a time
//	  - creature NAME    — show one creature
//	  - users            — list user accounts (admin)
//	  - admin            — open the user-management panel (admin)
//	  - logout           — log out
//	  - exit | quit      — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("atlas> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		a.touch()

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				s := "Available commands: whoami, countries [term], country CODE, weather CITY, creatures [page], creature NAME, logout, exit"
				if a.isAdmin() {
					s += ", users, admin"
				}
				printlnFn(s)
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "countries":
			_ = a.Countries(ctx, strings.Join(args, " "))

		case "country":
			if len(args) == 0 {
				printlnFn("Usage: country CODE")
				continue
			}
			_ = a.Country(ctx, args[0])

		case "weather":
			if len(args) == 0 {
				printlnFn("Usage: weather CITY")
				continue
			}
			_ = a.Weather(ctx, strings.Join(args, " "))

		case "creatures":
			page := 1
			if len(args) > 0 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					printlnFn("Usage: creatures [page]")
					continue
				}
				page = n
			}
			_ = a.Creatures(ctx, page)

		case "creature":
			if len(args) == 0 {
				printlnFn("Usage: creature NAME")
				continue
			}
			_ = a.Creature(ctx, args[0])

		case "users":
			_ = a.Users(ctx)

		case "admin":
			_ = a.Admin(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
