package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

type command func(ctx context.Context, args []string) error

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	EditProfile(ctx context.Context, args []string) error

	Municipalities(ctx context.Context, args []string) error
	Pay(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	PaymentStatus(ctx context.Context, args []string) error
	QRCode(ctx context.Context, args []string) error
	Verify(ctx context.Context, args []string) error
	Settle(ctx context.Context, args []string) error
	AddMunicipality(ctx context.Context, args []string) error

	Notifications(ctx context.Context, args []string) error
	Read(ctx context.Context, args []string) error
	Unread(ctx context.Context, args []string) error
	Send(ctx context.Context, args []string) error

	Estimate(ctx context.Context, args []string) error
	Fee(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error
}

func commands(a execIface) map[string]command {
	return map[string]command{
		"register":       a.Register,
		"login":          a.Login,
		"logout":         a.Logout,
		"profile":        a.Profile,
		"editprofile":    a.EditProfile,
		"municipalities": a.Municipalities,
		"m":              a.Municipalities,
		"pay":            a.Pay,
		"history":        a.History,
		"h":              a.History,
		"status":         a.PaymentStatus,
		"qr":             a.QRCode,
		"verify":         a.Verify,
		"settle":         a.Settle,
		"addmuni":        a.AddMunicipality,
		"notifications":  a.Notifications,
		"n":              a.Notifications,
		"read":           a.Read,
		"unread":         a.Unread,
		"send":           a.Send,
		"estimate":       a.Estimate,
		"fee":            a.Fee,
		"stats":          a.Stats,
	}
}

const (
	helpAnonymous = "Available commands: register, login [email], verify <qr>, fee <m3> [special], stats, exit"
	helpSignedIn  = "Available commands: profile, editprofile, (m)unicipalities, pay, (h)istory [status], status <id>, " +
		"qr <id>, verify <qr>, (n)otifications [unread], read <id...>, unread, estimate <photo> [desc], fee <m3> [special], " +
		"stats, logout, exit\nStaff: settle <id> <status>, send <user-id>   Admin: addmuni"
)

// runREPL starts a simple read–eval–print loop for the MuniCollect CLI.
//
// It reads a line from reader, parses the first token as the command and
// the rest as its arguments, and dispatches to methods on 'a'. Unknown
// commands are reported back to the user. The loop exits on EOF or when the
// user types "exit" or "quit".
//
// Commands share the reader for their own prompts, so lines are read one at
// a time without buffering ahead.
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	table := commands(a)
	for {
		printlnFn(fmt.Sprintf("mc %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpAnonymous)
			}
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		fn, ok := table[cmd]
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		_ = fn(ctx, args)

		if ctx.Err() != nil {
			return
		}
	}
}
