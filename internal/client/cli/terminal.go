package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/municollect/internal/client/ui"
)

var pageTitles = map[string]string{
	ui.PathHome:          "home",
	ui.PathLogin:         "login",
	ui.PathDashboard:     "resident dashboard",
	ui.PathMuniDashboard: "municipal dashboard",
}

// terminal is the Navigator and Notifier of the CLI.
type terminal struct {
	mu   sync.Mutex
	w    io.Writer
	path string
}

func newTerminal(w io.Writer) *terminal {
	return &terminal{w: w, path: ui.PathHome}
}

func (t *terminal) Navigate(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if path == t.path {
		return
	}
	t.path = path
	title, ok := pageTitles[path]
	if !ok {
		title = path
	}
	fmt.Fprintf(t.w, "-> %s\n", title)
}

func (t *terminal) CurrentPath() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.path
}

func (t *terminal) Notify(n ui.Notice) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n.Description == "" {
		fmt.Fprintf(t.w, "[%s] %s\n", n.Level, n.Title)
		return
	}
	fmt.Fprintf(t.w, "[%s] %s: %s\n", n.Level, n.Title, n.Description)
}
