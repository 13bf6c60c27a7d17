// Package ui defines the two collaborators the client core drives on the
// presentation side: a Navigator that changes the current page and a
// Notifier that shows short notices (toasts).
package ui

import "sync"

const (
	PathHome          = "/"
	PathLogin         = "/login"
	PathDashboard     = "/dashboard"
	PathMuniDashboard = "/muni-dashboard"
)

type Navigator interface {
	Navigate(path string)
	CurrentPath() string
}

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Notice struct {
	Level       Level
	Title       string
	Description string
}

type Notifier interface {
	Notify(n Notice)
}

// MemoryRouter is a Navigator that only remembers where it was sent.
type MemoryRouter struct {
	mu      sync.Mutex
	path    string
	history []string
}

func NewMemoryRouter(start string) *MemoryRouter {
	if start == "" {
		start = PathHome
	}
	return &MemoryRouter{path: start}
}

func (r *MemoryRouter) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.path = path
	r.history = append(r.history, path)
}

func (r *MemoryRouter) CurrentPath() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

// History lists every Navigate target in order.
func (r *MemoryRouter) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

// NoticeLog is a Notifier that keeps every notice.
type NoticeLog struct {
	mu      sync.Mutex
	notices []Notice
}

func (l *NoticeLog) Notify(n Notice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notices = append(l.notices, n)
}

func (l *NoticeLog) Notices() []Notice {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Notice(nil), l.notices...)
}

// Last returns the most recent notice, ok=false when none.
func (l *NoticeLog) Last() (Notice, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.notices) == 0 {
		return Notice{}, false
	}
	return l.notices[len(l.notices)-1], true
}

// Funcs adapts plain functions to Navigator and Notifier.
type Funcs struct {
	NavigateFn func(path string)
	CurrentFn  func() string
	NotifyFn   func(n Notice)
}

func (f Funcs) Navigate(path string) {
	if f.NavigateFn != nil {
		f.NavigateFn(path)
	}
}

func (f Funcs) CurrentPath() string {
	if f.CurrentFn != nil {
		return f.CurrentFn()
	}
	return ""
}

func (f Funcs) Notify(n Notice) {
	if f.NotifyFn != nil {
		f.NotifyFn(n)
	}
}
