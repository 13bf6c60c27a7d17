// Package cli provides the interactive MuniCollect command-line client.
//
// It wires configuration, the token store, the API client and domain
// services, the auth session and the error handler, and runs a REPL in
// which the terminal plays the UI: navigation prints the page the app moved
// to and notices are printed as one-line toasts.
//
// Key features:
//   - Register / Login / Logout, with the session restored from stored tokens
//   - Profile, municipalities, payments and QR codes
//   - Notifications with a background unread-count poller
//   - Special pickup estimates through the configured estimator
//   - Staff and admin commands behind the role guard
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
