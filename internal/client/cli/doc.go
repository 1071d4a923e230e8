// Package cli provides the interactive travelmate command-line client.
//
// It wires configuration, the local state database, the session, the
// auth and resource clients and an interactive REPL. Typical flow:
// restore the saved session, resolve the signed-in user, then execute
// user commands until exit.
//
// Commands that map onto protected routes (dashboard, profile, travel
// plans) are checked with the guard first; a signed-out user is asked to
// log in instead.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
