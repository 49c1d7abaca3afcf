// Package gate provides the disclosure-gate hooks that run when a promo
// code finishes checking.
//
// A gate is an unlock.Gate: a fire-and-forget call whose failure never
// blocks the reveal. Resolve maps the configured mode to a Factory that
// builds one gate per code:
//
//	none     no gate, the unlock fallback path is taken
//	log      record the call and return
//	browser  open the locker URL with the platform opener
//	command  start an arbitrary program
//
// The web server does not use this package for its sessions; there the gate
// is a frame pushed to the browser's content locker.
package gate
