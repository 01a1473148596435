// Package toolexec runs external programs (git, npm) on behalf of the
// scaffolder. Commands run either synchronously or detached; a detached
// command returns a Handle that must be joined with Wait, so no child process
// outlives the run that spawned it. Timeouts and context cancellation kill
// the child.
package toolexec
