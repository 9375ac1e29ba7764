// Package runlog persists summaries of finished completion runs to a
// SQLite database, so repeated invocations of the CLI build up a local
// history of what was run, how big the resulting systems were and how
// long completion took.
package runlog
