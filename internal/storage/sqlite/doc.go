// Package sqlite persists processing runs, the duplicate stub pairs they
// found and the digitized stub words they produced.
//
// The schema is owned by the embedded golang-migrate migrations; Open
// brings a database up to the latest version. Writes go through
// retryOnBusy so concurrent CLI invocations sharing one WAL database do
// not fail on transient SQLITE_BUSY errors.
package sqlite
