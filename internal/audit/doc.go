// Package audit records database lifecycle events as timestamped plaintext
// lines, process-wide and per database. Audit failures are reported to the
// caller but must never abort the operation that triggered them.
package audit
