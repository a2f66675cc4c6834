// Package launch assembles everything the workload inherits and performs the
// final process-image replacement.
//
// The process environment is the single channel between the launcher and the
// replaced workload. It is modeled as an explicit Environment record built in
// one linear pass: Configure applies the fixed RA-TLS bindings and provisions
// the certificate and key directories, the resolved whitelist is published
// into the record, and BuildSpec derives the mysqld argument vector from it.
// Nothing mutates the record after Exec is invoked - on success the launcher
// ceases to exist as a distinct process.
//
// Exec replaces the process image rather than spawning a child: the launcher
// has no responsibilities after this point, and a fork would duplicate memory
// inside a constrained enclave execution model for no benefit. Exec failing
// is the launcher's only fatal error.
package launch
