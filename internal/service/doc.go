// Package service exposes a [logstore.Store] over NATS request/reply
// subjects, per the service facade design added in SPEC_FULL.md §4.F: a
// data subject tree (cidlog.data.>) for LogOne/LogMany/the query methods,
// and an admin subject tree (cidlog.admin.>) for RemoveAll and DebugDump.
// Every request/response body is a small JSON envelope; errors are
// mapped from logstore's sentinel errors to a closed set of response
// codes (see codes.go) rather than forwarded as opaque strings.
//
// Grounded on github.com/nats-io/nats.go (sourced from
// ClusterCockpit-cc-backend's go.mod) as the transport.
package service
