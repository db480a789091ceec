// Package untis is a client for the WebUntis JSON-RPC API.
//
// The session package logs in and issues calls, the types package holds the
// decoded master data and timetables, and cmd/untis is a command line front
// end built on both.
package untis

// Version is the library version.
const Version = "1.3.0"

// DefaultUserAgent is sent when no user agent is configured.
const DefaultUserAgent = "untis-go/" + Version
