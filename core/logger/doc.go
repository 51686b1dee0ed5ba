// Package logger records interpreter events as newline delimited JSON and
// summarizes them.
//
// Entries are google.protobuf.Struct messages encoded with protojson. Every
// entry carries a session_id, timestamp_micros and type, the rest of the
// fields depend on the type.
package logger
