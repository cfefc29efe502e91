// Package jobstore provides the read-through job state store.
//
// The durable record in SQLite is authoritative; the in-memory mirror
// exists so the hot status path (polled by players waiting for a
// conversion) does not hit the database on every request. The mirror is
// only ever populated from successful durable reads and writes, so a
// stale entry can lag the database but never invent state.
package jobstore
