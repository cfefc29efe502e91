// Package notify implements the in-process notification fan-out.
//
// The orchestrator publishes exactly one ready event per completed
// conversion; the websocket handler bridges subscriber channels to
// connected clients. Slow subscribers lose events instead of slowing
// anyone else down.
package notify
