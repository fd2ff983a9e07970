// Package store holds the in-memory form sessions of the fiber monitor.
//
// A session owns at most one current Assessment: each accepted submission
// replaces it wholesale and a reset clears it. No history is kept. Sessions
// that see no activity for the configured TTL are evicted by Run.
package store
