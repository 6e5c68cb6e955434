// Package store holds the Game Store contract: persisting game records and
// the per-user active-game mapping, with atomic, serializable
// read-modify-write against a single gameId. Memory is the only
// implementation here; the core is agnostic to whether a real deployment
// backs it with a replicated document store instead.
package store
