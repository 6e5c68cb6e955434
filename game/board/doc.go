// Package board implements the pure position geometry of the Lo Siento
// board: the 60-space shared track, the four per-color slide segments, the
// per-color Safety Zones, and Home. Every function here is a pure mapping
// from (seat, position[, steps]) to a new position or an explicit failure —
// no board state is held anywhere in this package, matching how the rules
// above it treat positions as plain values rather than nodes in a graph.
package board
