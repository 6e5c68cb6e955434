// Package config loads and validates server configuration: store backend
// selection, the bot visibility-gate duration, the transactional retry
// bound, and a default maxSeats (validated and logged; `host` requests do
// not read it). Grounded on game/config/manager.go's load/validate/cache shape,
// repurposed from per-game JSON board layouts (this game's board is fixed,
// not configurable) to process-wide server knobs read from the
// environment.
package config
