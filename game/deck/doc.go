// Package deck builds and maintains the 45-card Lo Siento deck: a
// deterministic shuffle when a seed is supplied, draw-with-rebuild-on-empty
// against the discard pile, and discard bookkeeping.
package deck
