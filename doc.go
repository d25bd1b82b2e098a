// Package verdant is the Composition Root for the Verdant plant-care
// core.
//
// It connects the domain layer (plants, care schedules, auth state)
// with the infrastructure adapters (persistence, images, reminders)
// using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// Verdant treats a user's plant collection as a live, reactive
// database. Writes are cheap and safe to call from any UI tick: they
// are conflated and debounced so a burst of edits costs one store
// write, and every committed change is pushed back out as a fresh
// ordered snapshot. The storage mechanism is abstracted; the default
// implementation keeps one JSON document per plant on the file system.
//
// Features:
//
//   - **Conflated writes**: at most one pending save, newest wins,
//     flushed after a trailing debounce window by a single writer.
//   - **Live queries**: ordered snapshots of the collection delivered
//     through conflated per-subscriber channels.
//   - **Image pairs**: full-quality photos stored verbatim next to a
//     derived thumbnail, written atomically as a pair.
//   - **Care reminders**: a planner follows the change feed and keeps
//     repeating watering/fertilizing/trimming reminders in sync.
//   - **Extensible**: alternative backends (SQLite included) via
//     core.DocumentStore.
//
// Usage:
//
//	g, err := verdant.Open(ctx, dataDir,
//		verdant.WithLogger(logger),
//	)
//
//	p := verdant.NewPlant("Monstera")
//	p.WateringEvery = 72 * time.Hour
//	g.Plants().Save(p)
package verdant
