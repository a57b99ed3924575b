// Package jotter is the Composition Root for the jotter note store.
//
// It connects the domain components (credentials, session, notes, query,
// settings) with a key-value persistence backend using the Hexagonal
// Architecture pattern.
//
// Features:
//
//   - **Local First**: notes and users live in one JSON file or one SQLite database.
//   - **Crash Safe**: the JSON store is rewritten atomically (temp file + fsync + rename).
//   - **Per-User Isolation**: every note operation is scoped to its owner.
//   - **Search & Tags**: case-insensitive search, tag filters and glob matching over tags.
//   - **Password Hashing**: PBKDF2-HMAC-SHA512 with per-user salt and constant-time checks.
//
// Usage:
//
//	svc, err := jotter.New("./data",
//		jotter.WithAdapter(jotter.AdapterSQLite),
//		jotter.WithLogger(logger),
//	)
//
//	alice, err := svc.Register(ctx, "alice@example.com", "secret")
//	_, err = svc.SaveNote(ctx, core.Note{ID: "n1", OwnerID: alice.ID, Title: "Hello"})
package jotter
