// Package session provides session management for the Escape Room Game.
//
// The session package implements:
//   - Thread-safe in-memory session storage
//   - Unique session ID generation
//   - Atomic read-modify-write per session
//
// Core Types:
//
// Manager is the session store. Each stored service.Session owns its own
// engine instance and metadata like creation time and last access time.
//
// Session Identifiers:
//
// Sessions use random UUIDs; a colliding id is regenerated. Lookups are
// case-insensitive.
//
// Concurrency:
//
// The map of sessions is guarded by a read/write lock that is only held for
// lookups and inserts. Every session additionally carries its own mutex;
// Update runs the caller's function under that mutex, so two requests for
// the same session are serialized while requests for different sessions do
// not block each other.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create(engine.ClassicRoom(), time.Now())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = manager.Update(sess.ID, func(s *service.Session) error {
//		_, err := s.Engine.Solve("safe", "1234", time.Now())
//		return err
//	})
//
// Lifetime:
//
// Sessions live for the lifetime of the process. Nothing is persisted.
package session
