// Package store provides a SQLite-backed source adapter.
//
// A Store runs arbitrary SELECT statements and returns their result sets
// as tables, which makes it query addressable: sources over a Store push
// filters down to SQLite instead of filtering in memory.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
