// ABOUTME: Deep-copy snapshot primitive for the record store.
// ABOUTME: One mechanism backs both per-operation rollback and session undo.
package vitals

import "github.com/harperreed/vitals/internal/models"

// Snapshot is an immutable deep copy of the store's records, detached
// from any later mutations.
type Snapshot struct {
	records []models.Record
}

// Snapshot captures the store's current records.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{records: cloneRecords(s.records)}
}

// Restore replaces the store's records with the snapshot's contents.
// The snapshot itself stays valid and can be restored again.
func (s *Store) Restore(snap Snapshot) {
	s.records = cloneRecords(snap.records)
}

// UndoAll restores the baseline snapshot captured when the store was
// built, discarding every mutation made during the session.
func (s *Store) UndoAll() {
	s.Restore(s.baseline)
}

// Len returns the number of records held by the snapshot.
func (snap Snapshot) Len() int {
	return len(snap.records)
}
