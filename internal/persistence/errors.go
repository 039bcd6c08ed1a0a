package persistence

import "fmt"

// StorageUnavailableError is returned by Save when the store does not accept writes
// (disabled, read-only, unreachable). The draft is never discarded because of it.
type StorageUnavailableError struct {
	Key string
}

func (e *StorageUnavailableError) Error() string {
	return "storage unavailable (possibly blocked or read-only)"
}

// BackupIndexError is returned by Restore for an index outside the backup ring.
type BackupIndexError struct {
	Index int
	Count int
}

func (e *BackupIndexError) Error() string {
	return fmt.Sprintf("backup index %d out of range (have %d)", e.Index, e.Count)
}

// CorruptBackupError is returned by Restore when the selected snapshot cannot be parsed.
type CorruptBackupError struct {
	Index int
	Cause error
}

func (e *CorruptBackupError) Error() string {
	return fmt.Sprintf("backup %d is corrupt: %v", e.Index, e.Cause)
}

func (e *CorruptBackupError) Unwrap() error {
	return e.Cause
}
