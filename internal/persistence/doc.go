// Package persistence implements the save/load/backup protocol for the portfolio record.
//
// The Gateway is the only writer of the primary key and the Ring the only writer of the
// backup key. Writes never partially update a record: the unit of persistence is one
// fully serialized PortfolioRecord. Reads never write; recovering from a backup does not
// repair the primary key.
//
// The backup ring performs an unguarded read-modify-write and assumes a single writer per
// store. Two processes saving into the same store concurrently can lose backup entries.
package persistence

// Default storage keys.
const (
	DefaultPrimaryKey = "portfolio-data"
	DefaultBackupKey  = "portfolio-backups"
	DefaultMaxBackups = 3
)
