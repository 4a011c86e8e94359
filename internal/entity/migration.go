package entity

import "time"

// Migration tracks which schema versions have been applied.
type Migration struct {
	Version   int `gorm:"primarykey"`
	AppliedAt time.Time
}
