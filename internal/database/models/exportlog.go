package models

import "gorm.io/gorm"

// ExportLog audits one JSON export of the threat store.
type ExportLog struct {
	gorm.Model
	Filename string `gorm:"not null"`
	Records  int
}
