package models

import "gorm.io/gorm"

// GeoLocation is one reference country of the catalogue threats are scattered around.
type GeoLocation struct {
	gorm.Model
	Name string  `gorm:"uniqueIndex;not null"`
	Lat  float64 `gorm:"not null"`
	Lng  float64 `gorm:"not null"`
}
