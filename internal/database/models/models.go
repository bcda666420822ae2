package models

func GetModels() []interface{} {
	return []interface{}{
		&GeoLocation{},
		&ExportLog{},
	}
}

// Table names as created by gorm's naming strategy
const (
	GEO_LOCATIONS = "geo_locations"
	EXPORT_LOGS   = "export_logs"
)
