package repository

import "gorm.io/gorm"

// Migrate creates the schema and the query indexes (machine, technician,
// status, scheduled_at and the composite machine+status+scheduled_at).
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&interventionModel{},
		&userModel{},
	)
}
