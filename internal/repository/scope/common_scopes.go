package scope

import "gorm.io/gorm"

// OrderByUpdatedDesc puts the most recently saved rows first.
func OrderByUpdatedDesc(db *gorm.DB) *gorm.DB {
	return db.Order("updated_at DESC")
}
