package specification

import "gorm.io/gorm"

// Scope adapts a plain gorm scope function to a Specification.
type Scope func(db *gorm.DB) *gorm.DB

func (s Scope) Apply(db *gorm.DB) *gorm.DB {
	return s(db)
}
