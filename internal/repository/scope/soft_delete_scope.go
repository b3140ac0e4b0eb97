package scope

import "gorm.io/gorm"

// ExcludeSoftDelete is effectively the default behavior but made explicit for
// raw Table() queries, where GORM's soft-delete clause does not apply.
func ExcludeSoftDelete(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table + ".deleted_at IS NULL")
	}
}
