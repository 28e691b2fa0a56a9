package database

import "gorm.io/gorm"

// Paginate applies page-based offset and limit to a query. Pages start
// at 1; non-positive values leave the query untouched.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 || pageSize < 1 {
			return db
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}
