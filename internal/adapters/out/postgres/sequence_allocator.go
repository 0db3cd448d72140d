package postgres

import (
	"context"

	"gorm.io/gorm"
)

// SequenceDTO represents one named counter row. Order numbers come from the
// "order_number" counter.
type SequenceDTO struct {
	Name  string `gorm:"primaryKey"`
	Value int64
}

// TableName specifies the database table name for sequence counters.
func (SequenceDTO) TableName() string {
	return "sequences"
}

// GormSequenceAllocator hands out strictly increasing values from named
// counters using a single upsert statement, so two concurrent allocations for
// the same name never observe the same value.
type GormSequenceAllocator struct {
	db *gorm.DB
}

// NewGormSequenceAllocator creates a sequence allocator on the given
// connection or transaction.
func NewGormSequenceAllocator(db *gorm.DB) *GormSequenceAllocator {
	return &GormSequenceAllocator{db: db}
}

// Next increments the named counter and returns the new value, creating the
// counter at one on first use.
func (a *GormSequenceAllocator) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	err := a.db.WithContext(ctx).Raw(`
		INSERT INTO sequences (name, value)
		VALUES (?, 1)
		ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1
		RETURNING value
	`, name).Scan(&value).Error
	if err != nil {
		return 0, err
	}

	return value, nil
}
