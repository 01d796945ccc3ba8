package db

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockForUpdate 在支持行级锁的方言上为查询追加 FOR UPDATE，
// sqlite 的写事务本身互斥，保持原查询不变.
func LockForUpdate(tx *gorm.DB) *gorm.DB {
	switch tx.Dialector.Name() {
	case "mysql", "postgres":
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	return tx
}

// EnsurePartialUniqueIndex 在支持部分索引的方言上创建条件唯一索引，
// 兜底保证布尔标志列全表至多一行为真；mysql 无部分索引，靠行锁串行化.
func (c *Client) EnsurePartialUniqueIndex(name, table, column string) error {
	switch c.DB.Dialector.Name() {
	case "sqlite", "postgres":
		stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (%s) WHERE %s",
			name, table, column, column)
		if err := c.DB.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create partial unique index %s: %w", name, err)
		}
	}

	return nil
}
