package model

import (
	"time"
)

// TransactionLock is an expiring write lease on a transaction or property key
type TransactionLock struct {
	Key       string    `gorm:"primaryKey;size:255"`
	Owner     string    `gorm:"not null;size:128"`
	LockedAt  time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for TransactionLock
func (TransactionLock) TableName() string {
	return "transaction_locks"
}
