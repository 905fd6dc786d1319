package postgres

import (
	"time"
)

/*
 * 'User' contains the blueprint definition of a registered player. The
 * SessionID is the stable identity that socket connections resolve to;
 * it survives reconnects and is never re-derived server side.
 */
type User struct {
	SessionID    string    `gorm:"primaryKey;size:64;not null"`
	Username     string    `gorm:"size:50;not null;uniqueIndex"`
	PasswordHash string    `gorm:"size:255;not null"`
	MemberSince  time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}
