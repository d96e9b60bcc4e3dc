package domain

import (
	"time"
	_ "time/tzdata"
)

// Business бизнес (салон, барбершоп), принимающий записи
type Business struct {
	ID          int64
	Name        string
	Timezone    string // IANA, например "America/Argentina/Buenos_Aires"
	OwnerUserID int64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Location часовой пояс бизнеса, UTC при пустом или неизвестном значении
func (b *Business) Location() *time.Location {
	if b.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsOwner true, если пользователь владелец бизнеса
func (b *Business) IsOwner(userID int64) bool {
	return b.OwnerUserID == userID
}
