package domain

import "time"

// Service услуга бизнеса
type Service struct {
	ID              int64
	BusinessID      int64
	Name            string
	DurationMinutes int
	Price           *float64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// BelongsTo true, если услуга принадлежит бизнесу
func (s *Service) BelongsTo(businessID int64) bool {
	return s.BusinessID == businessID
}
