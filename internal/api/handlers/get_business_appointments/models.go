package get_business_appointments

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/TurnsBookingService/internal/domain"
	"github.com/m04kA/TurnsBookingService/internal/service/appointments/models"
)

// ParseQuery собирает запрос сервиса из query параметров
// date задаёт один день и имеет приоритет над startDate/endDate
func ParseQuery(userID, businessID int64, query url.Values) (*models.GetBusinessAppointmentsRequest, error) {
	req := &models.GetBusinessAppointmentsRequest{
		UserID:     userID,
		BusinessID: businessID,
	}

	if date := query.Get("date"); date != "" {
		day, err := time.Parse(domain.DateFormat, date)
		if err != nil {
			return nil, fmt.Errorf("date: %w", err)
		}
		req.StartDate = &day
		req.EndDate = &day
	} else {
		if v := query.Get("startDate"); v != "" {
			start, err := time.Parse(domain.DateFormat, v)
			if err != nil {
				return nil, fmt.Errorf("startDate: %w", err)
			}
			req.StartDate = &start
		}
		if v := query.Get("endDate"); v != "" {
			end, err := time.Parse(domain.DateFormat, v)
			if err != nil {
				return nil, fmt.Errorf("endDate: %w", err)
			}
			req.EndDate = &end
		}
		if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
			return nil, errors.New("endDate is before startDate")
		}
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if v := query.Get("includeInactive"); v != "" {
		includeInactive, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("includeInactive: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
