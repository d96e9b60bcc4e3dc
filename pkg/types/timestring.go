package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	minutesPerDay = 24 * 60
	layout        = "15:04"
)

var (
	// ErrInvalidTimeString возвращается при некорректном формате времени
	ErrInvalidTimeString = errors.New("invalid time string format")

	// ErrTimeOutOfRange возвращается, когда время выходит за пределы суток
	ErrTimeOutOfRange = errors.New("time is out of day range")
)

// TimeString время суток в формате HH:MM (настенные часы в часовом поясе бизнеса).
// Допускается "24:00" как конец суток, чтобы окно могло заканчиваться в полночь.
type TimeString string

// NewTimeString создает TimeString из time.Time (секунды отбрасываются)
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(layout))
}

// NewTimeStringFromString парсит и валидирует строку HH:MM
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(strings.TrimSpace(s))
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// FromMinutes создает TimeString из количества минут с начала суток
func FromMinutes(minutes int) (TimeString, error) {
	if minutes < 0 || minutes > minutesPerDay {
		return "", fmt.Errorf("%w: %d minutes", ErrTimeOutOfRange, minutes)
	}
	return TimeString(fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)), nil
}

// MustFromString используется в тестах и константах
func MustFromString(s string) TimeString {
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return ts
}

// Validate проверяет формат HH:MM
func (t TimeString) Validate() error {
	_, err := t.parse()
	return err
}

// Minutes возвращает количество минут с начала суток
// Для некорректного значения возвращает -1
func (t TimeString) Minutes() int {
	m, err := t.parse()
	if err != nil {
		return -1
	}
	return m
}

// AddMinutes возвращает время, сдвинутое на n минут
func (t TimeString) AddMinutes(n int) (TimeString, error) {
	m, err := t.parse()
	if err != nil {
		return "", err
	}
	return FromMinutes(m + n)
}

// IsBefore true, если t строго раньше other
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// IsAfter true, если t строго позже other
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Minutes() > other.Minutes()
}

// Equal true, если времена совпадают
func (t TimeString) Equal(other TimeString) bool {
	return t.Minutes() == other.Minutes()
}

// IsZero true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

func (t TimeString) String() string {
	return string(t)
}

// On возвращает момент времени в указанную дату в часовом поясе loc
func (t TimeString) On(date time.Time, loc *time.Location) time.Time {
	y, mo, d := date.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, loc).Add(time.Duration(t.Minutes()) * time.Minute)
}

func (t TimeString) parse() (int, error) {
	s := string(t)
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	if s == "24:00" {
		return minutesPerDay, nil
	}
	parsed, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// Scan реализует sql.Scanner (PostgreSQL TIME приходит как "HH:MM:SS")
func (t *TimeString) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case time.Time:
		*t = NewTimeString(v)
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeString, src)
	}

	if len(raw) >= 5 {
		raw = raw[:5]
	}
	ts, err := NewTimeStringFromString(raw)
	if err != nil {
		return err
	}
	*t = ts
	return nil
}

// Value реализует driver.Valuer
func (t TimeString) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t), nil
}

// UnmarshalJSON валидирует время при декодировании
func (t *TimeString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = ""
		return nil
	}
	ts, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = ts
	return nil
}
