package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	minutesPerDay = 24 * 60
	clockLayout   = "15:04"
)

// ClockTime is a time of day in minutes since midnight.
type ClockTime int

func ParseClock(s string) (ClockTime, error) {
	t, err := time.Parse(clockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}

func MustParseClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Add wraps past midnight using 24-hour arithmetic.
func (c ClockTime) Add(minutes int) ClockTime {
	v := (int(c) + minutes) % minutesPerDay
	if v < 0 {
		v += minutesPerDay
	}
	return ClockTime(v)
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value stores the clock time in a TIME column.
func (c ClockTime) Value() (driver.Value, error) {
	return c.String(), nil
}

func (c *ClockTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*c = ClockTime(v.Hour()*60 + v.Minute())
		return nil
	case []byte:
		return c.scanString(string(v))
	case string:
		return c.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into ClockTime", src)
	}
}

func (c *ClockTime) scanString(s string) error {
	// postgres returns TIME as HH:MM:SS
	if len(s) > 5 {
		s = s[:5]
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// TimeSlots is the fixed set of bookable start times.
var TimeSlots = []ClockTime{
	MustParseClock("09:00"),
	MustParseClock("10:00"),
	MustParseClock("11:00"),
	MustParseClock("12:00"),
	MustParseClock("13:00"),
	MustParseClock("14:00"),
	MustParseClock("15:00"),
	MustParseClock("16:00"),
	MustParseClock("17:00"),
}

func IsTimeSlot(c ClockTime) bool {
	for _, slot := range TimeSlots {
		if slot == c {
			return true
		}
	}
	return false
}
