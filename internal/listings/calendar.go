package listings

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format for all booking dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return t.UTC(), nil
}

// FormatDate renders a time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// DatesBetween returns every date string in the half-open range
// [checkIn, checkOut).
func DatesBetween(checkIn, checkOut time.Time) []string {
	var dates []string
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		dates = append(dates, FormatDate(d))
	}
	return dates
}

// Calendar is the sparse host-block map stored as JSONB. Only false
// entries are ever stored: absence is the "free" state, so freeing a
// date deletes the key instead of flipping it to true.
type Calendar map[string]bool

// Value implements driver.Valuer for JSONB storage.
func (c Calendar) Value() (driver.Value, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner for JSONB storage.
func (c *Calendar) Scan(value interface{}) error {
	if value == nil {
		*c = Calendar{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported calendar column type %T", value)
	}

	if len(data) == 0 {
		*c = Calendar{}
		return nil
	}
	return json.Unmarshal(data, c)
}

// Block marks every date in [checkIn, checkOut) as host-blocked.
// Idempotent.
func (c Calendar) Block(checkIn, checkOut time.Time) {
	for _, date := range DatesBetween(checkIn, checkOut) {
		c[date] = false
	}
}

// Free removes every date in [checkIn, checkOut) from the map.
// Idempotent; never writes true entries.
func (c Calendar) Free(checkIn, checkOut time.Time) {
	for _, date := range DatesBetween(checkIn, checkOut) {
		delete(c, date)
	}
}

// FirstBlockedDate returns the first host-blocked date in
// [checkIn, checkOut), if any.
func (c Calendar) FirstBlockedDate(checkIn, checkOut time.Time) (string, bool) {
	for _, date := range DatesBetween(checkIn, checkOut) {
		if blocked, ok := c[date]; ok && !blocked {
			return date, true
		}
	}
	return "", false
}
