package schedule

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used for schedule dates and cache stamps.
const DateLayout = "2006-01-02"

// Schedule assigns one hadith to a calendar day.
// Corresponds to the 'daily_hadith_schedule' table.
type Schedule struct {
	ID         string
	Date       string // YYYY-MM-DD
	HadithID   string
	IsFeatured bool
	Sent       bool // Whether the daily broadcast went out
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (s *Schedule) Validate() error {
	if s == nil {
		return fmt.Errorf("schedule is nil")
	}
	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		return fmt.Errorf("schedule %s: invalid date %q: %w", s.ID, s.Date, err)
	}
	if s.HadithID == "" {
		return fmt.Errorf("schedule %s: hadith id is empty", s.ID)
	}
	return nil
}
