package settingsstore

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// ValidateCronSchedule checks that the expression parses as a standard
// five-field cron schedule.
func ValidateCronSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	_, err := parser.Parse(schedule)
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// GetNextRunTime returns when the schedule would fire next.
func GetNextRunTime(schedule string) (time.Time, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return sched.Next(time.Now()), nil
}

// GetCronDescription gives a human readable hint for common schedules.
func GetCronDescription(schedule string) string {
	switch schedule {
	case "* * * * *":
		return "every minute"
	case "0 * * * *":
		return "every hour"
	case "0 */6 * * *":
		return "every 6 hours"
	case "0 */12 * * *":
		return "every 12 hours"
	case "0 0 * * *":
		return "daily at midnight"
	default:
		return schedule
	}
}
