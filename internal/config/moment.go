package config

import (
	"fmt"
	"strconv"
	"strings"
)

var weekdays = map[string]int{
	"sunday":    0,
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
}

// A weekly moment, like friday at 18:00
type Moment struct {
	Day  string `mapstructure:"day"`
	Time string `mapstructure:"time"`
}

func (moment Moment) String() string {
	return fmt.Sprintf("%s %s", moment.Day, moment.Time)
}

// Standard five field cron spec firing at this moment every week.
// Days may be abbreviated to their first three letters
func (moment Moment) CronSpec() (string, error) {

	day := strings.ToLower(strings.TrimSpace(moment.Day))
	weekday := -1
	for name, number := range weekdays {
		if day == name || (len(day) == 3 && strings.HasPrefix(name, day)) {
			weekday = number
			break
		}
	}
	if weekday == -1 {
		return "", fmt.Errorf("day %q is not a day of the week", moment.Day)
	}

	parts := strings.Split(strings.TrimSpace(moment.Time), ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("time %q is not HH:MM", moment.Time)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("hour in %q is not valid", moment.Time)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("minute in %q is not valid", moment.Time)
	}

	return fmt.Sprintf("%d %d * * %d", minute, hour, weekday), nil
}
