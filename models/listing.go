package models

import (
	"fmt"
	"strings"
)

// Category selects the listing sort order.
type Category int

const (
	CategoryHot Category = iota
	CategoryNew
	CategoryTop
)

var categoryNames = [...]string{"hot", "new", "top"}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory maps a category name to its ordinal.
func ParseCategory(name string) (Category, error) {
	for i, n := range categoryNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown category %q (use hot, new, or top)", name)
}

// TimePeriod is the window used by the top category.
type TimePeriod int

const (
	PeriodDay TimePeriod = iota
	PeriodWeek
	PeriodMonth
	PeriodYear
	PeriodAll
)

var periodNames = [...]string{"day", "week", "month", "year", "all"}

func (p TimePeriod) String() string {
	if p < 0 || int(p) >= len(periodNames) {
		return fmt.Sprintf("TimePeriod(%d)", int(p))
	}
	return periodNames[p]
}

// ParseTimePeriod maps a period name to its ordinal.
func ParseTimePeriod(name string) (TimePeriod, error) {
	for i, n := range periodNames {
		if strings.EqualFold(strings.TrimSpace(name), n) {
			return TimePeriod(i), nil
		}
	}
	return 0, fmt.Errorf("unknown time period %q (use day, week, month, year, or all)", name)
}
