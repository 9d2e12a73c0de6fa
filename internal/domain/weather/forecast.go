package weather

import (
	"time"

	"github.com/yanqian/weather-advisor/pkg/util"
)

const (
	labelToday    = "Today"
	labelTomorrow = "Tomorrow"
	dayLabelFmt   = "Monday, Jan 2"
)

// GroupByDay buckets entries by calendar day in loc. Groups are emitted in the order their
// label is first seen, so unsorted input yields non-chronological groups. Entries keep their
// relative order inside a group.
func GroupByDay(entries []Reading, now time.Time, loc *time.Location) []DayGroup {
	today := util.StartOfDay(now, loc)
	tomorrow := util.StartOfDay(today.AddDate(0, 0, 1), loc)

	groups := make([]DayGroup, 0)
	index := make(map[string]int)
	for _, entry := range entries {
		label := dayLabel(util.StartOfDay(util.FromUnix(entry.Timestamp, loc), loc), today, tomorrow)
		pos, ok := index[label]
		if !ok {
			pos = len(groups)
			index[label] = pos
			groups = append(groups, DayGroup{Label: label})
		}
		groups[pos].Entries = append(groups[pos].Entries, entry)
	}
	return groups
}

func dayLabel(day, today, tomorrow time.Time) string {
	switch {
	case day.Equal(today):
		return labelToday
	case day.Equal(tomorrow):
		return labelTomorrow
	default:
		return day.Format(dayLabelFmt)
	}
}
