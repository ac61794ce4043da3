package query

import (
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// relativeDays maps temporal adverbs to day offsets from today.
var relativeDays = map[string]int{
	"сегодня":     0,
	"завтра":      1,
	"послезавтра": 2,
}

// targetDate decides which calendar date the query is about. An explicit
// ISO date wins; otherwise the first relative-date word in the text is
// used; with neither, the query is about today.
func targetDate(clock clockwork.Clock, isoDate, text string) (time.Time, error) {
	if isoDate != "" {
		d, err := time.Parse("2006-01-02", isoDate)
		if err != nil {
			return time.Time{}, err
		}
		return d, nil
	}

	today := clock.Now().UTC().Truncate(24 * time.Hour)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if offset, ok := relativeDays[strings.Trim(word, ",.!?")]; ok {
			return today.AddDate(0, 0, offset), nil
		}
	}
	return today, nil
}
