package cache

import (
	"time"
)

const (
	refreshHour   = 16
	refreshMinute = 30
)

// newYork falls back to a fixed EST offset when tzdata is unavailable.
var newYork = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}()

// TimeUntilNextDailyRefresh は次の16:30（ニューヨーク時間、米国市場の引け後）までの期間を返します。
// 日足はこの時刻までは更新されません。
func TimeUntilNextDailyRefresh() time.Duration {
	return timeUntilNextRefresh(time.Now())
}

func timeUntilNextRefresh(now time.Time) time.Duration {
	now = now.In(newYork)
	next := time.Date(now.Year(), now.Month(), now.Day(), refreshHour, refreshMinute, 0, 0, newYork)

	// 今日の16:30が既に過ぎている場合は翌日の16:30を使用
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
