package risk

import (
	"time"

	"github.com/shopspring/decimal"
)

// ----- session labels -----

type Session string

const (
	SessionWeekendHoliday Session = "weekend_holiday"
	SessionPreOpen        Session = "pre_open"
	SessionRegular        Session = "regular_session"
	SessionClosed         Session = "closed"
)

// BSE regular session, IST.
const (
	preOpenStartHour   = 9
	preOpenStartMinute = 0
	openHour           = 9
	openMinute         = 15
	closeHour          = 15
	closeMinute        = 30
)

// ----- public API -----

// DetectSession labels the given instant against BSE trading hours. Used to
// warn when a strategy starts outside the regular session; it never blocks
// anything, since the sandbox accepts orders around the clock.
func DetectSession(now time.Time) Session {
	ist := getIndianTime(now)

	if ist.Weekday() == time.Saturday || ist.Weekday() == time.Sunday || isHoliday(ist) {
		return SessionWeekendHoliday
	}

	minutes := ist.Hour()*60 + ist.Minute()
	switch {
	case minutes >= preOpenStartHour*60+preOpenStartMinute && minutes < openHour*60+openMinute:
		return SessionPreOpen
	case minutes >= openHour*60+openMinute && minutes <= closeHour*60+closeMinute:
		return SessionRegular
	default:
		return SessionClosed
	}
}

// MarketOpen reports whether the regular session is running.
func MarketOpen(now time.Time) bool {
	return DetectSession(now) == SessionRegular
}

// ExceedsMaxLoss reports whether an execution's P&L has fallen past its
// configured per-trade loss cap.
func ExceedsMaxLoss(currentPnL decimal.Decimal, maxLossPerTrade int) bool {
	if maxLossPerTrade <= 0 {
		return false
	}
	return currentPnL.LessThan(decimal.NewFromInt(int64(-maxLossPerTrade)))
}

// ----- helpers -----

func getIndianTime(t time.Time) time.Time {
	istLocation, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// IST has no DST, so a fixed offset is an exact fallback.
		return t.In(time.FixedZone("IST", 5*3600+1800))
	}
	return t.In(istLocation)
}

// isHoliday covers the fixed-date BSE holidays. The lunar-calendar holidays
// (Diwali, Holi and friends) move every year and are not tracked here.
func isHoliday(t time.Time) bool {
	year := t.Year()

	holidays := []time.Time{
		time.Date(year, time.January, 26, 0, 0, 0, 0, time.UTC),  // Republic Day
		time.Date(year, time.May, 1, 0, 0, 0, 0, time.UTC),       // Maharashtra Day
		time.Date(year, time.August, 15, 0, 0, 0, 0, time.UTC),   // Independence Day
		time.Date(year, time.October, 2, 0, 0, 0, 0, time.UTC),   // Gandhi Jayanti
		time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC), // Christmas
	}
	return isDateAmong(t, holidays)
}

// isDateAmong checks if the given date matches any date in the list.
func isDateAmong(t time.Time, dates []time.Time) bool {
	for _, d := range dates {
		if t.Format("2006-01-02") == d.Format("2006-01-02") {
			return true
		}
	}
	return false
}
