package timezone

import (
	"strings"
	"time"
	_ "time/tzdata"
)

var airportTimezones = map[string]string{
	// Americas
	"JFK": "America/New_York", // New York - John F. Kennedy
	"EWR": "America/New_York", // Newark - Liberty
	"LAX": "America/Los_Angeles",
	"SFO": "America/Los_Angeles",
	"ORD": "America/Chicago",

	// Europe
	"LHR": "Europe/London", // London - Heathrow
	"CDG": "Europe/Paris",  // Paris - Charles de Gaulle
	"FCO": "Europe/Rome",   // Rome - Fiumicino
	"BCN": "Europe/Madrid", // Barcelona - El Prat

	// Middle East & Asia
	"DXB": "Asia/Dubai",     // Dubai International
	"HND": "Asia/Tokyo",     // Tokyo - Haneda
	"NRT": "Asia/Tokyo",     // Tokyo - Narita
	"SIN": "Asia/Singapore", // Singapore - Changi
	"CGK": "Asia/Jakarta",   // Jakarta - Soekarno-Hatta
	"DPS": "Asia/Makassar",  // Bali - Ngurah Rai
}

// GetTimezoneByAirport returns the IANA zone for an airport, or UTC when unknown.
func GetTimezoneByAirport(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if tz, ok := airportTimezones[code]; ok {
		return tz
	}
	return "UTC"
}

func GetLocationByAirport(code string) *time.Location {
	return GetLocationByName(GetTimezoneByAirport(code))
}

func GetLocationByName(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.UTC
}

// LocalTime places a wall-clock "15:04" time on the given calendar day in the
// airport's zone.
func LocalTime(year int, month time.Month, day int, clock, airportCode string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, &time.ParseError{
			Layout:  "15:04",
			Value:   clock,
			Message: ": unable to parse time of day",
		}
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), 0, 0, GetLocationByAirport(airportCode)), nil
}

func ConvertToTimezone(t time.Time, airportCode string) time.Time {
	loc := GetLocationByAirport(airportCode)
	return t.In(loc)
}
