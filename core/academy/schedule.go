package academy

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

const (
	defaultStartTime = "09:00"
	defaultEndTime   = "10:00"
	noSchedule       = "No schedule set"
)

// Abbrev returns the three letter abbreviation, e.g. "mon".
func (d Weekday) Abbrev() string { return string(d)[:3] }

// Title returns the capitalized day name, e.g. "Monday".
func (d Weekday) Title() string { return strings.ToUpper(string(d)[:1]) + string(d)[1:] }

// DaySchedule is the time range a course runs on one weekday.
type DaySchedule struct {
	Enabled   bool   `json:"enabled"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Schedule is either a legacy free-text schedule ("Mon, Wed, Fri - 10:00 AM")
// or a structured per-weekday one. The zero value is an empty text schedule.
type Schedule struct {
	text string
	days map[Weekday]DaySchedule // nil for text schedules
}

func TextSchedule(text string) Schedule {
	return Schedule{text: text}
}

// StructuredSchedule builds a structured schedule; missing weekdays get the disabled default.
func StructuredSchedule(days map[Weekday]DaySchedule) Schedule {
	s := Schedule{days: DefaultDays()}
	for d, ds := range days {
		s.days[d] = ds
	}
	return s
}

// DefaultDays returns every weekday disabled, 09:00-10:00.
func DefaultDays() map[Weekday]DaySchedule {
	days := make(map[Weekday]DaySchedule, len(Weekdays))
	for _, d := range Weekdays {
		days[d] = DaySchedule{StartTime: defaultStartTime, EndTime: defaultEndTime}
	}
	return days
}

func (s Schedule) IsStructured() bool { return s.days != nil }

// Text returns the raw text of a text schedule, "" otherwise.
func (s Schedule) Text() string { return s.text }

// Days returns a copy of the per-weekday schedule, converting text schedules with ParseSchedule.
func (s Schedule) Days() map[Weekday]DaySchedule {
	if !s.IsStructured() {
		return ParseSchedule(s.text).days
	}
	return s.clone().days
}

// Structured converts a text schedule to its structured form.
func (s Schedule) Structured() Schedule {
	if s.IsStructured() {
		return s.clone()
	}
	return ParseSchedule(s.text)
}

// EnabledDays lists the enabled weekdays, in week order.
func (s Schedule) EnabledDays() []Weekday {
	days := s.Days()
	var out []Weekday
	for _, d := range Weekdays {
		if days[d].Enabled {
			out = append(out, d)
		}
	}
	return out
}

// String renders the schedule for display:
// text schedules verbatim, structured ones as "Monday 09:00-10:00, Wednesday 09:00-10:00".
func (s Schedule) String() string {
	if !s.IsStructured() {
		if strings.TrimSpace(s.text) == "" {
			return noSchedule
		}
		return s.text
	}
	var parts []string
	for _, d := range Weekdays {
		if ds := s.days[d]; ds.Enabled {
			parts = append(parts, fmt.Sprintf("%s %s-%s", d.Title(), ds.StartTime, ds.EndTime))
		}
	}
	if len(parts) == 0 {
		return noSchedule
	}
	return strings.Join(parts, ", ")
}

func (s Schedule) clone() Schedule {
	if s.days == nil {
		return s
	}
	days := make(map[Weekday]DaySchedule, len(s.days))
	for d, ds := range s.days {
		days[d] = ds
	}
	return Schedule{days: days}
}

// ParseSchedule converts a text schedule such as "Mon, Wed, Fri - 10:00 AM" into a structured one.
// Every mentioned day is enabled for a one hour slot starting at the given time.
// Unparseable input yields every day disabled.
func ParseSchedule(text string) Schedule {
	s := Schedule{days: DefaultDays()}

	parts := strings.Split(text, " - ")
	if len(parts) != 2 {
		return s
	}
	daysStr := strings.ToLower(parts[0])
	start, end := defaultStartTime, defaultEndTime
	if st, et, ok := parseClock(parts[1]); ok {
		start, end = st, et
	}

	for _, d := range Weekdays {
		if strings.Contains(daysStr, d.Abbrev()) {
			s.days[d] = DaySchedule{Enabled: true, StartTime: start, EndTime: end}
		}
	}
	return s
}

// parseClock converts "2:00 PM" into ("14:00", "15:00").
func parseClock(timeStr string) (start, end string, ok bool) {
	pm := strings.Contains(timeStr, "PM")
	am := strings.Contains(timeStr, "AM")
	if !(am || pm) {
		return "", "", false
	}
	clock := strings.TrimSpace(strings.NewReplacer("AM", "", "PM", "").Replace(timeStr))
	hourStr, minute, found := strings.Cut(clock, ":")
	if !found || minute == "" {
		minute = "00"
	}
	hour, err := strconv.Atoi(strings.TrimSpace(hourStr))
	if err != nil || hour < 0 || hour > 12 {
		return "", "", false
	}

	switch {
	case pm && hour != 12:
		hour += 12
	case am && hour == 12:
		hour = 0
	}
	return fmt.Sprintf("%02d:%s", hour, minute), fmt.Sprintf("%02d:%s", (hour+1)%24, minute), true
}

// MarshalJSON encodes text schedules as a JSON string, structured ones as an object keyed by weekday.
func (s Schedule) MarshalJSON() ([]byte, error) {
	if !s.IsStructured() {
		return json.Marshal(s.text)
	}
	obj := make(map[Weekday]DaySchedule, len(s.days))
	for d, ds := range s.days {
		obj[d] = ds
	}
	return json.Marshal(obj)
}

func (s *Schedule) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = Schedule{}
		return nil
	case data[0] == '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return errors.Wrap(err, "decoding text schedule")
		}
		*s = TextSchedule(text)
		return nil
	case data[0] == '{':
		var days map[Weekday]DaySchedule
		if err := json.Unmarshal(data, &days); err != nil {
			return errors.Wrap(err, "decoding structured schedule")
		}
		for d := range days {
			if !isWeekday(d) {
				return errors.Errorf("unknown weekday %q", d)
			}
		}
		*s = StructuredSchedule(days)
		return nil
	}
	return errors.Errorf("schedule must be a string or an object, got %s", data)
}

// Value stores the schedule as JSON (jsonb column).
func (s Schedule) Value() (driver.Value, error) {
	b, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *Schedule) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = Schedule{}
		return nil
	case []byte:
		return s.UnmarshalJSON(v)
	case string:
		return s.UnmarshalJSON([]byte(v))
	}
	return errors.Errorf("cannot scan %T into Schedule", src)
}

func isWeekday(d Weekday) bool {
	for _, wd := range Weekdays {
		if wd == d {
			return true
		}
	}
	return false
}
