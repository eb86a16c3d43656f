package domain

import (
	"errors"
	"strings"
	"time"
)

// Slot is one of the three fixed daily windows a hall can be reserved for.
type Slot string

const (
	SlotMorning Slot = "morning"
	SlotEvening Slot = "evening"
	SlotFullDay Slot = "full_day"
)

// SlotPart is a half-day cell. A reservation occupies one or two cells and
// two slots conflict exactly when their cells intersect.
type SlotPart string

const (
	PartAM SlotPart = "am"
	PartPM SlotPart = "pm"
)

const DayLayout = "2006-01-02"

var (
	ErrUnknownSlot = errors.New("unknown slot")
	ErrInvalidDay  = errors.New("invalid date")
)

type slotDef struct {
	start string
	end   string
	parts []SlotPart
}

var slotCatalog = map[Slot]slotDef{
	SlotMorning: {start: "08:00", end: "12:00", parts: []SlotPart{PartAM}},
	SlotEvening: {start: "18:00", end: "22:00", parts: []SlotPart{PartPM}},
	SlotFullDay: {start: "09:00", end: "18:00", parts: []SlotPart{PartAM, PartPM}},
}

// AllSlots returns the catalog in display order.
func AllSlots() []Slot {
	return []Slot{SlotMorning, SlotEvening, SlotFullDay}
}

// ParseSlot accepts the canonical names and the short identifiers used by
// the calendar widget (am, pm, udur).
func ParseSlot(s string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "morning", "am":
		return SlotMorning, nil
	case "evening", "pm":
		return SlotEvening, nil
	case "full_day", "full-day", "fullday", "udur":
		return SlotFullDay, nil
	}
	return "", ErrUnknownSlot
}

func (s Slot) Valid() bool {
	_, ok := slotCatalog[s]
	return ok
}

// Window returns the start and end time-of-day labels, e.g. "08:00", "12:00".
func (s Slot) Window() (string, string) {
	d := slotCatalog[s]
	return d.start, d.end
}

func (s Slot) Parts() []SlotPart {
	return slotCatalog[s].parts
}

// Conflicts reports whether s and other cannot both be active on the same
// hall and day. full_day conflicts with everything, morning and evening
// only with full_day and themselves.
func (s Slot) Conflicts(other Slot) bool {
	for _, a := range s.Parts() {
		for _, b := range other.Parts() {
			if a == b {
				return true
			}
		}
	}
	return false
}

// ConflictsWith lists the catalog slots that conflict with s, excluding s.
func (s Slot) ConflictsWith() []Slot {
	out := make([]Slot, 0, 2)
	for _, o := range AllSlots() {
		if o != s && s.Conflicts(o) {
			out = append(out, o)
		}
	}
	return out
}

// ParseDay parses a YYYY-MM-DD calendar day into UTC midnight.
func ParseDay(s string) (time.Time, error) {
	d, err := time.Parse(DayLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDay
	}
	return d, nil
}

// TruncateDay drops the time-of-day component, keeping the calendar day as
// seen in t's location.
func TruncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}
