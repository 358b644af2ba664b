package model

// TimeSlot is one bookable unit within a business's open hours on a
// given date, as reported by the backend's availability procedure. The
// busy flag only disables selection; the client never derives
// availability itself.
type TimeSlot struct {
	Time      string `db:"time_slot" json:"time_slot"`
	Available bool   `db:"is_available" json:"is_available"`
	Status    string `db:"status" json:"status"`
}

// DaySchedule is the rendered availability for one date.
type DaySchedule struct {
	Date            string     `json:"date"`
	Slots           []TimeSlot `json:"slots"`
	SelectableCount int        `json:"selectable_count"`
}
