package model

// Location is a serviceable place (city, suburb, depot catchment).
type Location struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"` // derived from name when not supplied, stable once set
	Country string `json:"country"`
}

func (l *Location) RecordID() int64      { return l.ID }
func (l *Location) SetRecordID(id int64) { l.ID = id }
