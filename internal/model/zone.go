package model

import "github.com/lib/pq"

// Zone groups locations for pickup/shipping pricing. Locations are
// referenced by name, not id: renaming a location orphans the reference
// and that is accepted behavior, the console never auto-migrates it.
type Zone struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Locations   pq.StringArray `json:"locations"`
	Description string         `json:"description"`
}

func (z *Zone) RecordID() int64      { return z.ID }
func (z *Zone) SetRecordID(id int64) { z.ID = id }
