package model

import "time"

// Batch is one fill-loop iteration's worth of generated records.
type Batch struct {
	ID        string
	Records   []RawRecord
	CreatedAt time.Time
}
