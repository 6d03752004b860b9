package model

import "time"

// Entry is one item of a fetched feed, in feed order.
type Entry struct {
	GUID      string
	Title     string
	Summary   string
	Link      string
	Published time.Time
}
