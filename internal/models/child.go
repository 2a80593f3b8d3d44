package models

import "time"

// Child is the learner whose training sessions are analyzed.
type Child struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// ReportExport is one audit row recorded after a successful PDF export.
type ReportExport struct {
	ID          string    `json:"id"`
	ChildID     string    `json:"childId"`
	RequestedBy string    `json:"requestedBy"`
	Bytes       int64     `json:"bytes"`
	CreatedAt   time.Time `json:"createdAt"`
}
