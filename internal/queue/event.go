// Package queue defines message payloads exchanged over the message broker.
package queue

// VisitRecordedEvent is published when a service visit and its items have
// been committed.  It carries enough information for downstream consumers
// (accounting export, customer notification) to act without querying the
// primary database.
type VisitRecordedEvent struct {
	VisitID       uint64  `json:"visit_id"`
	VehicleID     uint64  `json:"vehicle_id"`
	Plate         string  `json:"plate"`
	VisitCategory string  `json:"visit_category"`
	ItemCount     int     `json:"item_count"`
	GrandTotal    float64 `json:"grand_total"`
	RecordedAt    string  `json:"recorded_at"`
}
