package model

const (
	SlotAvailable = "available"
	SlotBusy      = "busy"
	SlotOff       = "off"
)

// AvailabilitySlot is the per-guide, per-date calendar entry. The id is the
// natural composite key `<guideID>_<date>` and writes are replace-upserts,
// so the last writer wins when a manual calendar edit races a booking
// confirmation.
type AvailabilitySlot struct {
	ID      string `json:"id" bson:"_id"`
	GuideID string `json:"guideId" bson:"guide_id"`
	Date    string `json:"date" bson:"date"`
	Status  string `json:"status" bson:"status"`
}

func SlotID(guideID, date string) string {
	return guideID + "_" + date
}
