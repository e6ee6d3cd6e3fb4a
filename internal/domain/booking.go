package domain

// Booking is a raw reservation record as decoded from the source API.
// Lodgify (and the webhooks that relay it) do not enforce a schema: field
// names vary across producers and contact/price data may nest under
// guest/customer/price sub-records. Alias resolution happens in the mapper.
type Booking map[string]any

// SyncAction is the terminal action of one upsert.
type SyncAction string

const (
	ActionCreated SyncAction = "created"
	ActionUpdated SyncAction = "updated"
)

// UpsertResult reports the outcome of syncing a single booking.
// Exactly one of (ItemID, Action) or Error is populated.
type UpsertResult struct {
	ReservationID string     `json:"reservation_id,omitempty"`
	ItemID        string     `json:"id,omitempty"`
	Action        SyncAction `json:"action,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// SyncSample carries the first raw booking of a page and its mapped columns
// when a sync is run in debug mode.
type SyncSample struct {
	Raw    Booking      `json:"raw"`
	Mapped ColumnValues `json:"mapped"`
}

// SyncReport aggregates one page worth of upserts.
type SyncReport struct {
	Count   int            `json:"count"`
	Results []UpsertResult `json:"results"`
	Errors  []UpsertResult `json:"errors,omitempty"`
	Sample  *SyncSample    `json:"sample,omitempty"`
}
