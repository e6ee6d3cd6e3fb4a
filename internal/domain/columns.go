package domain

// Board column ids. These are static board configuration, fixed at deploy
// time together with the board id.
const (
	ReservationColumn = "text_mkv47vb1"
	UnitColumn        = "text_mkv49eqm"
	EmailColumn       = "email_mkv4mbte"
	PhoneColumn       = "phone_mkv4yk8k"
	CheckInColumn     = "date_mkv4npgx"
	CheckOutColumn    = "date_mkv46w1t"
	TotalColumn       = "numeric_mkv4n3qy"
	CurrencyColumn    = "text_mkv497t1"
	StatusColumn      = "color_mkv4zrs6"
)

// ColumnValues maps column ids to board-ready values. A key is present only
// if its source field resolved to a valid normalized value; invalid or
// missing fields are omitted entirely, never set to nil.
type ColumnValues map[string]any

// EmailValue is the board's email column shape.
type EmailValue struct {
	Email string `json:"email"`
	Text  string `json:"text"`
}

// PhoneValue holds an E.164-like phone: leading +, digits only.
type PhoneValue struct {
	Phone string `json:"phone"`
}

// DateValue holds a date as YYYY-MM-DD.
type DateValue struct {
	Date string `json:"date"`
}

// StatusValue selects a status label on the board.
type StatusValue struct {
	Label string `json:"label"`
}

// Status labels known to the board's status column.
const (
	StatusConfirmed = "Confirmed"
	StatusPending   = "Pending"
	StatusPaid      = "Paid"
	StatusCancelled = "Cancelled"
)
