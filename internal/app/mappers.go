package app

import (
	"lodgify_sync/internal/domain"
)

/********** alias registry (single source of truth) **********/

// Ordered per logical field; earlier producers win. Dot paths reach into
// nested sub-records.
var bookingAliases = map[string][]string{
	"reservation_id": {"reservation_id", "id", "reservationId"},
	"unit":           {"unit", "unit_name", "unitName", "rental_name"},
	"email":          {"email"},
	"phone":          {"phone", "telephone", "mobile"},
	"check_in":       {"check_in", "arrival", "checkIn", "stayArrival"},
	"check_out":      {"check_out", "departure", "checkOut", "stayDeparture"},
	"total":          {"total", "total_amount", "totalAmount", "price_total", "price.total"},
	"currency":       {"currency", "currency_code", "price.currency"},
	"status":         {"status"},
}

// contactRecord picks the sub-record that carries guest contact fields.
// Lodgify uses "guest"; some webhook relays use "customer".
func contactRecord(m map[string]any) map[string]any {
	for _, k := range []string{"guest", "customer"} {
		if sub, ok := m[k].(map[string]any); ok {
			return sub
		}
	}
	return nil
}

/********** booking mapper **********/

// MapBookingToColumns assembles board column values from a raw booking.
// Each field resolves independently through its alias list; a field that is
// missing or fails normalization is omitted from the output rather than set
// to a null value. Pure: mapping the same booking twice yields the same
// columns.
func MapBookingToColumns(b domain.Booking) domain.ColumnValues {
	m := map[string]any(b)
	guest := contactRecord(m)

	cols := domain.ColumnValues{}

	if rid := asString(firstPresent(m, bookingAliases["reservation_id"]...)); rid != "" {
		cols[domain.ReservationColumn] = rid
	}
	if unit := asString(firstPresent(m, bookingAliases["unit"]...)); unit != "" {
		cols[domain.UnitColumn] = unit
	}
	if email := asString(firstPresent(guest, bookingAliases["email"]...)); email != "" {
		cols[domain.EmailColumn] = domain.EmailValue{Email: email, Text: email}
	}
	if phone := NormalizePhone(asString(firstPresent(guest, bookingAliases["phone"]...))); phone != "" {
		cols[domain.PhoneColumn] = domain.PhoneValue{Phone: phone}
	}
	if d := ParseDate(asString(firstPresent(m, bookingAliases["check_in"]...))); d != "" {
		cols[domain.CheckInColumn] = domain.DateValue{Date: d}
	}
	if d := ParseDate(asString(firstPresent(m, bookingAliases["check_out"]...))); d != "" {
		cols[domain.CheckOutColumn] = domain.DateValue{Date: d}
	}
	if total, ok := CoerceAmount(firstPresent(m, bookingAliases["total"]...)); ok {
		cols[domain.TotalColumn] = total
	}
	if cur := asString(firstPresent(m, bookingAliases["currency"]...)); cur != "" {
		cols[domain.CurrencyColumn] = cur
	}
	cols[domain.StatusColumn] = domain.StatusValue{
		Label: NormalizeStatus(asString(firstPresent(m, bookingAliases["status"]...))),
	}

	return cols
}
