package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lodgify_sync/internal/app"
	"lodgify_sync/internal/domain"
)

// ---- fakes ----

type fakeBoard struct {
	lookupID   string
	lookupErr  error
	lookupHits int

	createID   string
	createErr  error
	failRID    string // create fails only for this reservation id
	createName string
	createCols domain.ColumnValues
	created    int

	updateID     string
	updateErr    error
	updatedItem  string
	updatedCols  domain.ColumnValues
	updatedCalls int
}

func (f *fakeBoard) LookupItem(ctx context.Context, boardID, columnID, value string) (string, error) {
	f.lookupHits++
	if f.lookupErr != nil {
		return "", f.lookupErr
	}
	return f.lookupID, nil
}

func (f *fakeBoard) CreateItem(ctx context.Context, boardID, groupID, name string, cols domain.ColumnValues) (string, error) {
	f.created++
	f.createName = name
	f.createCols = cols
	if f.createErr != nil {
		return "", f.createErr
	}
	if f.failRID != "" && cols[domain.ReservationColumn] == f.failRID {
		return "", errors.New("monday: internal server error")
	}
	return f.createID, nil
}

func (f *fakeBoard) UpdateItem(ctx context.Context, itemID, boardID string, cols domain.ColumnValues) (string, error) {
	f.updatedCalls++
	f.updatedItem = itemID
	f.updatedCols = cols
	if f.updateErr != nil {
		return "", f.updateErr
	}
	return f.updateID, nil
}

type fakeSource struct {
	pages [][]domain.Booking
	err   error
	calls int
}

func (f *fakeSource) FetchBookings(ctx context.Context, limit, skip int) ([]domain.Booking, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.pages) == 0 {
		return nil, nil
	}
	page := f.pages[0]
	f.pages = f.pages[1:]
	return page, nil
}

type fakeCache struct {
	store map[string]string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	if p, ok := dst.(*string); ok {
		*p = v
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]string{}
	}
	if s, ok := v.(string); ok {
		c.store[key] = s
	}
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

func newService(b *fakeBoard, src *fakeSource, c domain.Cache) *app.SyncService {
	return app.NewSyncService(b, src, c, "board-1", "topics", 15*time.Minute)
}

// ---- tests ----

func TestUpsertBooking_NoMatchCreates(t *testing.T) {
	board := &fakeBoard{createID: "item-77"}
	svc := newService(board, &fakeSource{}, nil)

	res := svc.UpsertBooking(context.Background(), fixtureBooking())

	require.Empty(t, res.Error)
	assert.Equal(t, domain.ActionCreated, res.Action)
	assert.Equal(t, "item-77", res.ItemID)
	assert.Equal(t, "ABC123", res.ReservationID)
	assert.Equal(t, 1, board.lookupHits)
	assert.Equal(t, "Reservation ABC123", board.createName)
	assert.Equal(t, "ABC123", board.createCols[domain.ReservationColumn])
}

func TestUpsertBooking_MatchUpdates(t *testing.T) {
	board := &fakeBoard{lookupID: "item-5", updateID: "item-5"}
	svc := newService(board, &fakeSource{}, nil)

	res := svc.UpsertBooking(context.Background(), fixtureBooking())

	require.Empty(t, res.Error)
	assert.Equal(t, domain.ActionUpdated, res.Action)
	assert.Equal(t, "item-5", res.ItemID)
	assert.Equal(t, "item-5", board.updatedItem)
	assert.Zero(t, board.created)
	assert.Equal(t, board.updatedCols, app.MapBookingToColumns(fixtureBooking()))
}

func TestUpsertBooking_BenignLookupErrorCreates(t *testing.T) {
	board := &fakeBoard{
		lookupErr: fmt.Errorf("%w: Column not found", domain.ErrColumnNotFound),
		createID:  "item-9",
	}
	svc := newService(board, &fakeSource{}, nil)

	res := svc.UpsertBooking(context.Background(), fixtureBooking())

	require.Empty(t, res.Error)
	assert.Equal(t, domain.ActionCreated, res.Action)
	assert.Equal(t, 1, board.created)
}

func TestUpsertBooking_FatalLookupErrorFailsRecord(t *testing.T) {
	board := &fakeBoard{lookupErr: errors.New("monday: http 500")}
	svc := newService(board, &fakeSource{}, nil)

	res := svc.UpsertBooking(context.Background(), fixtureBooking())

	assert.Equal(t, "ABC123", res.ReservationID)
	assert.Contains(t, res.Error, "http 500")
	assert.Empty(t, res.Action)
	assert.Zero(t, board.created)
}

func TestUpsertBooking_CreateErrorFailsRecord(t *testing.T) {
	board := &fakeBoard{createErr: errors.New("monday: rate limited")}
	svc := newService(board, &fakeSource{}, nil)

	res := svc.UpsertBooking(context.Background(), fixtureBooking())

	assert.Contains(t, res.Error, "rate limited")
	assert.Empty(t, res.ItemID)
}

func TestUpsertBooking_UpdateErrorFailsRecord(t *testing.T) {
	board := &fakeBoard{lookupID: "item-5", updateErr: errors.New("monday: http 500")}
	svc := newService(board, &fakeSource{}, nil)

	res := svc.UpsertBooking(context.Background(), fixtureBooking())

	assert.Contains(t, res.Error, "http 500")
	assert.Empty(t, res.Action)
	assert.Zero(t, board.created)
}

func TestUpsertBooking_NoReservationIDSkipsLookup(t *testing.T) {
	board := &fakeBoard{createID: "item-1"}
	svc := newService(board, &fakeSource{}, nil)

	res := svc.UpsertBooking(context.Background(), domain.Booking{"unit": "Unit 1"})

	require.Empty(t, res.Error)
	assert.Empty(t, res.ReservationID)
	assert.Zero(t, board.lookupHits)
	assert.Equal(t, "Reservation", board.createName)
	assert.Equal(t, domain.ActionCreated, res.Action)
}

func TestUpsertBooking_CacheHitSkipsLookup(t *testing.T) {
	board := &fakeBoard{updateID: "item-3"}
	cache := &fakeCache{store: map[string]string{"item:board-1:ABC123": "item-3"}}
	svc := newService(board, &fakeSource{}, cache)

	res := svc.UpsertBooking(context.Background(), fixtureBooking())

	require.Empty(t, res.Error)
	assert.Equal(t, domain.ActionUpdated, res.Action)
	assert.Zero(t, board.lookupHits)
	assert.Equal(t, "item-3", board.updatedItem)
}

func TestUpsertBooking_CreateRefreshesCache(t *testing.T) {
	board := &fakeBoard{createID: "item-42"}
	cache := &fakeCache{}
	svc := newService(board, &fakeSource{}, cache)

	res := svc.UpsertBooking(context.Background(), fixtureBooking())

	require.Equal(t, domain.ActionCreated, res.Action)
	assert.Equal(t, "item-42", cache.store["item:board-1:ABC123"])
}

func TestSyncAll_IsolatesRecordFailures(t *testing.T) {
	bad := domain.Booking{"id": "BAD1", "status": "pending"}
	good := fixtureBooking()
	board := &fakeBoard{createID: "item-1", failRID: "BAD1"}
	src := &fakeSource{pages: [][]domain.Booking{{bad, good}}}
	svc := newService(board, src, nil)

	rep, err := svc.SyncAll(context.Background(), 50, 0, false)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Count)
	require.Len(t, rep.Results, 2)
	require.Len(t, rep.Errors, 1)

	assert.Equal(t, "BAD1", rep.Results[0].ReservationID)
	assert.Contains(t, rep.Results[0].Error, "internal server error")
	assert.Equal(t, domain.ActionCreated, rep.Results[1].Action)
	assert.Equal(t, "ABC123", rep.Results[1].ReservationID)
}

func TestSyncAll_FetchErrorPropagates(t *testing.T) {
	src := &fakeSource{err: errors.New("lodgify: http 502")}
	svc := newService(&fakeBoard{}, src, nil)

	_, err := svc.SyncAll(context.Background(), 50, 0, false)
	assert.ErrorContains(t, err, "http 502")
}

func TestSyncAll_DebugCapturesFirstBooking(t *testing.T) {
	b := fixtureBooking()
	src := &fakeSource{pages: [][]domain.Booking{{b}}}
	svc := newService(&fakeBoard{createID: "item-1"}, src, nil)

	rep, err := svc.SyncAll(context.Background(), 50, 0, true)
	require.NoError(t, err)
	require.NotNil(t, rep.Sample)
	assert.Equal(t, b, rep.Sample.Raw)
	assert.Equal(t, app.MapBookingToColumns(b), rep.Sample.Mapped)
}
