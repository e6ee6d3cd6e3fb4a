package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"lodgify_sync/internal/adapters/observability"
	"lodgify_sync/internal/domain"
)

// SyncService upserts bookings onto the board: map to columns, look up the
// item by reservation id, then create or update. Each booking is processed
// independently; one record's failure never aborts its siblings.
type SyncService struct {
	board   domain.BoardClient
	source  domain.SourceClient
	cache   domain.Cache
	boardID string
	groupID string
	ttl     time.Duration
}

func NewSyncService(board domain.BoardClient, source domain.SourceClient, cache domain.Cache, boardID, groupID string, ttl time.Duration) *SyncService {
	return &SyncService{board: board, source: source, cache: cache, boardID: boardID, groupID: groupID, ttl: ttl}
}

// UpsertBooking syncs one booking and reports the terminal outcome. Remote
// failures are captured in the result, not returned: the caller's loop keeps
// going.
func (s *SyncService) UpsertBooking(ctx context.Context, b domain.Booking) domain.UpsertResult {
	cols := MapBookingToColumns(b)
	rid, _ := cols[domain.ReservationColumn].(string)
	res := domain.UpsertResult{ReservationID: rid}

	var itemID string
	if rid != "" {
		var err error
		itemID, err = s.findExisting(ctx, rid)
		if err != nil {
			return s.fail(res, rid, "lookup", err)
		}
	}

	if itemID != "" {
		updatedID, err := s.board.UpdateItem(ctx, itemID, s.boardID, cols)
		if err != nil {
			return s.fail(res, rid, "update", err)
		}
		s.cacheItem(ctx, rid, updatedID)
		observability.ObserveSync(string(domain.ActionUpdated))
		log.Info().Str("item_id", updatedID).Str("reservation_id", rid).Msg("updated item")
		res.ItemID = updatedID
		res.Action = domain.ActionUpdated
		return res
	}

	name := "Reservation"
	if rid != "" {
		name = "Reservation " + rid
	}
	createdID, err := s.board.CreateItem(ctx, s.boardID, s.groupID, name, cols)
	if err != nil {
		return s.fail(res, rid, "create", err)
	}
	s.cacheItem(ctx, rid, createdID)
	observability.ObserveSync(string(domain.ActionCreated))
	log.Info().Str("item_id", createdID).Str("reservation_id", rid).Msg("created item")
	res.ItemID = createdID
	res.Action = domain.ActionCreated
	return res
}

// SyncAll fetches one page from the source and upserts every booking on it,
// sequentially. The fetch itself failing is the only error returned; record
// failures land in the report.
func (s *SyncService) SyncAll(ctx context.Context, limit, skip int, debug bool) (domain.SyncReport, error) {
	bookings, err := s.source.FetchBookings(ctx, limit, skip)
	if err != nil {
		return domain.SyncReport{}, err
	}
	log.Info().Int("count", len(bookings)).Int("skip", skip).Msg("fetched bookings")

	rep := domain.SyncReport{Results: make([]domain.UpsertResult, 0, len(bookings))}
	for i, b := range bookings {
		res := s.UpsertBooking(ctx, b)
		rep.Results = append(rep.Results, res)
		if res.Error != "" {
			rep.Errors = append(rep.Errors, res)
		}
		if debug && i == 0 {
			rep.Sample = &domain.SyncSample{Raw: b, Mapped: MapBookingToColumns(b)}
		}
	}
	rep.Count = len(rep.Results)
	return rep, nil
}

// findExisting resolves a reservation id to a board item id, consulting the
// lookup cache first. A board without the reservation column configured
// reports ErrColumnNotFound; that degrades to "no match" so the record is
// created instead.
func (s *SyncService) findExisting(ctx context.Context, rid string) (string, error) {
	key := s.cacheKey(rid)
	if s.cache != nil {
		var cached string
		if ok, _ := s.cache.Get(ctx, key, &cached); ok && cached != "" {
			return cached, nil
		}
	}
	itemID, err := s.board.LookupItem(ctx, s.boardID, domain.ReservationColumn, rid)
	if err != nil {
		if errors.Is(err, domain.ErrColumnNotFound) {
			log.Warn().Str("reservation_id", rid).Err(err).Msg("lookup column missing, treating as no match")
			return "", nil
		}
		return "", err
	}
	return itemID, nil
}

func (s *SyncService) fail(res domain.UpsertResult, rid, stage string, err error) domain.UpsertResult {
	observability.ObserveSync("failed")
	log.Error().Str("reservation_id", rid).Str("stage", stage).Err(err).Msg("upsert failed")
	res.Error = err.Error()
	return res
}

func (s *SyncService) cacheItem(ctx context.Context, rid, itemID string) {
	if s.cache == nil || rid == "" || itemID == "" {
		return
	}
	_ = s.cache.Set(ctx, s.cacheKey(rid), itemID, int(s.ttl.Seconds()))
}

func (s *SyncService) cacheKey(rid string) string {
	return fmt.Sprintf("item:%s:%s", s.boardID, rid)
}
