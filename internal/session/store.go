package session

import (
	"context"
	"time"

	"github.com/Skotchmaster/stock_dashboard/internal/logging"
)

const DefaultTTL = 7 * 24 * time.Hour

// Store is the single owner of the session slot format.
type Store struct {
	Codec Codec
	TTL   time.Duration
	Now   func() time.Time
}

func NewStore(codec Codec, ttl time.Duration) *Store {
	if codec == nil {
		codec = JSONCodec{}
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{Codec: codec, TTL: ttl}
}

// Save writes s to the slot with the store's expiry.
func (st *Store) Save(ctx context.Context, slot Slot, s Session) {
	expires := st.now().Add(st.TTL)
	raw, err := st.Codec.Encode(s, expires)
	if err != nil {
		logging.FromContext(ctx).Error("session_save_failed", "username", s.Username, "error", err)
		return
	}
	slot.Write(raw, expires)
}

// Load returns the stored session, or false when the slot is empty or its
// content does not decode into a valid session.
func (st *Store) Load(slot Slot) (Session, bool) {
	raw, ok := slot.Read()
	if !ok {
		return Session{}, false
	}
	s, err := st.Codec.Decode(raw)
	if err != nil {
		return Session{}, false
	}
	return s, true
}

func (st *Store) Clear(slot Slot) {
	slot.Remove()
}

func (st *Store) now() time.Time {
	if st.Now != nil {
		return st.Now()
	}
	return time.Now()
}
