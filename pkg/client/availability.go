package client

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// AvailabilityView holds the most recently loaded slot grid per
// resource-and-day key. Refreshes for the same key may overlap in flight;
// only the newest request is allowed to write, so a slow early response can
// never overwrite a later one.
type AvailabilityView struct {
	mu      sync.Mutex
	gateway *Gateway
	seq     map[string]uint64
	slots   map[string][]AvailabilitySlot
	log     zerolog.Logger
}

func NewAvailabilityView(gateway *Gateway, log zerolog.Logger) *AvailabilityView {
	return &AvailabilityView{
		gateway: gateway,
		seq:     make(map[string]uint64),
		slots:   make(map[string][]AvailabilitySlot),
		log:     log,
	}
}

func viewKey(resourceID string, day time.Time) string {
	return resourceID + "@" + day.UTC().Format("2006-01-02")
}

// Refresh fetches the grid for one resource and day and stores it under that
// key, unless a newer Refresh for the same key started in the meantime, in
// which case the result is discarded and the stored state is returned
// untouched. A failed stale refresh is only logged.
func (v *AvailabilityView) Refresh(ctx context.Context, resourceID string, day time.Time) ([]AvailabilitySlot, error) {
	key := viewKey(resourceID, day)

	v.mu.Lock()
	v.seq[key]++
	token := v.seq[key]
	v.mu.Unlock()

	slots, err := v.gateway.Availability(ctx, resourceID, day)

	v.mu.Lock()
	defer v.mu.Unlock()
	if token != v.seq[key] {
		if err != nil {
			v.log.Debug().Err(err).Str("key", key).Msg("stale availability refresh failed")
		}
		return v.slots[key], nil
	}
	if err != nil {
		return nil, err
	}
	v.slots[key] = slots
	return slots, nil
}

// Slots returns the stored grid for a key, or false when nothing has been
// loaded for it yet.
func (v *AvailabilityView) Slots(resourceID string, day time.Time) ([]AvailabilitySlot, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	slots, ok := v.slots[viewKey(resourceID, day)]
	return slots, ok
}

// Invalidate drops the stored grid for a key, forcing the next Refresh to
// hit the gateway.
func (v *AvailabilityView) Invalidate(resourceID string, day time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.slots, viewKey(resourceID, day))
}
