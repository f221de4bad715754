package binder

import (
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Holder publishes the current binding table. Readers always see a complete
// table; a failed rebuild leaves the previous one in place.
type Holder struct {
	current atomic.Pointer[Table]
	group   singleflight.Group
	log     *slog.Logger
	metrics *Metrics
}

// NewHolder returns a Holder publishing t, which may be nil.
func NewHolder(t *Table, log *slog.Logger, metrics *Metrics) *Holder {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	h := &Holder{log: log, metrics: metrics}
	if t != nil {
		h.current.Store(t)
	}
	return h
}

// Load returns the current table, or nil before the first successful build.
func (h *Holder) Load() *Table {
	return h.current.Load()
}

// Rebuild runs build and publishes its table on success. Concurrent calls
// share a single build.
func (h *Holder) Rebuild(build func() (*Table, error)) (*Table, error) {
	v, err, shared := h.group.Do("rebuild", func() (any, error) {
		t, err := build()
		h.metrics.observeRebuild(err)
		if err != nil {
			h.log.Error("rebuild failed, keeping current table", slog.Any("error", err))
			return nil, err
		}
		h.current.Store(t)
		h.log.Info("table published", slog.Int("models", t.Len()))
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		h.log.Debug("rebuild shared with concurrent caller")
	}
	return v.(*Table), nil
}
