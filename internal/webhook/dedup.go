package webhook

import (
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// deliveryDedup remembers recently appended delivery ids.
type deliveryDedup struct {
	mu   sync.Mutex
	seen *expirable.LRU[string, struct{}]
}

func newDeliveryDedup(cfg DedupConfig) *deliveryDedup {
	if cfg.Size <= 0 {
		cfg.Size = DefaultDedupSize
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultDedupTTL
	}
	return &deliveryDedup{
		seen: expirable.NewLRU[string, struct{}](cfg.Size, nil, cfg.TTL),
	}
}

// FirstSeen records id and reports whether it was new. Empty ids are always new.
func (d *deliveryDedup) FirstSeen(id string) bool {
	if id == "" {
		return true
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen.Contains(id) {
		return false
	}
	d.seen.Add(id, struct{}{})
	return true
}
