package state

import "context"

// StagedItem is a menu item picked before it is pushed to the server cart.
type StagedItem struct {
	ID       int64   `json:"id"`
	PriceID  int64   `json:"price_id"`
	Name     string  `json:"name"`
	Size     string  `json:"size,omitempty"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Staging returns a copy of the staged items.
func (s *State) Staging() []StagedItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]StagedItem(nil), s.staging...)
}

// StagingTotal is the sum of price times quantity over staged items.
func (s *State) StagingTotal() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total float64
	for _, it := range s.staging {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// StageAdd adds item, or bumps its quantity by one when the same item and
// price are already staged.
func (s *State) StageAdd(ctx context.Context, item StagedItem) error {
	return s.mutateStaging(ctx, func(items []StagedItem) []StagedItem {
		for i := range items {
			if items[i].ID == item.ID && items[i].PriceID == item.PriceID {
				items[i].Quantity++
				return items
			}
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		return append(items, item)
	})
}

// StageIncrease adds one to the quantity of item id.
func (s *State) StageIncrease(ctx context.Context, id int64) error {
	return s.mutateStaging(ctx, func(items []StagedItem) []StagedItem {
		for i := range items {
			if items[i].ID == id {
				items[i].Quantity++
			}
		}
		return items
	})
}

// StageDecrease removes one from the quantity of item id and drops it at zero.
func (s *State) StageDecrease(ctx context.Context, id int64) error {
	return s.mutateStaging(ctx, func(items []StagedItem) []StagedItem {
		out := items[:0]
		for _, it := range items {
			if it.ID == id {
				it.Quantity--
				if it.Quantity <= 0 {
					continue
				}
			}
			out = append(out, it)
		}
		return out
	})
}

// StageRemove drops item id.
func (s *State) StageRemove(ctx context.Context, id int64) error {
	return s.mutateStaging(ctx, func(items []StagedItem) []StagedItem {
		out := items[:0]
		for _, it := range items {
			if it.ID != id {
				out = append(out, it)
			}
		}
		return out
	})
}

// StageClear empties the staged cart.
func (s *State) StageClear(ctx context.Context) error {
	return s.mutateStaging(ctx, func([]StagedItem) []StagedItem {
		return nil
	})
}

func (s *State) mutateStaging(ctx context.Context, fn func([]StagedItem) []StagedItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fn(append([]StagedItem(nil), s.staging...))
	if next == nil {
		next = []StagedItem{}
	}
	if err := s.save(ctx, KeyStaging, next); err != nil {
		return err
	}
	s.staging = next
	return nil
}
