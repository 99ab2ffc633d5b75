package engine

// evict saturates id. The caller drops it from its live range.
func (e *Engine) evict(id int32) {
	e.ranks[id] = e.maxRank + 1
	e.evicted.Add(1)
	if e.ledger != nil {
		e.ledgerMu.Lock()
		e.ledger.Add(uint32(id))
		e.ledgerMu.Unlock()
	}
}

// adoptEvicted accounts for the identities a hybrid hook moved to
// [from, until).
func (e *Engine) adoptEvicted(from, until int) {
	for _, id := range e.indices[from:until] {
		if e.ranks[id] != e.maxRank+1 {
			internalf("hook evicted identity %d with rank %d, ceiling %d", id, e.ranks[id], e.maxRank)
		}
		e.evict(id)
	}
}

// verifyLedger checks that exactly the identities in the ledger carry the
// saturated rank.
func (e *Engine) verifyLedger(unique int) {
	evicted := e.evicted.Load()
	if card := e.ledger.GetCardinality(); card != uint64(evicted) {
		internalf("ledger holds %d identities, %d evictions counted", card, evicted)
	}

	saturated := e.maxRank + 1
	for id, r := range e.ranks[:unique] {
		switch {
		case r > saturated || r < 0:
			internalf("identity %d has rank %d outside [0, %d]", id, r, saturated)
		case (r == saturated) != e.ledger.Contains(uint32(id)):
			internalf("identity %d has rank %d but ledger membership %t", id, r, e.ledger.Contains(uint32(id)))
		}
	}
}
