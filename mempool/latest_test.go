package mempool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLatestArrivals_NewestFirstAndBounded(t *testing.T) {
	stripper := func(tx *TransactionExtended) any { return tx.Txid }
	l := newLatestArrivals(3, stripper)

	for _, id := range []string{"A", "B", "C", "D"} {
		l.push(NewTransactionExtended(id, 400, 100, time.Now().Unix(), nil))
	}

	snap := l.snapshot()
	assert.Len(t, snap, 3)
	assert.Equal(t, []any{"D", "C", "B"}, snap)
}

func TestLatestArrivals_DefaultStripperPassesThrough(t *testing.T) {
	l := newLatestArrivals(1, nil)
	tx := NewTransactionExtended("A", 400, 100, time.Now().Unix(), nil)
	l.push(tx)
	assert.Equal(t, []any{tx}, l.snapshot())
}
