package mempool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTransactionExtended_DerivedFields(t *testing.T) {
	now := time.Now().Unix()

	tx := NewTransactionExtended("A", 1200, 600, now, nil)
	assert.Equal(t, "300", tx.Vsize.String())
	assert.Equal(t, "2", tx.FeePerVsize.String())
	assert.Equal(t, now, tx.FirstSeen)

	noFee := NewTransactionExtended("B", 1200, 0, now, nil)
	assert.Equal(t, int64(0), noFee.FeePerVsize.Value.Int64())

	zeroWeight := NewTransactionExtended("C", 0, 600, now, nil)
	assert.Equal(t, "0", zeroWeight.Vsize.String())
	assert.Equal(t, int64(0), zeroWeight.FeePerVsize.Value.Int64())
}
