package mempool

import (
	"math/big"

	"github.com/sat20-labs/mempoolsync/common"
)

// derivedPrecision is the number of decimal places kept in Vsize and
// FeePerVsize.
const derivedPrecision = 2

// NewTransactionExtended derives vsize and feePerVsize exactly once, at
// ingest, per the data model's immutability invariant. feePerVsize is
// defined as zero when fee is absent (zero) or vsize is zero, mirroring
// what the upstream reference does rather than what might be more
// correct; see the open question in the design notes. Upstream adapters
// call this to build the value they hand back from GetTransaction.
// Both values carry derivedPrecision decimal places: enough to hold
// weight/4 exactly, while feePerVsize is truncated to that many places.
func NewTransactionExtended(txid string, weight, fee, firstSeen int64, raw any) *TransactionExtended {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(derivedPrecision), nil)
	vsize := (&common.Decimal{
		Precition: derivedPrecision,
		Value:     new(big.Int).Mul(big.NewInt(weight), scale),
	}).Div(big.NewInt(4))

	var feePerVsize *common.Decimal
	if fee == 0 || vsize.Sign() == 0 {
		feePerVsize = common.NewDecimal(0, derivedPrecision)
	} else {
		// fee*scale^2 / (vsize*scale) = (fee/vsize)*scale
		num := new(big.Int).Mul(big.NewInt(fee), new(big.Int).Mul(scale, scale))
		feePerVsize = &common.Decimal{Precition: derivedPrecision, Value: num.Div(num, vsize.Value)}
	}

	return &TransactionExtended{
		Txid:        txid,
		Weight:      weight,
		Fee:         fee,
		Vsize:       vsize,
		FeePerVsize: feePerVsize,
		FirstSeen:   firstSeen,
		Raw:         raw,
	}
}
