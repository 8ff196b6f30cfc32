// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package vertex

import (
	"bytes"
	"unicode/utf8"
)

// DefaultNamespace is the namespace assigned to every transaction that
// does not classify as a CNS transaction.
const DefaultNamespace = "default"

var (
	cnsMarker    = []byte(`"p":"cns"`)
	cdnsMarker   = []byte(`"p":"cdns"`)
	mintMarker   = []byte(`"op":"mint"`)
	deployMarker = []byte(`"op":"deploy"`)
)

// IsCNSTransaction reports whether the transaction's UserData looks
// like a CNS/CDNS naming-service payload: valid UTF-8 containing the
// literal `"p":"cns"` or `"p":"cdns"`. This is a conservative
// substring test by design — full JSON parsing is not
// required.
func (tx Transaction) IsCNSTransaction() bool {
	if !utf8.Valid(tx.UserData) {
		return false
	}
	return bytes.Contains(tx.UserData, cnsMarker) || bytes.Contains(tx.UserData, cdnsMarker)
}

// IsOrdinalTransaction reports whether the transaction's UserData
// contains `"op":"mint"` or `"op":"deploy"`.
func (tx Transaction) IsOrdinalTransaction() bool {
	if !utf8.Valid(tx.UserData) {
		return false
	}
	return bytes.Contains(tx.UserData, mintMarker) || bytes.Contains(tx.UserData, deployMarker)
}
