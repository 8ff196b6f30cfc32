// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package shard

import "bytes"

var cdnsMarker = []byte(`"p":"cdns"`)

// cnsNamespaceValue extracts the routing namespace literal ("cns" or
// "cdns") from a transaction's UserData already known to classify as
// a CNS transaction. cdns is checked first, so a payload carrying both
// markers routes to "cdns".
func cnsNamespaceValue(userData []byte) string {
	if bytes.Contains(userData, cdnsMarker) {
		return "cdns"
	}
	return "cns"
}
