// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

import "errors"

var (
	// ErrDuplicateVote is returned when a validator attempts to cast
	// more than one vote for the same vertex in the same round.
	ErrDuplicateVote = errors.New("consensus: validator already voted for this vertex in this round")

	// ErrSelfGossip is returned when a validator attempts to
	// gossip-vote on its own original vote.
	ErrSelfGossip = errors.New("consensus: validator cannot gossip-vote on its own vote")

	// ErrUnknownVertex is returned when a round operation names a
	// vertex hash with no vote record.
	ErrUnknownVertex = errors.New("consensus: no vote record for vertex")
)
