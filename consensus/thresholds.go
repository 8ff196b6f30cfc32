// Copyright (C) 2025, The vertexledger Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package consensus

// requiredVoteCount returns q_v, the minimum number of approving
// validators needed to reach consensus: floor(n*2/3) + 1.
func requiredVoteCount(n int) int {
	return (n*2)/3 + 1
}

// requiredStake returns q_s, the minimum accumulated voting stake
// needed to reach consensus: floor(totalStake*2/3) + 1.
func requiredStake(totalStake uint64) uint64 {
	return (totalStake*2)/3 + 1
}

// maxByzantineFaults returns f, the largest number of Byzantine
// validators the set can tolerate: floor((n-1)/3).
func maxByzantineFaults(n int) int {
	if n == 0 {
		return 0
	}
	return (n - 1) / 3
}

// requiredSafetyVotes returns 2f+1, the minimum number of supporting
// votes a finality proof must carry.
func requiredSafetyVotes(n int) int {
	return 2*maxByzantineFaults(n) + 1
}
