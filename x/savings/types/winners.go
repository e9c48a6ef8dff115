package types

import (
	"crypto/sha256"
	"encoding/binary"
)

// SelectWinners deterministically picks winnerCount distinct indices out
// of eligibleCount from a single random seed. Each slot hashes the seed
// with its slot number; collisions resolve by linear probing with
// wrap-around.
func SelectWinners(seed uint64, eligibleCount, winnerCount int64) ([]int64, error) {
	if eligibleCount <= 0 {
		return nil, ErrNoEligible
	}
	if winnerCount > eligibleCount {
		return nil, ErrTooManyWinners
	}

	taken := make(map[int64]bool, winnerCount)
	winners := make([]int64, 0, winnerCount)
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], seed)

	for slot := int64(0); slot < winnerCount; slot++ {
		binary.BigEndian.PutUint64(buf[8:], uint64(slot))
		digest := sha256.Sum256(buf[:])
		idx := int64(binary.BigEndian.Uint64(digest[:8]) % uint64(eligibleCount))
		for taken[idx] {
			idx = (idx + 1) % eligibleCount
		}
		taken[idx] = true
		winners = append(winners, idx)
	}
	return winners, nil
}
