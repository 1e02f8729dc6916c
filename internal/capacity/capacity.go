// internal/capacity/capacity.go
package capacity

import (
	"fmt"

	"leadcredit/internal/domain"
	"leadcredit/internal/util"
)

// IsAdmissible reports whether one more allocation at level fits a lead that
// currently holds count allocations and allows maxShared shared ones.
//
// Level 0 is an exclusive request and needs an untouched lead. A shared request
// is bounded by the tighter of the buyer's own ceiling (level+1 total buyers)
// and the lead's ceiling (maxShared+1).
func IsAdmissible(level, count, maxShared int) bool {
	if level < 0 || level > 4 {
		return false
	}
	if level == domain.ExclusiveLevel {
		return count == 0
	}
	return count+1 <= min(level+1, maxShared+1)
}

// Snapshot is the capacity row of a lead as read under its row lock.
type Snapshot struct {
	AllocationCount int
	MaxShared       int
	HasExclusive    bool
	State           domain.PublicationState
}

// SnapshotOf builds a Snapshot from a locked lead.
func SnapshotOf(lead *domain.Lead) Snapshot {
	return Snapshot{
		AllocationCount: lead.AllocationCount,
		MaxShared:       lead.MaxSharedAllocations,
		HasExclusive:    lead.HasExclusive,
		State:           lead.PublicationState,
	}
}

// Admit decides whether an allocation at level may be granted on the lead
// described by s. It returns nil or one of ErrInvalidCompetitionLevel,
// ErrAlreadyExclusive and ErrCapacityExceeded.
func Admit(s Snapshot, level int) error {
	if level < 0 || level > 4 {
		return fmt.Errorf("capacity: level %d: %w", level, util.ErrInvalidCompetitionLevel)
	}
	if s.HasExclusive {
		return util.ErrAlreadyExclusive
	}
	if s.State == domain.PublicationExhausted {
		return util.ErrCapacityExceeded
	}
	if level != domain.ExclusiveLevel && s.AllocationCount >= s.MaxShared {
		return util.ErrCapacityExceeded
	}
	if !IsAdmissible(level, s.AllocationCount, s.MaxShared) {
		return util.ErrCapacityExceeded
	}
	return nil
}

// Apply returns the snapshot after an allocation at level was granted.
func Apply(s Snapshot, level int) Snapshot {
	s.AllocationCount++
	if level == domain.ExclusiveLevel {
		s.HasExclusive = true
	}
	s.State = domain.NextPublicationState(s.AllocationCount, s.MaxShared, s.HasExclusive)
	return s
}
