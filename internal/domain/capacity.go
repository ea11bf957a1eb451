package domain

// Capacity is an optional stream ceiling. The upstream system used a cap of
// zero to mean "unlimited"; we keep that convention at the wire boundary but
// carry an explicit optional internally so nobody has to remember the
// sentinel.
type Capacity struct {
	limit *int64
}

func LimitedCapacity(n int64) Capacity {
	return Capacity{limit: &n}
}

func UnlimitedCapacity() Capacity {
	return Capacity{}
}

// CapacityFromSentinel converts a legacy cap value, where anything <= 0
// means no limit.
func CapacityFromSentinel(n int64) Capacity {
	if n <= 0 {
		return UnlimitedCapacity()
	}
	return LimitedCapacity(n)
}

func (c Capacity) Unlimited() bool {
	return c.limit == nil
}

// Limit returns the cap and whether one exists.
func (c Capacity) Limit() (int64, bool) {
	if c.limit == nil {
		return 0, false
	}
	return *c.limit, true
}

// Headroom returns how many more streams fit under the cap given an amount
// already used. Unlimited capacity reports the requested max instead.
func (c Capacity) Headroom(used int64, max int64) int64 {
	if c.limit == nil {
		return max
	}
	remaining := *c.limit - used
	if remaining < 0 {
		return 0
	}
	if remaining > max {
		return max
	}
	return remaining
}
