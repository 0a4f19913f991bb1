package usecase

// Stat line classifiers from the upstream payload.
const (
	statSplitWeekly = 1

	statSourceActual    = 0
	statSourceProjected = 1
)

// Lineup slots that do not contribute to a team's weekly total.
const (
	lineupSlotBench          = 20
	lineupSlotInjuredReserve = 21
)

// CoalesceActual resolves a player's actual points for the given week. The
// precomputed total from the roster entry wins when it is non-zero; a zero
// total falls back to scanning the weekly stat lines, because the upstream
// omits the precomputed field for some historical weeks. A genuinely
// pointless week and a missing total are indistinguishable here, so both
// resolve through the stat scan and bottom out at zero.
func CoalesceActual(entry ExternalRosterEntry, week int) float64 {
	if entry.PrecomputedActual != 0 {
		return entry.PrecomputedActual
	}
	return scanStatLines(entry.Stats, week, statSourceActual)
}

// CoalesceProjected resolves a player's projected points for the given week.
// Same shape as CoalesceActual: the precomputed projected total wins when
// non-zero, otherwise the weekly stat lines are scanned for the projected
// source.
func CoalesceProjected(entry ExternalRosterEntry, week int) float64 {
	if entry.PrecomputedProjected != 0 {
		return entry.PrecomputedProjected
	}
	return scanStatLines(entry.Stats, week, statSourceProjected)
}

func scanStatLines(stats []ExternalStatLine, week int, sourceID int) float64 {
	for _, line := range stats {
		if line.ScoringPeriodID != week {
			continue
		}
		if line.StatSplitTypeID != statSplitWeekly {
			continue
		}
		if line.StatSourceID != sourceID {
			continue
		}
		return line.AppliedTotal
	}
	return 0
}

// IsStarterSlot reports whether a lineup slot counts toward the team total.
// Bench and injured reserve are excluded; every other slot is a starter.
func IsStarterSlot(lineupSlotID int) bool {
	return lineupSlotID != lineupSlotBench && lineupSlotID != lineupSlotInjuredReserve
}
