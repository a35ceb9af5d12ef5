package health

import (
	"sort"

	"github.com/google/uuid"

	"github.com/simaogato/wealthflow-planner/internal/domain"
)

// ReconciliationIndex gives constant-time access to the latest reconciliation
// record of every (entity, cycle). Build it once per projection run.
type ReconciliationIndex struct {
	byEntity map[uuid.UUID]map[string]*domain.ReconciliationRecord
	latest   map[uuid.UUID]*domain.ReconciliationRecord
}

// NewReconciliationIndex groups records by entity and cycle, keeping the most
// recently updated record of each group. On an UpdatedAt tie the record seen first wins.
func NewReconciliationIndex(records []*domain.ReconciliationRecord) *ReconciliationIndex {
	idx := &ReconciliationIndex{
		byEntity: make(map[uuid.UUID]map[string]*domain.ReconciliationRecord),
		latest:   make(map[uuid.UUID]*domain.ReconciliationRecord),
	}

	for _, r := range records {
		if r == nil {
			continue
		}
		cycles, ok := idx.byEntity[r.EntityID]
		if !ok {
			cycles = make(map[string]*domain.ReconciliationRecord)
			idx.byEntity[r.EntityID] = cycles
		}
		if current, ok := cycles[r.CycleKey]; !ok || r.UpdatedAt.After(current.UpdatedAt) {
			cycles[r.CycleKey] = r
		}
	}

	// Latest cycle per entity; cycle keys are "YYYY-MM" so they sort as strings
	for entityID, cycles := range idx.byEntity {
		var best *domain.ReconciliationRecord
		for key, r := range cycles {
			if best == nil || key > best.CycleKey {
				best = r
			}
		}
		idx.latest[entityID] = best
	}

	return idx
}

// Latest returns the record of the most recent cycle of an entity, or nil
func (idx *ReconciliationIndex) Latest(entityID uuid.UUID) *domain.ReconciliationRecord {
	if idx == nil {
		return nil
	}
	return idx.latest[entityID]
}

// ForCycle returns the latest record of an entity for one cycle, or nil
func (idx *ReconciliationIndex) ForCycle(entityID uuid.UUID, cycleKey string) *domain.ReconciliationRecord {
	if idx == nil {
		return nil
	}
	return idx.byEntity[entityID][cycleKey]
}

// History returns the latest record of every cycle of an entity, oldest cycle first
func (idx *ReconciliationIndex) History(entityID uuid.UUID) []*domain.ReconciliationRecord {
	if idx == nil {
		return nil
	}
	cycles := idx.byEntity[entityID]
	out := make([]*domain.ReconciliationRecord, 0, len(cycles))
	for _, r := range cycles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CycleKey < out[j].CycleKey })
	return out
}
