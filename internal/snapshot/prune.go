package snapshot

import "github.com/thoreinstein/checkpoint/internal/errors"

// Prune deletes every checkpoint beyond the keep newest and returns the
// removed entries. The first failed delete stops pruning.
func (m *Manager) Prune(keep int) ([]Snapshot, error) {
	if keep < 0 {
		return nil, invalidf("keep must be non-negative, got %d", keep)
	}

	snaps, err := m.List()
	if err != nil {
		return nil, err
	}
	if len(snaps) <= keep {
		return nil, nil
	}

	var removed []Snapshot
	for _, s := range snaps[keep:] {
		if err := m.Delete(s.ID); err != nil {
			return removed, errors.Wrapf(err, "pruning %s", s.Folder)
		}
		removed = append(removed, s)
	}
	return removed, nil
}
