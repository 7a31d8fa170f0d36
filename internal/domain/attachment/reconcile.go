// Package attachment computes how an invoice's attachment set changed between
// the state it was loaded in and the state it is submitted in.
package attachment

import "github.com/garyjia/room-invoice-admin/internal/domain/entity"

// Reconcile partitions attachments between baseline and current.
//
// Kept and Deleted are the distinct persisted urls of baseline, split by
// whether current still references them. Added holds every pending file of
// current in order. Pending entries in baseline and malformed entries
// anywhere are ignored. Persisted urls in current that baseline never had
// are neither kept nor deleted.
func Reconcile(baseline, current []entity.AttachmentRef) entity.ReconciliationResult {
	present := make(map[string]struct{}, len(current))
	result := entity.ReconciliationResult{
		Kept:    []string{},
		Deleted: []string{},
		Added:   []entity.FileHandle{},
	}

	for _, ref := range current {
		switch ref.Kind() {
		case entity.AttachmentPersisted:
			present[ref.URL()] = struct{}{}
		case entity.AttachmentPending:
			result.Added = append(result.Added, ref.File())
		}
	}

	seen := make(map[string]struct{}, len(baseline))
	for _, ref := range baseline {
		if ref.Kind() != entity.AttachmentPersisted {
			continue
		}
		url := ref.URL()
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}

		if _, ok := present[url]; ok {
			result.Kept = append(result.Kept, url)
		} else {
			result.Deleted = append(result.Deleted, url)
		}
	}

	return result
}
