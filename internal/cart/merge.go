package cart

import (
	"slices"

	"github.com/prashant0268/shamyraweb/internal/domain"
)

// Merge folds a guest cart into an account cart. The account side comes
// first and keeps its order and display fields; guest quantities for a
// product already in the account cart accumulate onto the existing
// entry, anything else is appended in guest order. Deterministic given
// the two inputs, and tolerant of a duplicated product ID on the guest
// side (each occurrence folds into the same entry).
func Merge(remote, local []domain.LineItem) []domain.LineItem {
	merged := slices.Clone(remote)

	for _, item := range local {
		idx := -1
		for i := range merged {
			if merged[i].ProductID == item.ProductID {
				idx = i
				break
			}
		}
		if idx >= 0 {
			merged[idx].Quantity += item.Quantity
		} else {
			merged = append(merged, item)
		}
	}

	return merged
}
