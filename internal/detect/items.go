package detect

import (
	"github.com/pable/slpstats/internal/melee"
	"github.com/pable/slpstats/internal/model"
)

// ItemCounts counts the distinct items owned by port. An item lives for many
// rows but is counted once per spawn id; turnips and missiles are counted by
// their variant.
func ItemCounts(items *model.ItemFrames, port model.Port) model.ItemCounts {
	counts := model.ItemCounts{}
	if items == nil {
		return counts
	}
	seen := make(map[uint32]struct{})
	for i := 0; i < items.Len(); i++ {
		if items.Owner[i] != int8(port) {
			continue
		}
		if _, ok := seen[items.SpawnID[i]]; ok {
			continue
		}
		seen[items.SpawnID[i]] = struct{}{}
		counts[melee.ResolveSubItem(items.Type[i], items.SubType(i))]++
	}
	return counts
}
