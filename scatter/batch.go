package scatter

import (
	"github.com/ethereum/go-ethereum/common"
)

// SplitBatches partitions addrs into consecutive chunks of at most size,
// preserving order. The final chunk may be shorter.
func SplitBatches(addrs []common.Address, size int) [][]common.Address {
	var batches [][]common.Address
	for start := 0; start < len(addrs); start += size {
		end := start + size
		if end > len(addrs) {
			end = len(addrs)
		}
		batches = append(batches, addrs[start:end])
	}
	return batches
}
