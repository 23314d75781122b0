package mbuf

import "sync"

// bucket sizes mirror the spread of typical Ethernet frame sizes seen
// on a PMD port: small control packets, standard MTU frames, and
// jumbo frames, plus headroom for header-transform growth.
var bucketSizes = [...]int{256, 2048, 9216}

var pools = [len(bucketSizes)]sync.Pool{}

func init() {
	for i, sz := range bucketSizes {
		sz := sz
		pools[i].New = func() any {
			b := make([]byte, sz)
			return &b
		}
	}
}

func bucketFor(size int) int {
	for i, sz := range bucketSizes {
		if size <= sz {
			return i
		}
	}
	return -1
}

// GetBuffer returns a backing array of at least size bytes, served
// from a size-bucketed pool when it fits one, falling back to a
// fresh allocation for oversized requests.
func GetBuffer(size int) []byte {
	i := bucketFor(size)
	if i < 0 {
		return make([]byte, size)
	}
	bp := pools[i].Get().(*[]byte)
	buf := (*bp)[:size]
	return buf
}

// PutBuffer returns a backing array obtained from GetBuffer to its
// pool. Buffers not sized exactly to a bucket are dropped rather than
// pooled, since they didn't come from GetBuffer's bucket path.
func PutBuffer(buf []byte) {
	c := cap(buf)
	for i, sz := range bucketSizes {
		if c == sz {
			full := buf[:sz]
			pools[i].Put(&full)
			return
		}
	}
}
