package sync

import (
	"encoding/binary"
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/spaolacci/murmur3"
)

// ring consistently maps keys onto stripe indices. Each stripe owns
// virtualNodes points on a murmur3 hash circle, and a key belongs to the
// first point at or after its own hash.
type ring struct {
	points *treemap.Map

	// first is the stripe owning the lowest point, where hashes past the
	// highest point wrap around to.
	first int
}

func newRing(stripes int, virtualNodes uint) *ring {
	points := treemap.NewWith(utils.Int64Comparator)

	// Each point is hash(hash(name) || node).
	buf := make([]byte, 12)
	for stripe := 0; stripe < stripes; stripe++ {
		binary.LittleEndian.PutUint64(buf, uint64(hash([]byte(fmt.Sprintf("lock%d", stripe)))))
		for node := uint(0); node < virtualNodes; node++ {
			binary.LittleEndian.PutUint32(buf[8:], uint32(node))
			points.Put(hash(buf), stripe)
		}
	}

	r := &ring{points: points}
	if _, first := points.Min(); first != nil {
		r.first = first.(int)
	}
	return r
}

func (r *ring) stripe(key []byte) int {
	if _, stripe := r.points.Ceiling(hash(key)); stripe != nil {
		return stripe.(int)
	}
	return r.first
}

func hash(b []byte) int64 {
	h, _ := murmur3.Sum128(b)
	return int64(h)
}
