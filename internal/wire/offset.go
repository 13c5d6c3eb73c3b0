package wire

// OffSet locates a record on disk: the segment generation it lives in and
// the exact byte range [Start, Start+Len) within that segment's file. It is
// the only thing the index keeps in memory per key.
type OffSet struct {
	Generation uint64
	Start      uint64
	Len        uint64
}

// NewOffSet builds an OffSet from the start and end position of a framed
// write, the way PosWriter.WriteCommand reports them.
func NewOffSet(generation, start, end uint64) OffSet {
	return OffSet{Generation: generation, Start: start, Len: end - start}
}
