package badger

import "encoding/binary"

// Key prefixes for index data. Documents and vectors live under a
// generation number; the meta key names the generation readers should use.
const (
	indexMetaKey   = "idxgen"
	indexDocPrefix = "idxdoc"
	indexVecPrefix = "idxvec"
)

// makeGenerationPrefix builds the key prefix for one generation of an
// artifact. Format: prefix:generation
func makeGenerationPrefix(prefix string, generation uint64) []byte {
	prefixBytes := []byte(prefix + ":")
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// BigEndian so lexicographic ordering matches numeric ordering
	binary.BigEndian.PutUint64(buf[offset:], generation)
	return buf
}

// makeIndexKey builds the key for one positional entry of an artifact.
// Format: prefix:generation:position. Positions are BigEndian so an
// in-order iteration over the generation prefix yields positions 0..n-1.
func makeIndexKey(prefix string, generation uint64, position int) []byte {
	genPrefix := makeGenerationPrefix(prefix, generation)
	buf := make([]byte, len(genPrefix)+8)
	offset := copy(buf, genPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(position))
	return buf
}
