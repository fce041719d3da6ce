package table

import (
	"encoding/binary"
	"fmt"

	"github.com/zeebo/xxh3"
)

const (
	offset64 = 14695981039346656037
	prime64  = 1099511628211
)

// Hash is FNV-1a over 8-byte words with a murmur3 finalizer, so the low bits
// used for the slot index depend on every byte of the key.
func Hash(key []byte) uint64 {
	h := uint64(offset64)
	for len(key) >= 8 {
		h ^= binary.LittleEndian.Uint64(key)
		h *= prime64
		key = key[8:]
	}
	if len(key) >= 4 {
		h ^= uint64(binary.LittleEndian.Uint32(key))
		h *= prime64
		key = key[4:]
	}
	for _, c := range key {
		h ^= uint64(c)
		h *= prime64
	}

	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33

	return h
}

// XXH3 is the xxh3 64-bit hash of key.
func XXH3(key []byte) uint64 {
	return xxh3.Hash(key)
}

var hashes = map[string]HashFunc{
	"fnv":  Hash,
	"xxh3": XXH3,
}

// HashByName resolves a hash function by its configuration name.
func HashByName(name string) (HashFunc, error) {
	h, ok := hashes[name]
	if !ok {
		return nil, fmt.Errorf("table: unknown hash %q", name)
	}

	return h, nil
}
