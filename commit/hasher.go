package commit

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"hash"
	"sort"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Digest algorithm names accepted by [Lookup].
const (
	AlgSHA3256    = "sha3-256"
	AlgSHA256     = "sha256"
	AlgBlake2b256 = "blake2b-256"
	AlgBlake2b512 = "blake2b-512"
	AlgMiMCBN254  = "mimc-bn254"
)

// DefaultAlgorithm is used when no hasher is configured.
const DefaultAlgorithm = AlgSHA3256

// Hasher computes the commitment digest. Different implementations provide
// different hash functions; the name is published next to each digest.
type Hasher interface {
	// Name returns the algorithm identifier, e.g. "sha3-256".
	Name() string

	// Sum hashes the concatenation of data.
	Sum(data ...[]byte) []byte
}

// SHA3Hasher implements Hasher using SHA3-256.
// This is the default hasher.
type SHA3Hasher struct{}

// Name implements Hasher.Name.
func (h *SHA3Hasher) Name() string { return AlgSHA3256 }

// Sum implements Hasher.Sum.
func (h *SHA3Hasher) Sum(data ...[]byte) []byte {
	return sum(sha3.New256(), data)
}

// SHA256Hasher implements Hasher using SHA-256.
type SHA256Hasher struct{}

// Name implements Hasher.Name.
func (h *SHA256Hasher) Name() string { return AlgSHA256 }

// Sum implements Hasher.Sum.
func (h *SHA256Hasher) Sum(data ...[]byte) []byte {
	return sum(sha256.New(), data)
}

// Blake2bHasher implements Hasher using unkeyed BLAKE2b.
type Blake2bHasher struct {
	// Size is the digest length in bytes: 32 or 64.
	Size int
}

// NewBlake2bHasher creates a Blake2bHasher with a 32 or 64 byte digest.
func NewBlake2bHasher(size int) (*Blake2bHasher, error) {
	if size != blake2b.Size256 && size != blake2b.Size {
		return nil, fmt.Errorf("blake2b digest size must be %d or %d, got %d", blake2b.Size256, blake2b.Size, size)
	}
	return &Blake2bHasher{Size: size}, nil
}

// Name implements Hasher.Name.
func (h *Blake2bHasher) Name() string {
	if h.Size == blake2b.Size {
		return AlgBlake2b512
	}
	return AlgBlake2b256
}

// Sum implements Hasher.Sum.
func (h *Blake2bHasher) Sum(data ...[]byte) []byte {
	size := h.Size
	if size == 0 {
		size = blake2b.Size256
	}
	hasher, _ := blake2b.New(size, nil)
	return sum(hasher, data)
}

// MiMCHasher implements Hasher using MiMC over the BN254 scalar field.
//
// MiMC absorbs whole field elements, so the input is packed into 31-byte
// chunks, each left-padded to a 32-byte big-endian element that is always
// below the field modulus. A final element carries the input length so that
// inputs differing only in trailing zero bytes hash differently.
type MiMCHasher struct{}

// mimcChunk is the number of input bytes packed into one field element.
const mimcChunk = 31

// Name implements Hasher.Name.
func (h *MiMCHasher) Name() string { return AlgMiMCBN254 }

// Sum implements Hasher.Sum.
func (h *MiMCHasher) Sum(data ...[]byte) []byte {
	var msg []byte
	for _, d := range data {
		msg = append(msg, d...)
	}

	hasher := mimc.NewMiMC()
	blockSize := hasher.BlockSize()
	block := make([]byte, blockSize)
	for off := 0; off < len(msg); off += mimcChunk {
		end := min(off+mimcChunk, len(msg))
		clear(block)
		copy(block[blockSize-(end-off):], msg[off:end])
		if _, err := hasher.Write(block); err != nil {
			// Unreachable: the leading zero byte keeps every block below the modulus.
			panic(fmt.Sprintf("mimc: %v", err))
		}
	}
	clear(block)
	binary.BigEndian.PutUint64(block[blockSize-8:], uint64(len(msg)))
	if _, err := hasher.Write(block); err != nil {
		panic(fmt.Sprintf("mimc: %v", err))
	}
	return hasher.Sum(nil)
}

func sum(h hash.Hash, data [][]byte) []byte {
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

var hashers = map[string]func() Hasher{
	AlgSHA3256:    func() Hasher { return &SHA3Hasher{} },
	AlgSHA256:     func() Hasher { return &SHA256Hasher{} },
	AlgBlake2b256: func() Hasher { return &Blake2bHasher{Size: blake2b.Size256} },
	AlgBlake2b512: func() Hasher { return &Blake2bHasher{Size: blake2b.Size} },
	AlgMiMCBN254:  func() Hasher { return &MiMCHasher{} },
}

// Lookup returns the hasher registered under name.
func Lookup(name string) (Hasher, error) {
	newHasher, ok := hashers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	return newHasher(), nil
}

// Algorithms returns the registered algorithm names in sorted order.
func Algorithms() []string {
	names := make([]string, 0, len(hashers))
	for name := range hashers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
