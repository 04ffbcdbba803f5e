// Package digest provides the hashing support for the ledger. It owns the
// canonical encoding of block fields, the fixed width digest produced from
// that encoding and the proof of work predicate checked against a digest.
package digest

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/bits"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Width is the number of bytes in a digest.
const Width = 32

// Field names used in the canonical encoding of a block.
const (
	FieldData       = "data"
	FieldDifficulty = "difficulty"
	FieldLastHash   = "last_hash"
	FieldNonce      = "nonce"
	FieldTimeStamp  = "timestamp"
)

// ErrInvalidWidth is returned when decoding a value that is not exactly
// Width bytes long.
var ErrInvalidWidth = errors.New("digest has invalid width")

// =============================================================================

// Digest represents the output of the hash function over a block's fields.
type Digest [Width]byte

// Zero is the digest with every bit cleared.
var Zero Digest

// Ones is the digest with every bit set.
var Ones = func() Digest {
	var d Digest
	for i := range d {
		d[i] = 0xff
	}
	return d
}()

// Parse decodes a 0x prefixed hex string into a digest.
func Parse(s string) (Digest, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return Digest{}, fmt.Errorf("decoding digest: %w", err)
	}

	return FromBytes(b)
}

// FromBytes copies b into a digest. The slice must be exactly Width bytes.
func FromBytes(b []byte) (Digest, error) {
	var d Digest
	if len(b) != Width {
		return Digest{}, fmt.Errorf("%w: got %d, exp %d", ErrInvalidWidth, len(b), Width)
	}

	copy(d[:], b)
	return d, nil
}

// Bytes returns the digest as a slice.
func (d Digest) Bytes() []byte {
	return d[:]
}

// String returns the 0x prefixed hex form of the digest.
func (d Digest) String() string {
	return hexutil.Encode(d[:])
}

// MarshalText implements encoding.TextMarshaler.
func (d Digest) MarshalText() ([]byte, error) {
	return hexutil.Bytes(d[:]).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Digest) UnmarshalText(text []byte) error {
	var b hexutil.Bytes
	if err := b.UnmarshalText(text); err != nil {
		return err
	}

	v, err := FromBytes(b)
	if err != nil {
		return err
	}

	*d = v
	return nil
}

// =============================================================================

// Fields builds the set of named values that make up a block for hashing.
func Fields(timeStamp time.Time, lastHash []byte, data string, nonce uint64, difficulty uint) map[string]string {
	return map[string]string{
		FieldData:       data,
		FieldDifficulty: strconv.FormatUint(uint64(difficulty), 10),
		FieldLastHash:   common.Bytes2Hex(lastHash),
		FieldNonce:      strconv.FormatUint(nonce, 10),
		FieldTimeStamp:  strconv.FormatInt(timeStamp.UnixNano(), 10),
	}
}

// Canonical joins the fields in sorted key order. The result is the exact
// string that gets hashed and must never change between releases.
func Canonical(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("|")
	for _, key := range keys {
		b.WriteString(" ")
		b.WriteString(key)
		b.WriteString(":")
		b.WriteString(fields[key])
		b.WriteString(" |")
	}

	return b.String()
}

// Sum returns the sha256 digest of the canonical form of the fields.
func Sum(fields map[string]string) Digest {
	return sha256.Sum256([]byte(Canonical(fields)))
}

// Hash returns the digest for the specified block fields.
func Hash(timeStamp time.Time, lastHash []byte, data string, nonce uint64, difficulty uint) Digest {
	return Sum(Fields(timeStamp, lastHash, data, nonce, difficulty))
}

// =============================================================================

// LeadingZeros counts the number of leading zero bits across the bytes.
func LeadingZeros(b []byte) int {
	var zeros int
	for _, v := range b {
		if v != 0 {
			return zeros + bits.LeadingZeros8(v)
		}
		zeros += 8
	}

	return zeros
}

// IsValid checks the hash complies with the proof of work rules. The hash
// must be Width bytes and start with at least difficulty zero bits.
func IsValid(hash []byte, difficulty uint) bool {
	if len(hash) != Width {
		return false
	}

	return difficulty <= uint(LeadingZeros(hash))
}
