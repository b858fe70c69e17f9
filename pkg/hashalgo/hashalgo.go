// Package hashalgo names the hash functions a table or crack run can
// target and provides the scalar hashing paths used outside the SIMD
// batch (single-hash crack, chain validation, CLI info output).
package hashalgo

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Algorithm identifies the digest function a table was built with. The
// numeric values are packed into the high 6 bits of a table header byte
// and must stay stable across table files once assigned.
type Algorithm uint8

const (
	Md5 Algorithm = iota
	Sha1
	Sha256
	Unknown
)

// Width returns the digest size in bytes for the algorithm, or 0 for Unknown.
func (a Algorithm) Width() int {
	switch a {
	case Md5:
		return md5.Size
	case Sha1:
		return sha1.Size
	case Sha256:
		return sha256.Size
	default:
		return 0
	}
}

func (a Algorithm) String() string {
	switch a {
	case Md5:
		return "md5"
	case Sha1:
		return "sha1"
	case Sha256:
		return "sha256"
	default:
		return "unknown"
	}
}

// Parse maps a case-insensitive algorithm name to an Algorithm.
func Parse(name string) (Algorithm, error) {
	switch strings.ToLower(name) {
	case "md5":
		return Md5, nil
	case "sha1":
		return Sha1, nil
	case "sha256":
		return Sha256, nil
	default:
		return Unknown, fmt.Errorf("hashalgo: unknown algorithm %q", name)
	}
}

// Hash computes the digest of data under the given algorithm, writing
// into the caller-supplied dst (which must have len(dst) >= a.Width()),
// and returns the slice of dst that holds the digest.
func Hash(a Algorithm, data []byte, dst []byte) []byte {
	switch a {
	case Md5:
		sum := md5.Sum(data)
		return append(dst[:0], sum[:]...)
	case Sha1:
		sum := sha1.Sum(data)
		return append(dst[:0], sum[:]...)
	case Sha256:
		sum := sha256.Sum256(data)
		return append(dst[:0], sum[:]...)
	default:
		return dst[:0]
	}
}

// HashHex computes the digest of data and returns it hex-encoded.
func HashHex(a Algorithm, data []byte) string {
	var buf [sha256.Size]byte
	digest := Hash(a, data, buf[:])
	return hex.EncodeToString(digest)
}
