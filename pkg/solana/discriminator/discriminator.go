package discriminator

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/pkg/errors"

	"github.com/code-payments/transfer-hook/pkg/solana"
)

// Length is the number of bytes in a discriminator.
const Length = 8

var (
	ErrInvalidLength = errors.New("invalid discriminator length")
)

// Discriminator is an 8-byte tag identifying an instruction or a TLV type.
type Discriminator [Length]byte

// Uninitialized marks unused space in a TLV container.
var Uninitialized Discriminator

// New derives the discriminator for "<namespace>:<name>".
func New(namespace, name string) Discriminator {
	var d Discriminator
	h := sha256.Sum256([]byte(namespace + ":" + name))
	copy(d[:], h[:Length])
	return d
}

func FromBytes(b []byte) (Discriminator, error) {
	var d Discriminator
	if len(b) != Length {
		return d, ErrInvalidLength
	}
	copy(d[:], b)
	return d, nil
}

// Split separates the leading discriminator of an instruction from its
// payload.
func Split(input []byte) (Discriminator, []byte, error) {
	if len(input) < Length {
		return Discriminator{}, nil, errors.Wrapf(solana.ErrInvalidInstructionData, "instruction data too short: %d", len(input))
	}

	var d Discriminator
	copy(d[:], input[:Length])
	return d, input[Length:], nil
}

func (d Discriminator) Bytes() []byte {
	return d[:]
}

func (d Discriminator) IsUninitialized() bool {
	return d == Uninitialized
}

func (d Discriminator) String() string {
	return hex.EncodeToString(d[:])
}
