package tlv

import (
	"github.com/pkg/errors"

	"github.com/code-payments/transfer-hook/pkg/solana"
	"github.com/code-payments/transfer-hook/pkg/solana/binary"
	"github.com/code-payments/transfer-hook/pkg/solana/discriminator"
)

const (
	lengthSize = 4

	// HeaderSize is the number of bytes preceding each value: an 8 byte
	// discriminator followed by a u32 little endian length.
	HeaderSize = discriminator.Length + lengthSize
)

var (
	ErrTypeNotFound      = errors.New("tlv type not found")
	ErrTypeAlreadyExists = errors.New("tlv type already exists")
)

// State is a view over a buffer of sequential type-length-value entries. An
// all zero discriminator marks the start of free space.
type State struct {
	data []byte
}

type entry struct {
	discriminator discriminator.Discriminator
	valueStart    int
	valueEnd      int
}

// Unpack validates the entries stored in data. The returned state aliases
// data, so writes through Alloc are visible to the caller.
func Unpack(data []byte) (*State, error) {
	s := &State{data: data}
	if _, _, err := s.scan(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *State) Data() []byte {
	return s.data
}

// scan walks the entries, returning them along with the offset of the first
// free byte.
func (s *State) scan() ([]entry, int, error) {
	var entries []entry

	offset := 0
	for offset < len(s.data) {
		if len(s.data)-offset < HeaderSize {
			for _, b := range s.data[offset:] {
				if b != 0 {
					return nil, 0, errors.Wrapf(solana.ErrInvalidAccountData, "trailing bytes at %d", offset)
				}
			}
			return entries, offset, nil
		}

		var d discriminator.Discriminator
		copy(d[:], s.data[offset:])
		if d.IsUninitialized() {
			return entries, offset, nil
		}

		var length uint32
		cursor := offset + discriminator.Length
		binary.GetUint32(s.data[cursor:], &length, &cursor)

		end := cursor + int(length)
		if end > len(s.data) || end < cursor {
			return nil, 0, errors.Wrapf(solana.ErrInvalidAccountData, "entry %s overruns buffer", d)
		}

		entries = append(entries, entry{
			discriminator: d,
			valueStart:    cursor,
			valueEnd:      end,
		})
		offset = end
	}

	return entries, offset, nil
}

// GetBytes returns the value stored under d.
func (s *State) GetBytes(d discriminator.Discriminator) ([]byte, error) {
	entries, _, err := s.scan()
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.discriminator == d {
			return s.data[e.valueStart:e.valueEnd], nil
		}
	}
	return nil, errors.Wrapf(ErrTypeNotFound, "discriminator %s", d)
}

// Alloc reserves length bytes for d in the next free slot and returns the
// writable value region.
func (s *State) Alloc(d discriminator.Discriminator, length int) ([]byte, error) {
	if d.IsUninitialized() {
		return nil, errors.Wrap(solana.ErrInvalidArgument, "cannot allocate the uninitialized discriminator")
	}
	if length < 0 || uint64(length) > uint64(^uint32(0)) {
		return nil, errors.Wrapf(solana.ErrInvalidArgument, "invalid length: %d", length)
	}

	entries, free, err := s.scan()
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		if e.discriminator == d {
			return nil, errors.Wrapf(ErrTypeAlreadyExists, "discriminator %s", d)
		}
	}

	end := free + HeaderSize + length
	if end > len(s.data) {
		return nil, errors.Wrapf(solana.ErrAccountDataTooSmall, "need %d bytes, have %d", end, len(s.data))
	}

	offset := free
	copy(s.data[offset:], d[:])
	offset += discriminator.Length
	binary.PutUint32(s.data[offset:], uint32(length), &offset)

	return s.data[offset:end], nil
}

// Discriminators returns the types stored, in storage order.
func (s *State) Discriminators() ([]discriminator.Discriminator, error) {
	entries, _, err := s.scan()
	if err != nil {
		return nil, err
	}

	res := make([]discriminator.Discriminator, len(entries))
	for i, e := range entries {
		res[i] = e.discriminator
	}
	return res, nil
}
