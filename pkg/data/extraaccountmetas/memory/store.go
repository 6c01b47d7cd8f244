package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/code-payments/transfer-hook/pkg/data/extraaccountmetas"
	"github.com/code-payments/transfer-hook/pkg/database/query"
)

type store struct {
	mu      sync.Mutex
	records []*extraaccountmetas.Record
	last    uint64
}

type ById []*extraaccountmetas.Record

func (a ById) Len() int           { return len(a) }
func (a ById) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a ById) Less(i, j int) bool { return a[i].Id < a[j].Id }

// New returns a new in memory extraaccountmetas.Store
func New() extraaccountmetas.Store {
	return &store{}
}

// Save implements extraaccountmetas.Store.Save
func (s *store) Save(_ context.Context, data *extraaccountmetas.Record) error {
	if err := data.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.findByAddress(data.Address); item != nil {
		if item.Mint != data.Mint || item.Program != data.Program {
			return extraaccountmetas.ErrInvalidRecord
		}
		if data.Slot <= item.Slot {
			return extraaccountmetas.ErrStaleRecord
		}

		item.Data = append([]byte(nil), data.Data...)
		item.Slot = data.Slot
		item.LastUpdatedAt = time.Now()

		item.CopyTo(data)
		return nil
	}

	if item := s.findByMintAndProgram(data.Mint, data.Program); item != nil {
		return extraaccountmetas.ErrInvalidRecord
	}

	s.last++
	data.Id = s.last
	data.LastUpdatedAt = time.Now()
	s.records = append(s.records, data.Clone())

	return nil
}

// GetByAddress implements extraaccountmetas.Store.GetByAddress
func (s *store) GetByAddress(_ context.Context, address string) (*extraaccountmetas.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.findByAddress(address); item != nil {
		return item.Clone(), nil
	}
	return nil, extraaccountmetas.ErrRecordNotFound
}

// GetByMintAndProgram implements extraaccountmetas.Store.GetByMintAndProgram
func (s *store) GetByMintAndProgram(_ context.Context, mint, program string) (*extraaccountmetas.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item := s.findByMintAndProgram(mint, program); item != nil {
		return item.Clone(), nil
	}
	return nil, extraaccountmetas.ErrRecordNotFound
}

// GetAllByProgram implements extraaccountmetas.Store.GetAllByProgram
func (s *store) GetAllByProgram(_ context.Context, program string, cursor query.Cursor, limit uint64, direction query.Ordering) ([]*extraaccountmetas.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.filter(s.findByProgram(program), cursor, limit, direction)
	if len(res) == 0 {
		return nil, extraaccountmetas.ErrRecordNotFound
	}
	return res, nil
}

// GetCountByProgram implements extraaccountmetas.Store.GetCountByProgram
func (s *store) GetCountByProgram(_ context.Context, program string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return uint64(len(s.findByProgram(program))), nil
}

func (s *store) findByAddress(address string) *extraaccountmetas.Record {
	for _, item := range s.records {
		if item.Address == address {
			return item
		}
	}
	return nil
}

func (s *store) findByMintAndProgram(mint, program string) *extraaccountmetas.Record {
	for _, item := range s.records {
		if item.Mint == mint && item.Program == program {
			return item
		}
	}
	return nil
}

func (s *store) findByProgram(program string) []*extraaccountmetas.Record {
	var res []*extraaccountmetas.Record
	for _, item := range s.records {
		if item.Program == program {
			res = append(res, item.Clone())
		}
	}
	return res
}

func (s *store) filter(items []*extraaccountmetas.Record, cursor query.Cursor, limit uint64, direction query.Ordering) []*extraaccountmetas.Record {
	var start uint64
	if direction == query.Descending {
		start = s.last + 1
	}
	if len(cursor) > 0 {
		start = cursor.ToUint64()
	}

	var res []*extraaccountmetas.Record
	for _, item := range items {
		if item.Id > start && direction == query.Ascending {
			res = append(res, item)
		}
		if item.Id < start && direction == query.Descending {
			res = append(res, item)
		}
	}

	if direction == query.Descending {
		sort.Sort(sort.Reverse(ById(res)))
	}

	if limit > 0 && len(res) > int(limit) {
		return res[:limit]
	}
	return res
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.last = 0
}
