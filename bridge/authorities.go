package bridge

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// AuthoritySet is the fixed list of authorities and the number of distinct
// authorities required to accept a message. It never changes after creation.
type AuthoritySet struct {
	authorities []common.Address
	index       map[common.Address]int
	threshold   uint
}

func NewAuthoritySet(authorities []common.Address, threshold uint) (*AuthoritySet, error) {
	if len(authorities) == 0 {
		return nil, fmt.Errorf("%w: empty authority list", ErrConfiguration)
	}
	if threshold == 0 {
		return nil, fmt.Errorf("%w: threshold must be positive", ErrConfiguration)
	}
	if threshold > uint(len(authorities)) {
		return nil, fmt.Errorf("%w: threshold %d exceeds %d authorities", ErrConfiguration, threshold, len(authorities))
	}
	set := &AuthoritySet{
		authorities: make([]common.Address, len(authorities)),
		index:       make(map[common.Address]int, len(authorities)),
		threshold:   threshold,
	}
	for i, a := range authorities {
		if a == (common.Address{}) {
			return nil, fmt.Errorf("%w: zero address at position %d", ErrConfiguration, i)
		}
		if _, ok := set.index[a]; ok {
			return nil, fmt.Errorf("%w: duplicate authority %s", ErrConfiguration, a)
		}
		set.index[a] = i
		set.authorities[i] = a
	}
	return set, nil
}

func (s *AuthoritySet) Threshold() uint {
	return s.threshold
}

func (s *AuthoritySet) Len() int {
	return len(s.authorities)
}

func (s *AuthoritySet) Authority(i uint) (common.Address, error) {
	if i >= uint(len(s.authorities)) {
		return common.Address{}, fmt.Errorf("authority %d: %w", i, ErrIndexOutOfRange)
	}
	return s.authorities[i], nil
}

func (s *AuthoritySet) Authorities() []common.Address {
	res := make([]common.Address, len(s.authorities))
	copy(res, s.authorities)
	return res
}

func (s *AuthoritySet) IsAuthority(a common.Address) bool {
	_, ok := s.index[a]
	return ok
}
