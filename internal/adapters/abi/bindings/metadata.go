package bindings

import (
	"errors"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// MetaData holds a contract ABI and parses it once on first use
type MetaData struct {
	ABI string
	ID  string

	once   sync.Once
	parsed *abi.ABI
	err    error
}

// ParseABI returns the parsed ABI
func (m *MetaData) ParseABI() (*abi.ABI, error) {
	m.once.Do(func() {
		parsed, err := abi.JSON(strings.NewReader(m.ABI))
		if err != nil {
			m.err = err
			return
		}
		m.parsed = &parsed
	})
	return m.parsed, m.err
}

// MustABI returns the parsed ABI and panics on malformed JSON
func (m *MetaData) MustABI() *abi.ABI {
	parsed, err := m.ParseABI()
	if err != nil {
		panic(errors.New("invalid " + m.ID + " ABI: " + err.Error()))
	}
	return parsed
}

// All returns the metadata of every contract a DAO is made of
func All() []*MetaData {
	return []*MetaData{
		&GovernorMetaData,
		&TimelockMetaData,
		&TreasuryMetaData,
		&VotesTokenMetaData,
		&FactoryMetaData,
	}
}
