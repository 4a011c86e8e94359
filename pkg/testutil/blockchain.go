package testutil

import (
	"context"
	"errors"
	"math/big"
	"sync"
)

// MockOwnershipRegistry resolves owners from an in-memory table.
type MockOwnershipRegistry struct {
	mutex  sync.Mutex
	owners map[int64]string
}

func NewMockOwnershipRegistry() *MockOwnershipRegistry {
	return &MockOwnershipRegistry{owners: map[int64]string{}}
}

func (m *MockOwnershipRegistry) SetOwner(tokenID int64, owner string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.owners[tokenID] = owner
}

func (m *MockOwnershipRegistry) OwnerOf(ctx context.Context, tokenID int64) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	owner, ok := m.owners[tokenID]
	if !ok {
		return "", errors.New("execution reverted: owner query for nonexistent token")
	}

	return owner, nil
}

func (m *MockOwnershipRegistry) TotalSupply(ctx context.Context) (int64, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return int64(len(m.owners)), nil
}

// MockPayoutFacility keeps a balance and records every transfer.
type MockPayoutFacility struct {
	mutex     sync.Mutex
	balance   *big.Int
	transfers []MockTransfer

	// TransferError makes every transfer fail when set.
	TransferError error
}

type MockTransfer struct {
	TokenAddress string
	Recipient    string
	Amount       *big.Int
}

func NewMockPayoutFacility(balance *big.Int) *MockPayoutFacility {
	return &MockPayoutFacility{balance: new(big.Int).Set(balance)}
}

func (m *MockPayoutFacility) Balance(ctx context.Context, tokenAddress string) (*big.Int, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return new(big.Int).Set(m.balance), nil
}

func (m *MockPayoutFacility) Transfer(ctx context.Context, tokenAddress, recipient string, amount *big.Int) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.TransferError != nil {
		return "", m.TransferError
	}

	if m.balance.Cmp(amount) < 0 {
		return "", errors.New("transfer amount exceeds balance")
	}

	m.balance.Sub(m.balance, amount)
	m.transfers = append(m.transfers, MockTransfer{
		TokenAddress: tokenAddress,
		Recipient:    recipient,
		Amount:       new(big.Int).Set(amount),
	})
	return "0xmocktx", nil
}

func (m *MockPayoutFacility) Transfers() []MockTransfer {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return append([]MockTransfer{}, m.transfers...)
}

// MockSeedCoordinator accepts every request and remembers the ids.
type MockSeedCoordinator struct {
	mutex    sync.Mutex
	requests []string

	RequestError error
}

func NewMockSeedCoordinator() *MockSeedCoordinator {
	return &MockSeedCoordinator{}
}

func (m *MockSeedCoordinator) RequestSeed(ctx context.Context, requestID string) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.RequestError != nil {
		return "", m.RequestError
	}

	m.requests = append(m.requests, requestID)
	return "0xmockrequest", nil
}

func (m *MockSeedCoordinator) Requests() []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return append([]string{}, m.requests...)
}
