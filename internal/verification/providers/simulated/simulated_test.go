package simulated

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankqr/internal/account"
	"bankqr/internal/bank"
	"bankqr/internal/verification/providers"
	"bankqr/internal/verification/providers/contract"
)

var tcb = bank.Definition{ID: "TCB", Name: "Techcombank", BIN: "970407"}

func TestFails(t *testing.T) {
	tests := []struct {
		account string
		fails   bool
	}{
		{"000000", true},      // sum 0
		{"000004", true},      // sum 4
		{"123456", false},     // sum 21
		{"1111111", false},    // sum 7
		{"11111111", true},    // sum 8
		{"0123456789", false}, // sum 45
	}
	for _, tt := range tests {
		assert.Equal(t, tt.fails, Fails(tt.account), tt.account)
	}
}

func TestProvider_Attempt(t *testing.T) {
	p := New("sim")

	t.Run("failing digit sum is not_found", func(t *testing.T) {
		res, err := p.Attempt(context.Background(), tcb, "000000")
		require.Error(t, err)
		assert.Nil(t, res)
		assert.Equal(t, providers.ErrorNotFound, providers.GetCategory(err))
	})

	t.Run("success carries the synthetic name", func(t *testing.T) {
		res, err := p.Attempt(context.Background(), tcb, "0123456789")
		require.NoError(t, err)
		assert.True(t, res.Synthetic)
		assert.Equal(t, account.GenerateName("TCB", "0123456789"), res.Name)
	})

	t.Run("deterministic across calls", func(t *testing.T) {
		a, err := p.Attempt(context.Background(), tcb, "123456")
		require.NoError(t, err)
		b, err := p.Attempt(context.Background(), tcb, "123456")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})
}

func TestProvider_DelayHonorsCancellation(t *testing.T) {
	p := New("sim", WithDelay(FixedDelay(time.Minute)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.Attempt(ctx, tcb, "123456")
	require.Error(t, err)
	assert.Equal(t, providers.ErrorTimeout, providers.GetCategory(err))
	assert.Less(t, time.Since(start), time.Second)
}

func TestUniformDelay(t *testing.T) {
	policy := UniformDelay(10*time.Millisecond, 20*time.Millisecond)
	for range 100 {
		d := policy("123456")
		assert.GreaterOrEqual(t, d, 10*time.Millisecond)
		assert.LessOrEqual(t, d, 20*time.Millisecond)
	}

	assert.Equal(t, 5*time.Millisecond, UniformDelay(5*time.Millisecond, 5*time.Millisecond)("x"))
	swapped := UniformDelay(20*time.Millisecond, 10*time.Millisecond)("x")
	assert.GreaterOrEqual(t, swapped, 10*time.Millisecond)
}

func TestSimulatedProviderContract(t *testing.T) {
	p := New("sim")
	suite := &contract.ContractSuite{
		ProviderID: "sim",
		Tier:       providers.TierSimulated,
		Tests: []contract.ContractTest{
			{Name: "resolves passing account", Provider: p, Bank: tcb, Account: "123456"},
			{Name: "resolves long account", Provider: p, Bank: tcb, Account: "0123456789"},
		},
	}
	suite.Run(t)
}
