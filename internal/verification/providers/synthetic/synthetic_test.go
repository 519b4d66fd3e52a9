package synthetic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankqr/internal/account"
	"bankqr/internal/bank"
	"bankqr/internal/verification/providers"
	"bankqr/internal/verification/providers/contract"
)

func TestProvider_NeverFails(t *testing.T) {
	p := New("synthetic")
	for _, def := range bank.List() {
		for _, acct := range []string{"000000", "123456", "9999999999999999999999999"} {
			res, err := p.Attempt(context.Background(), def, acct)
			require.NoError(t, err, "%s/%s", def.ID, acct)
			assert.Equal(t, account.GenerateName(def.ID, acct), res.Name)
			assert.True(t, res.Synthetic)
		}
	}
}

func TestSyntheticProviderContract(t *testing.T) {
	p := New("synthetic")
	vcb, err := bank.Lookup("VCB")
	require.NoError(t, err)

	suite := &contract.ContractSuite{
		ProviderID: "synthetic",
		Tier:       providers.TierSynthetic,
		Tests: []contract.ContractTest{
			{Name: "digit sum divisible by four", Provider: p, Bank: vcb, Account: "000000"},
			{Name: "ordinary account", Provider: p, Bank: vcb, Account: "9704360123456789"},
		},
	}
	suite.Run(t)
}
