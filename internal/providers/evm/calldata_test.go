package evm_test

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelzoo-market/mz-indexer/internal/domain"
	"github.com/modelzoo-market/mz-indexer/internal/providers/evm"
)

func selector(signature string) []byte {
	return crypto.Keccak256([]byte(signature))[:4]
}

// unpackArgs decodes the argument section of packed calldata with the given
// input schema
func unpackArgs(t *testing.T, inputsJSON string, data []byte) []interface{} {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(inputsJSON))
	require.NoError(t, err)
	var args abi.Arguments
	for _, method := range parsed.Methods {
		args = method.Inputs
	}
	values, err := args.Unpack(data[4:])
	require.NoError(t, err)
	return values
}

const configureSplitInputs = `[{"inputs":[{"name":"modelId","type":"uint256"},{"name":"seller","type":"address"},{"name":"creator","type":"address"},{"name":"royaltyBps","type":"uint16"},{"name":"marketplaceBps","type":"uint16"}],"name":"f","outputs":[],"stateMutability":"nonpayable","type":"function"}]`

const buyLicenseInputs = `[{"inputs":[{"name":"modelId","type":"uint256"},{"name":"kind","type":"uint8"},{"name":"months","type":"uint32"},{"name":"transferable","type":"bool"}],"name":"f","outputs":[],"stateMutability":"nonpayable","type":"function"}]`

func TestCalldataConfigureSplit(t *testing.T) {
	c, err := evm.NewCalldata()
	require.NoError(t, err)

	data, err := c.ConfigureSplit(7, ownerAddr.Hex(), creatorAddr.Hex(), 500, 250)
	require.NoError(t, err)

	assert.Equal(t, selector("configureSplit(uint256,address,address,uint16,uint16)"), data[:4])

	values := unpackArgs(t, configureSplitInputs, data)
	assert.Equal(t, big.NewInt(7), values[0])
	assert.Equal(t, ownerAddr, values[1])
	assert.Equal(t, creatorAddr, values[2])
	assert.Equal(t, uint16(500), values[3])
	assert.Equal(t, uint16(250), values[4])
}

func TestCalldataDistributePayment(t *testing.T) {
	c, err := evm.NewCalldata()
	require.NoError(t, err)

	data, err := c.DistributePayment(7, 100_000000)
	require.NoError(t, err)

	assert.Equal(t, selector("distributePayment(uint256,uint256)"), data[:4])
	assert.Len(t, data, 4+2*32)
}

func TestCalldataArgumentlessMethods(t *testing.T) {
	c, err := evm.NewCalldata()
	require.NoError(t, err)

	tests := []struct {
		signature string
		pack      func() ([]byte, error)
	}{
		{"withdraw()", c.Withdraw},
		{"executeMarketplaceWalletChange()", c.ExecuteMarketplaceWalletChange},
		{"pause()", c.Pause},
		{"unpause()", c.Unpause},
	}
	for _, tc := range tests {
		data, err := tc.pack()
		require.NoError(t, err)
		assert.Equal(t, selector(tc.signature), data, tc.signature)
	}
}

func TestCalldataSetAuthorizedCaller(t *testing.T) {
	c, err := evm.NewCalldata()
	require.NoError(t, err)

	data, err := c.SetAuthorizedCaller(ownerAddr.Hex(), true)
	require.NoError(t, err)

	assert.Equal(t, selector("setAuthorizedCaller(address,bool)"), data[:4])
	assert.Equal(t, ownerAddr, common.BytesToAddress(data[4:36]))
	assert.Equal(t, byte(1), data[67])
}

func TestCalldataBuyLicenseKindCodes(t *testing.T) {
	c, err := evm.NewCalldata()
	require.NoError(t, err)

	perpetual, err := c.BuyLicense(3, domain.LicenseKindPerpetual, 0, false)
	require.NoError(t, err)
	subscription, err := c.BuyLicense(3, domain.LicenseKindSubscription, 12, true)
	require.NoError(t, err)

	assert.Equal(t, selector("buyLicense(uint256,uint8,uint32,bool)"), perpetual[:4])

	values := unpackArgs(t, buyLicenseInputs, perpetual)
	assert.Equal(t, uint8(0), values[1])
	assert.Equal(t, uint32(0), values[2])
	assert.Equal(t, false, values[3])

	values = unpackArgs(t, buyLicenseInputs, subscription)
	assert.Equal(t, big.NewInt(3), values[0])
	assert.Equal(t, uint8(1), values[1])
	assert.Equal(t, uint32(12), values[2])
	assert.Equal(t, true, values[3])
}

func TestCalldataListOrUpgradeDeliveryModes(t *testing.T) {
	c, err := evm.NewCalldata()
	require.NoError(t, err)

	var termsHash [32]byte
	termsHash[0] = 0x7e

	tests := []struct {
		mode domain.DeliveryMode
		code byte
	}{
		{domain.DeliveryModeAPI, 0},
		{domain.DeliveryModeDownload, 1},
		{domain.DeliveryModeHybrid, 2},
	}
	for _, tc := range tests {
		data, err := c.ListOrUpgrade("stable-lm", "Stable LM", "ipfs://QmModel", 500,
			1_000000, 100000, 30, domain.RightAPI|domain.RightDownload, tc.mode, termsHash)
		require.NoError(t, err)
		assert.Equal(t,
			selector("listOrUpgrade(string,string,string,uint16,uint256,uint256,uint64,uint8,uint8,bytes32)"),
			data[:4])
		// deliveryMode is the ninth static slot
		assert.Equal(t, tc.code, data[4+9*32-1])
	}
}
