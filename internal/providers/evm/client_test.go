package evm_test

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelzoo-market/mz-indexer/internal/domain"
	"github.com/modelzoo-market/mz-indexer/internal/mocks"
	"github.com/modelzoo-market/mz-indexer/internal/providers/evm"
)

const contractAddress = "0xDc64a140Aa3E981100a9becA4E685f962f0cF6C9"

var (
	ownerAddr   = common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	creatorAddr = common.HexToAddress("0x90F79bf6EB2c4f870365E785982E1f101E93b906")
)

// packOutputs encodes return data the way the contract would, using the same
// output schema the client decodes with
func packOutputs(t *testing.T, outputsJSON string, values ...interface{}) []byte {
	t.Helper()
	args := abi.Arguments{}
	parsed, err := abi.JSON(strings.NewReader(outputsJSON))
	require.NoError(t, err)
	for _, method := range parsed.Methods {
		args = method.Outputs
	}
	packed, err := args.Pack(values...)
	require.NoError(t, err)
	return packed
}

const modelInfoOutputs = `[{"constant":true,"inputs":[],"name":"f","outputs":[{"name":"owner","type":"address"},{"name":"creator","type":"address"},{"name":"name","type":"string"},{"name":"uri","type":"string"},{"name":"listed","type":"bool"},{"name":"royaltyBps","type":"uint16"},{"name":"pricePerpetual","type":"uint256"},{"name":"priceSubscription","type":"uint256"},{"name":"defaultDurationDays","type":"uint64"},{"name":"rightsMask","type":"uint8"},{"name":"deliveryMode","type":"uint8"},{"name":"termsHash","type":"bytes32"},{"name":"version","type":"uint16"}],"payable":false,"stateMutability":"view","type":"function"}]`

const modelAgentOutputs = `[{"constant":true,"inputs":[],"name":"f","outputs":[{"name":"agentId","type":"uint256"},{"name":"endpoint","type":"string"},{"name":"wallet","type":"address"}],"payable":false,"stateMutability":"view","type":"function"}]`

const licenseStatusOutputs = `[{"constant":true,"inputs":[],"name":"f","outputs":[{"name":"revoked","type":"bool"},{"name":"validApi","type":"bool"},{"name":"validDownload","type":"bool"},{"name":"kind","type":"uint8"},{"name":"expiresAt","type":"uint64"},{"name":"owner","type":"address"}],"payable":false,"stateMutability":"view","type":"function"}]`

type clientTest struct {
	ctrl   *gomock.Controller
	eth    *mocks.MockEthClient
	client evm.Client
}

func setupClientTest(t *testing.T) *clientTest {
	ctrl := gomock.NewController(t)
	eth := mocks.NewMockEthClient(ctrl)
	return &clientTest{
		ctrl:   ctrl,
		eth:    eth,
		client: evm.NewClient(domain.ChainEthereumMainnet, contractAddress, eth),
	}
}

func modelInfoReturn(t *testing.T, owner common.Address, deliveryMode uint8) []byte {
	var termsHash [32]byte
	termsHash[0] = 0x7e
	return packOutputs(t, modelInfoOutputs,
		owner,
		creatorAddr,
		"llama-7b-chat",
		"ipfs://QmModelMeta",
		true,
		uint16(500),
		big.NewInt(50_000000),
		big.NewInt(5_000000),
		uint64(30),
		uint8(domain.RightAPI),
		deliveryMode,
		termsHash,
		uint16(2),
	)
}

func TestAssetRecord(t *testing.T) {
	s := setupClientTest(t)
	defer s.ctrl.Finish()

	gomock.InOrder(
		s.eth.EXPECT().
			CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
			Return(modelInfoReturn(t, ownerAddr, 0), nil),
		s.eth.EXPECT().
			CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
			Return(packOutputs(t, modelAgentOutputs, big.NewInt(0), "", common.Address{}), nil),
	)

	record, err := s.client.AssetRecord(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), record.ID)
	assert.Equal(t, ownerAddr.Hex(), record.Owner)
	assert.Equal(t, creatorAddr.Hex(), record.Creator)
	assert.Equal(t, "llama-7b-chat", record.Name)
	assert.Equal(t, "ipfs://QmModelMeta", record.URI)
	assert.True(t, record.Listed)
	assert.Equal(t, uint16(500), record.RoyaltyBps)
	assert.Equal(t, uint64(50_000000), record.PricePerpetual)
	assert.Equal(t, uint64(5_000000), record.PriceSubscription)
	assert.Equal(t, uint64(30), record.DefaultDurationDays)
	assert.Equal(t, domain.RightAPI, record.Rights)
	assert.Equal(t, domain.DeliveryModeAPI, record.DeliveryMode)
	assert.Equal(t, byte(0x7e), record.TermsHash[0])
	assert.Equal(t, uint16(2), record.Version)
	assert.Nil(t, record.AgentID)
}

func TestAssetRecordWithAgent(t *testing.T) {
	s := setupClientTest(t)
	defer s.ctrl.Finish()

	wallet := common.HexToAddress("0x9965507D1a55bcC2695C58ba16FB37d819B0A4dc")

	gomock.InOrder(
		s.eth.EXPECT().
			CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
			Return(modelInfoReturn(t, ownerAddr, 2), nil),
		s.eth.EXPECT().
			CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
			Return(packOutputs(t, modelAgentOutputs, big.NewInt(55), "https://agent.example.com/v1", wallet), nil),
	)

	record, err := s.client.AssetRecord(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, domain.DeliveryModeHybrid, record.DeliveryMode)
	require.NotNil(t, record.AgentID)
	assert.Equal(t, uint64(55), *record.AgentID)
	require.NotNil(t, record.AgentEndpoint)
	assert.Equal(t, "https://agent.example.com/v1", *record.AgentEndpoint)
	require.NotNil(t, record.AgentWallet)
	assert.Equal(t, wallet.Hex(), *record.AgentWallet)
}

func TestAssetRecordUnpublished(t *testing.T) {
	s := setupClientTest(t)
	defer s.ctrl.Finish()

	s.eth.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(modelInfoReturn(t, common.Address{}, 0), nil)

	_, err := s.client.AssetRecord(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssetRecordUpstreamFailure(t *testing.T) {
	s := setupClientTest(t)
	defer s.ctrl.Finish()

	s.eth.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(nil, errors.New("connection refused"))

	_, err := s.client.AssetRecord(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestLicenseIDsByHolder(t *testing.T) {
	s := setupClientTest(t)
	defer s.ctrl.Finish()

	const licensesOfOutputs = `[{"constant":true,"inputs":[],"name":"f","outputs":[{"name":"","type":"uint256[]"}],"payable":false,"stateMutability":"view","type":"function"}]`
	ret := packOutputs(t, licensesOfOutputs, []*big.Int{big.NewInt(4), big.NewInt(9)})

	s.eth.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(ret, nil)

	ids, err := s.client.LicenseIDsByHolder(context.Background(), ownerAddr.Hex())
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 9}, ids)
}

func TestLicenseAsset(t *testing.T) {
	s := setupClientTest(t)
	defer s.ctrl.Finish()

	const licenseAssetOutputs = `[{"constant":true,"inputs":[],"name":"f","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`

	s.eth.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(packOutputs(t, licenseAssetOutputs, big.NewInt(42)), nil)

	assetID, err := s.client.LicenseAsset(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), assetID)
}

func TestLicenseStatusPerpetual(t *testing.T) {
	s := setupClientTest(t)
	defer s.ctrl.Finish()

	ret := packOutputs(t, licenseStatusOutputs,
		false, true, false, uint8(0), uint64(0), ownerAddr)

	s.eth.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(ret, nil)

	status, err := s.client.LicenseStatus(context.Background(), 4)
	require.NoError(t, err)

	assert.False(t, status.Revoked)
	assert.True(t, status.ValidAPI)
	assert.False(t, status.ValidDownload)
	assert.Equal(t, domain.LicenseKindPerpetual, status.Kind)
	assert.Nil(t, status.ExpiresAt)
	assert.Equal(t, ownerAddr.Hex(), status.Owner)
}

func TestLicenseStatusSubscription(t *testing.T) {
	s := setupClientTest(t)
	defer s.ctrl.Finish()

	expiry := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ret := packOutputs(t, licenseStatusOutputs,
		true, false, true, uint8(1), uint64(expiry.Unix()), ownerAddr)

	s.eth.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(ret, nil)

	status, err := s.client.LicenseStatus(context.Background(), 4)
	require.NoError(t, err)

	assert.True(t, status.Revoked)
	assert.True(t, status.ValidDownload)
	assert.Equal(t, domain.LicenseKindSubscription, status.Kind)
	require.NotNil(t, status.ExpiresAt)
	assert.True(t, expiry.Equal(*status.ExpiresAt))
}

func TestLicenseStatusUnknownLicense(t *testing.T) {
	s := setupClientTest(t)
	defer s.ctrl.Finish()

	ret := packOutputs(t, licenseStatusOutputs,
		false, false, false, uint8(0), uint64(0), common.Address{})

	s.eth.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(ret, nil)

	_, err := s.client.LicenseStatus(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCalculateSplit(t *testing.T) {
	s := setupClientTest(t)
	defer s.ctrl.Finish()

	const calculateSplitOutputs = `[{"constant":true,"inputs":[],"name":"f","outputs":[{"name":"sellerAmount","type":"uint256"},{"name":"creatorAmount","type":"uint256"},{"name":"marketplaceAmount","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`
	ret := packOutputs(t, calculateSplitOutputs,
		big.NewInt(92_500000), big.NewInt(5_000000), big.NewInt(2_500000))

	s.eth.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(ret, nil)

	breakdown, err := s.client.CalculateSplit(context.Background(), 1, 100_000000)
	require.NoError(t, err)

	assert.Equal(t, uint64(92_500000), breakdown.SellerAmount)
	assert.Equal(t, uint64(5_000000), breakdown.CreatorAmount)
	assert.Equal(t, uint64(2_500000), breakdown.MarketplaceAmount)
}

func TestCallTargetsContract(t *testing.T) {
	s := setupClientTest(t)
	defer s.ctrl.Finish()

	const licenseAssetOutputs = `[{"constant":true,"inputs":[],"name":"f","outputs":[{"name":"","type":"uint256"}],"payable":false,"stateMutability":"view","type":"function"}]`

	s.eth.EXPECT().
		CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
			require.NotNil(t, msg.To)
			assert.Equal(t, common.HexToAddress(contractAddress), *msg.To)
			assert.NotEmpty(t, msg.Data)
			return packOutputs(t, licenseAssetOutputs, big.NewInt(1)), nil
		})

	_, err := s.client.LicenseAsset(context.Background(), 4)
	require.NoError(t, err)
}

func TestClose(t *testing.T) {
	s := setupClientTest(t)
	defer s.ctrl.Finish()

	s.eth.EXPECT().Close()
	s.client.Close()
}
