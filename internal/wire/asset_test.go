package wire

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelzoo-market/mz-indexer/internal/domain"
)

// payloadWriter builds test payloads in the same layout the decoders expect
type payloadWriter struct {
	buf []byte
}

func (w *payloadWriter) uvarint(v uint64) *payloadWriter {
	w.buf = binary.AppendUvarint(w.buf, v)
	return w
}

func (w *payloadWriter) u64(v uint64) *payloadWriter {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
	return w
}

func (w *payloadWriter) u16(v uint16) *payloadWriter {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
	return w
}

func (w *payloadWriter) u8(v uint8) *payloadWriter {
	w.buf = append(w.buf, v)
	return w
}

func (w *payloadWriter) boolean(v bool) *payloadWriter {
	if v {
		return w.u8(1)
	}
	return w.u8(0)
}

func (w *payloadWriter) address(last byte) *payloadWriter {
	addr := make([]byte, 32)
	addr[31] = last
	w.buf = append(w.buf, addr...)
	return w
}

func (w *payloadWriter) hash(fill byte) *payloadWriter {
	h := make([]byte, 32)
	for i := range h {
		h[i] = fill
	}
	w.buf = append(w.buf, h...)
	return w
}

func (w *payloadWriter) str(s string) *payloadWriter {
	w.uvarint(uint64(len(s)))
	w.buf = append(w.buf, s...)
	return w
}

func addrHex(last byte) string {
	addr := make([]byte, 32)
	addr[31] = last
	return "0x" + hexEncode(addr)
}

func hexEncode(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, 0, len(b)*2)
	for _, c := range b {
		out = append(out, digits[c>>4], digits[c&0x0f])
	}
	return string(out)
}

func TestDecodeAssetPage(t *testing.T) {
	w := &payloadWriter{}
	w.uvarint(2)
	// entry 0
	w.u64(1).address(0xaa).boolean(true).
		u64(10_000000).u64(50_000000).u64(5_000000).u64(30).u16(3)
	// entry 1
	w.u64(2).address(0xbb).boolean(false).
		u64(0).u64(0).u64(0).u64(0).u16(1)

	assets, err := DecodeAssetPage(w.buf)
	require.NoError(t, err)
	require.Len(t, assets, 2)

	assert.Equal(t, domain.AssetSummary{
		ID:                  1,
		Owner:               addrHex(0xaa),
		Listed:              true,
		PriceDirect:         10_000000,
		PricePerpetual:      50_000000,
		PriceSubscription:   5_000000,
		DefaultDurationDays: 30,
		Version:             3,
	}, assets[0])

	assert.Equal(t, uint64(2), assets[1].ID)
	assert.False(t, assets[1].Listed)
}

func TestDecodeAssetPageEmpty(t *testing.T) {
	assets, err := DecodeAssetPage([]byte{0x00})
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestDecodeAssetPageCountExceedsBuffer(t *testing.T) {
	// Declared count cannot fit in the remaining bytes.
	_, err := DecodeAssetPage([]byte{0x05, 0x01, 0x02})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestDecodeAssetPageTruncatedEntry(t *testing.T) {
	w := &payloadWriter{}
	w.uvarint(2)
	w.u64(1).address(0xaa).boolean(true).
		u64(10).u64(20).u64(30).u64(40).u16(1)
	// second declared entry is missing entirely

	_, err := DecodeAssetPage(w.buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestDecodeAssetDetail(t *testing.T) {
	w := &payloadWriter{}
	w.address(0x01).address(0x02).boolean(true).
		u64(10_000000).u64(50_000000).u64(5_000000).u64(30).
		u16(2).u16(500).hash(0x7e).u8(uint8(domain.RightAPI | domain.RightDownload))

	detail, err := DecodeAssetDetail(w.buf)
	require.NoError(t, err)

	assert.Equal(t, addrHex(0x01), detail.Owner)
	assert.Equal(t, addrHex(0x02), detail.Creator)
	assert.True(t, detail.Listed)
	assert.Equal(t, uint64(10_000000), detail.PriceDirect)
	assert.Equal(t, uint64(50_000000), detail.PricePerpetual)
	assert.Equal(t, uint64(5_000000), detail.PriceSubscription)
	assert.Equal(t, uint64(30), detail.DefaultDurationDays)
	assert.Equal(t, uint16(2), detail.Version)
	assert.Equal(t, uint16(500), detail.RoyaltyBps)
	assert.Equal(t, byte(0x7e), detail.TermsHash[0])
	assert.Equal(t, byte(0x7e), detail.TermsHash[31])
	assert.Equal(t, domain.RightAPI|domain.RightDownload, detail.DeliveryRightsDefault)
}

func TestDecodeAssetDetailTruncated(t *testing.T) {
	w := &payloadWriter{}
	w.address(0x01).address(0x02).boolean(true)

	_, err := DecodeAssetDetail(w.buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestDecodeLicensePage(t *testing.T) {
	expiry := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	w := &payloadWriter{}
	w.uvarint(2)
	// perpetual
	w.u64(100).u64(1).address(0xcc).u8(0).u64(0).boolean(true).u8(uint8(domain.RightAPI))
	// subscription
	w.u64(101).u64(2).address(0xcc).u8(1).
		u64(uint64(expiry.Unix())).boolean(false).u8(uint8(domain.RightDownload))

	licenses, err := DecodeLicensePage(w.buf)
	require.NoError(t, err)
	require.Len(t, licenses, 2)

	perpetual := licenses[0]
	assert.Equal(t, uint64(100), perpetual.ID)
	assert.Equal(t, uint64(1), perpetual.AssetID)
	assert.Equal(t, addrHex(0xcc), perpetual.Holder)
	assert.Equal(t, domain.LicenseKindPerpetual, perpetual.Kind)
	assert.Nil(t, perpetual.ExpiresAt)
	assert.True(t, perpetual.Transferable)
	assert.Equal(t, domain.RightAPI, perpetual.Rights)

	subscription := licenses[1]
	assert.Equal(t, domain.LicenseKindSubscription, subscription.Kind)
	require.NotNil(t, subscription.ExpiresAt)
	assert.True(t, expiry.Equal(*subscription.ExpiresAt))
	assert.False(t, subscription.Transferable)
	assert.Equal(t, domain.RightDownload, subscription.Rights)
}

func TestDecodeLicensePageEmpty(t *testing.T) {
	licenses, err := DecodeLicensePage([]byte{0x00})
	require.NoError(t, err)
	assert.Empty(t, licenses)
}

func TestDecodeLicensePageCountExceedsBuffer(t *testing.T) {
	_, err := DecodeLicensePage([]byte{0x03, 0x01})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestDecodeAssetMeta(t *testing.T) {
	w := &payloadWriter{}
	w.str("llama-7b-chat").str("ipfs://QmModelMeta")

	name, uri, err := DecodeAssetMeta(w.buf)
	require.NoError(t, err)
	assert.Equal(t, "llama-7b-chat", name)
	assert.Equal(t, "ipfs://QmModelMeta", uri)
}

func TestDecodeAssetMetaTruncatedURI(t *testing.T) {
	w := &payloadWriter{}
	w.str("llama-7b-chat")

	_, _, err := DecodeAssetMeta(w.buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestDecodeBool(t *testing.T) {
	revoked, err := DecodeBool([]byte{0x01})
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = DecodeBool([]byte{0x00})
	require.NoError(t, err)
	assert.False(t, revoked)

	_, err = DecodeBool([]byte{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestDecodeU64(t *testing.T) {
	buf := binary.LittleEndian.AppendUint64(nil, 42)
	value, err := DecodeU64(buf)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), value)

	_, err = DecodeU64(buf[:4])
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
}
