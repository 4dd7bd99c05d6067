package wire

import (
	"fmt"
	"time"

	"github.com/modelzoo-market/mz-indexer/internal/domain"
)

// DecodeAssetPage decodes a listing-page payload into asset summaries.
// Layout: uvarint element count, then per entry:
// u64 id, 32-byte owner, bool listed, u64 priceDirect, u64 pricePerpetual,
// u64 priceSubscription, u64 defaultDurationDays, u16 version.
func DecodeAssetPage(payload []byte) ([]domain.AssetSummary, error) {
	r := NewReader(payload)

	count, err := r.ReadUvarint("asset count")
	if err != nil {
		return nil, err
	}

	// Each entry occupies at least 75 bytes, so the declared count can be
	// sanity-checked against the remaining buffer before allocating.
	const minEntryLen = 8 + 32 + 1 + 8 + 8 + 8 + 8 + 2
	if count > uint64(r.Remaining())/minEntryLen {
		return nil, fmt.Errorf("%w: declared %d entries but only %d bytes remain",
			domain.ErrMalformedPayload, count, r.Remaining())
	}

	assets := make([]domain.AssetSummary, 0, count)
	for i := uint64(0); i < count; i++ {
		asset, err := decodeAssetSummary(r)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		assets = append(assets, asset)
	}

	return assets, nil
}

func decodeAssetSummary(r *Reader) (domain.AssetSummary, error) {
	var a domain.AssetSummary
	var err error

	if a.ID, err = r.ReadU64("id"); err != nil {
		return a, err
	}
	if a.Owner, err = r.ReadAddress("owner"); err != nil {
		return a, err
	}
	if a.Listed, err = r.ReadBool("listed"); err != nil {
		return a, err
	}
	if a.PriceDirect, err = r.ReadU64("price_direct"); err != nil {
		return a, err
	}
	if a.PricePerpetual, err = r.ReadU64("price_perpetual"); err != nil {
		return a, err
	}
	if a.PriceSubscription, err = r.ReadU64("price_subscription"); err != nil {
		return a, err
	}
	if a.DefaultDurationDays, err = r.ReadU64("default_duration_days"); err != nil {
		return a, err
	}
	if a.Version, err = r.ReadU16("version"); err != nil {
		return a, err
	}

	return a, nil
}

// DecodeAssetDetail decodes the detail payload for a single asset.
// Layout: 32-byte owner, 32-byte creator, bool listed, u64 priceDirect,
// u64 pricePerpetual, u64 priceSubscription, u64 defaultDurationDays,
// u16 version, u16 royaltyBps, 32-byte termsHash, u8 deliveryRightsDefault.
func DecodeAssetDetail(payload []byte) (*domain.AssetDetail, error) {
	r := NewReader(payload)

	var d domain.AssetDetail
	var err error

	if d.Owner, err = r.ReadAddress("owner"); err != nil {
		return nil, err
	}
	if d.Creator, err = r.ReadAddress("creator"); err != nil {
		return nil, err
	}
	if d.Listed, err = r.ReadBool("listed"); err != nil {
		return nil, err
	}
	if d.PriceDirect, err = r.ReadU64("price_direct"); err != nil {
		return nil, err
	}
	if d.PricePerpetual, err = r.ReadU64("price_perpetual"); err != nil {
		return nil, err
	}
	if d.PriceSubscription, err = r.ReadU64("price_subscription"); err != nil {
		return nil, err
	}
	if d.DefaultDurationDays, err = r.ReadU64("default_duration_days"); err != nil {
		return nil, err
	}
	if d.Version, err = r.ReadU16("version"); err != nil {
		return nil, err
	}
	if d.RoyaltyBps, err = r.ReadU16("royalty_bps"); err != nil {
		return nil, err
	}
	if d.TermsHash, err = r.ReadHash("terms_hash"); err != nil {
		return nil, err
	}
	rights, err := r.ReadU8("delivery_rights_default")
	if err != nil {
		return nil, err
	}
	d.DeliveryRightsDefault = domain.RightsMask(rights)

	return &d, nil
}

// DecodeLicensePage decodes a holder's license vector.
// Layout: uvarint element count, then per entry:
// u64 id, u64 assetID, 32-byte holder, u8 kind (0 perpetual, 1 subscription),
// u64 expiresAtUnix (seconds, 0 when perpetual), bool transferable, u8 rights.
func DecodeLicensePage(payload []byte) ([]domain.License, error) {
	r := NewReader(payload)

	count, err := r.ReadUvarint("license count")
	if err != nil {
		return nil, err
	}

	const minEntryLen = 8 + 8 + 32 + 1 + 8 + 1 + 1
	if count > uint64(r.Remaining())/minEntryLen {
		return nil, fmt.Errorf("%w: declared %d entries but only %d bytes remain",
			domain.ErrMalformedPayload, count, r.Remaining())
	}

	licenses := make([]domain.License, 0, count)
	for i := uint64(0); i < count; i++ {
		lic, err := decodeLicense(r)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		licenses = append(licenses, lic)
	}

	return licenses, nil
}

func decodeLicense(r *Reader) (domain.License, error) {
	var l domain.License
	var err error

	if l.ID, err = r.ReadU64("id"); err != nil {
		return l, err
	}
	if l.AssetID, err = r.ReadU64("asset_id"); err != nil {
		return l, err
	}
	if l.Holder, err = r.ReadAddress("holder"); err != nil {
		return l, err
	}
	kind, err := r.ReadU8("kind")
	if err != nil {
		return l, err
	}
	expiresAt, err := r.ReadU64("expires_at")
	if err != nil {
		return l, err
	}
	if l.Transferable, err = r.ReadBool("transferable"); err != nil {
		return l, err
	}
	rights, err := r.ReadU8("rights")
	if err != nil {
		return l, err
	}

	if kind == 1 {
		l.Kind = domain.LicenseKindSubscription
		t := unixTime(expiresAt)
		l.ExpiresAt = &t
	} else {
		l.Kind = domain.LicenseKindPerpetual
	}
	l.Rights = domain.RightsMask(rights)

	return l, nil
}

func unixTime(sec uint64) time.Time {
	return time.Unix(int64(sec), 0).UTC() //nolint:gosec,G115
}

// DecodeAssetMeta decodes the asset_meta payload: two length-prefixed UTF-8
// strings, display name then metadata URI
func DecodeAssetMeta(payload []byte) (name, uri string, err error) {
	r := NewReader(payload)
	name, err = r.ReadString("name")
	if err != nil {
		return "", "", err
	}
	uri, err = r.ReadString("uri")
	if err != nil {
		return "", "", err
	}
	return name, uri, nil
}

// DecodeBool decodes a single-byte boolean payload, used by side-record
// lookups such as revocation flags
func DecodeBool(payload []byte) (bool, error) {
	r := NewReader(payload)
	return r.ReadBool("flag")
}

// DecodeU64 decodes a bare little-endian uint64 payload, used by the
// composite-key slug lookup's latest_id pointer
func DecodeU64(payload []byte) (uint64, error) {
	r := NewReader(payload)
	return r.ReadU64("value")
}
