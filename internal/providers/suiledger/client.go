// Package suiledger reads marketplace state from the object-capability
// ledger. All queries are read-only inspect calls whose return values are
// fixed-schema binary payloads decoded by the wire package. The payloads are
// treated as untrusted even though they originate from a ledger node, since
// callers can request arbitrary ids and ranges.
package suiledger

import (
	"context"
	"fmt"
	"strconv"

	"github.com/modelzoo-market/mz-indexer/internal/adapter"
	"github.com/modelzoo-market/mz-indexer/internal/domain"
	"github.com/modelzoo-market/mz-indexer/internal/wire"
)

// Inspect-call function names exposed by the marketplace package on the
// object ledger
const (
	fnAssetPage      = "registry::asset_page"
	fnAssetDetail    = "registry::asset_detail"
	fnLicensesOf     = "licensing::licenses_of"
	fnLicenseRevoked = "licensing::is_revoked"
	fnLatestAssetID  = "registry::latest_id_by_slug"
	fnAssetMeta      = "registry::asset_meta"
)

// Client reads marketplace state from the object ledger
//
//go:generate mockgen -source=client.go -destination=../../mocks/suiledger_client.go -package=mocks -mock_names=Client=MockObjectLedger
type Client interface {
	// AssetPage fetches a page of published asset summaries starting at the
	// given cursor id
	AssetPage(ctx context.Context, cursor uint64, limit int) ([]domain.AssetSummary, error)

	// AssetDetail fetches the full record of one asset
	AssetDetail(ctx context.Context, assetID uint64) (*domain.AssetDetail, error)

	// LicensesByOwner fetches all license objects held by a principal. The
	// returned licenses carry no revocation state; use IsLicenseRevoked.
	LicensesByOwner(ctx context.Context, owner string) ([]domain.License, error)

	// IsLicenseRevoked checks the revocation side-record for a license id
	IsLicenseRevoked(ctx context.Context, licenseID uint64) (bool, error)

	// LatestAssetID resolves an owner+slug composite key to the current
	// asset id. A missing slug returns domain.ErrNotFound.
	LatestAssetID(ctx context.Context, owner, slug string) (uint64, error)

	// AssetMeta fetches the display name and metadata URI of an asset
	AssetMeta(ctx context.Context, assetID uint64) (name, uri string, err error)
}

type client struct {
	rpc adapter.LedgerRPC
}

// NewClient creates an object-ledger reader
func NewClient(rpc adapter.LedgerRPC) Client {
	return &client{rpc: rpc}
}

// AssetPage fetches a page of published asset summaries
func (c *client) AssetPage(ctx context.Context, cursor uint64, limit int) ([]domain.AssetSummary, error) {
	payload, err := c.rpc.Call(ctx, fnAssetPage, []string{
		strconv.FormatUint(cursor, 10),
		strconv.Itoa(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset page: %w", err)
	}

	assets, err := wire.DecodeAssetPage(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode asset page: %w", err)
	}

	return assets, nil
}

// AssetDetail fetches the full record of one asset
func (c *client) AssetDetail(ctx context.Context, assetID uint64) (*domain.AssetDetail, error) {
	payload, err := c.rpc.Call(ctx, fnAssetDetail, []string{strconv.FormatUint(assetID, 10)})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset detail: %w", err)
	}

	// A missing id returns an empty payload rather than a call failure
	if len(payload) == 0 {
		return nil, fmt.Errorf("asset %d: %w", assetID, domain.ErrNotFound)
	}

	detail, err := wire.DecodeAssetDetail(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode asset detail: %w", err)
	}
	detail.ID = assetID

	return detail, nil
}

// LicensesByOwner fetches all license objects held by a principal
func (c *client) LicensesByOwner(ctx context.Context, owner string) ([]domain.License, error) {
	payload, err := c.rpc.Call(ctx, fnLicensesOf, []string{owner})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch licenses: %w", err)
	}

	licenses, err := wire.DecodeLicensePage(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode licenses: %w", err)
	}

	return licenses, nil
}

// IsLicenseRevoked checks the revocation side-record for a license id
func (c *client) IsLicenseRevoked(ctx context.Context, licenseID uint64) (bool, error) {
	payload, err := c.rpc.Call(ctx, fnLicenseRevoked, []string{strconv.FormatUint(licenseID, 10)})
	if err != nil {
		return false, fmt.Errorf("failed to fetch revocation flag: %w", err)
	}

	// No side-record object means the license was never revoked
	if len(payload) == 0 {
		return false, nil
	}

	revoked, err := wire.DecodeBool(payload)
	if err != nil {
		return false, fmt.Errorf("failed to decode revocation flag: %w", err)
	}

	return revoked, nil
}

// AssetMeta fetches the display name and metadata URI of an asset
func (c *client) AssetMeta(ctx context.Context, assetID uint64) (string, string, error) {
	payload, err := c.rpc.Call(ctx, fnAssetMeta, []string{strconv.FormatUint(assetID, 10)})
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch asset meta: %w", err)
	}

	if len(payload) == 0 {
		return "", "", fmt.Errorf("asset %d: %w", assetID, domain.ErrNotFound)
	}

	name, uri, err := wire.DecodeAssetMeta(payload)
	if err != nil {
		return "", "", fmt.Errorf("failed to decode asset meta: %w", err)
	}

	return name, uri, nil
}

// LatestAssetID resolves an owner+slug composite key to the current asset id
func (c *client) LatestAssetID(ctx context.Context, owner, slug string) (uint64, error) {
	payload, err := c.rpc.Call(ctx, fnLatestAssetID, []string{owner, slug})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch slug record: %w", err)
	}

	// A lookup miss is a normal state: the slug was never published
	if len(payload) == 0 {
		return 0, fmt.Errorf("slug %q: %w", slug, domain.ErrNotFound)
	}

	id, err := wire.DecodeU64(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to decode latest_id pointer: %w", err)
	}

	return id, nil
}
