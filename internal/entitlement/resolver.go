// Package entitlement answers "does principal P currently hold a valid,
// non-revoked license for asset A, and with which rights". Every
// access-gated operation consults this resolver; the relational cache is
// never used for access decisions, only ledger-derived state.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/modelzoo-market/mz-indexer/internal/adapter"
	"github.com/modelzoo-market/mz-indexer/internal/domain"
	"github.com/modelzoo-market/mz-indexer/internal/providers/evm"
	"github.com/modelzoo-market/mz-indexer/internal/providers/suiledger"
)

// Resolver computes license entitlements from raw ledger state
type Resolver struct {
	account evm.Client
	object  suiledger.Client
	clock   adapter.Clock
}

// NewResolver creates an entitlement resolver over both ledger backends
func NewResolver(account evm.Client, object suiledger.Client, clock adapter.Clock) *Resolver {
	return &Resolver{account: account, object: object, clock: clock}
}

// Resolve answers whether the principal may use the asset right now. A
// principal with no valid license gets {Found: false}, never an error;
// errors are reserved for upstream failures.
//
// A principal may hold several licenses for the same asset (for example a
// repurchase after expiry); the first valid one wins, enumerated by license
// id ascending so the answer is deterministic.
func (r *Resolver) Resolve(ctx context.Context, chain domain.Chain, principal string, assetID uint64) (domain.Entitlement, error) {
	principal = domain.NormalizeAddress(chain, principal)

	switch chain.LedgerOf() {
	case domain.LedgerObject:
		return r.resolveObject(ctx, principal, assetID)
	default:
		return r.resolveAccount(ctx, principal, assetID)
	}
}

func (r *Resolver) resolveAccount(ctx context.Context, principal string, assetID uint64) (domain.Entitlement, error) {
	ids, err := r.account.LicenseIDsByHolder(ctx, principal)
	if err != nil {
		return domain.Entitlement{}, fmt.Errorf("failed to enumerate licenses: %w", err)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	now := r.clock.Now()
	for _, id := range ids {
		licAsset, err := r.account.LicenseAsset(ctx, id)
		if err != nil {
			return domain.Entitlement{}, fmt.Errorf("license %d: %w", id, err)
		}
		if licAsset != assetID {
			continue
		}

		status, err := r.account.LicenseStatus(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return domain.Entitlement{}, fmt.Errorf("license %d: %w", id, err)
		}
		if status.Revoked {
			continue
		}
		if status.Kind == domain.LicenseKindSubscription &&
			(status.ExpiresAt == nil || !now.Before(*status.ExpiresAt)) {
			continue
		}

		var rights domain.RightsMask
		if status.ValidAPI {
			rights |= domain.RightAPI
		}
		if status.ValidDownload {
			rights |= domain.RightDownload
		}

		licenseID := id
		return domain.Entitlement{
			Found:     true,
			Rights:    rights,
			LicenseID: &licenseID,
			ExpiresAt: status.ExpiresAt,
		}, nil
	}

	return domain.Entitlement{}, nil
}

func (r *Resolver) resolveObject(ctx context.Context, principal string, assetID uint64) (domain.Entitlement, error) {
	licenses, err := r.object.LicensesByOwner(ctx, principal)
	if err != nil {
		return domain.Entitlement{}, fmt.Errorf("failed to enumerate licenses: %w", err)
	}
	sort.Slice(licenses, func(i, j int) bool { return licenses[i].ID < licenses[j].ID })

	now := r.clock.Now()
	for i := range licenses {
		lic := licenses[i]
		if lic.AssetID != assetID {
			continue
		}

		// Revocation lives in a separate side-record keyed by license id,
		// so it must be fetched per candidate
		revoked, err := r.object.IsLicenseRevoked(ctx, lic.ID)
		if err != nil {
			return domain.Entitlement{}, fmt.Errorf("license %d: %w", lic.ID, err)
		}
		lic.Revoked = revoked

		if !lic.ValidAt(now) {
			continue
		}

		licenseID := lic.ID
		return domain.Entitlement{
			Found:     true,
			Rights:    lic.Rights,
			LicenseID: &licenseID,
			ExpiresAt: lic.ExpiresAt,
		}, nil
	}

	return domain.Entitlement{}, nil
}

// ResolveSlug returns the current asset id for an owner+slug composite key
// on the object ledger. A miss is domain.ErrNotFound: an unpublished slug is
// a normal state, not a fault.
func (r *Resolver) ResolveSlug(ctx context.Context, owner, slug string) (uint64, error) {
	owner = domain.NormalizeAddress(domain.ChainSuiMainnet, owner)
	return r.object.LatestAssetID(ctx, owner, slug)
}
