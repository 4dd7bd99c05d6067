package metadata

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelzoo-market/mz-indexer/internal/adapter"
	"github.com/modelzoo-market/mz-indexer/internal/domain"
	"github.com/modelzoo-market/mz-indexer/internal/store/schema"
)

// NormalizedMetadata represents the normalized model metadata document
type NormalizedMetadata struct {
	Raw           map[string]interface{} `json:"raw"`
	Categories    []string               `json:"categories"`
	Tags          []string               `json:"tags"`
	Frameworks    []string               `json:"frameworks"`
	Architectures []string               `json:"architectures"`
	ImageRef      string                 `json:"image_ref"`
}

// Derived converts the normalized metadata into the cache row projection
func (n *NormalizedMetadata) Derived(json adapter.JSON) (schema.DerivedMetadata, error) {
	raw, err := json.Marshal(n.Raw)
	if err != nil {
		return schema.DerivedMetadata{}, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	derived := schema.DerivedMetadata{
		Categories:    n.Categories,
		Tags:          n.Tags,
		Frameworks:    n.Frameworks,
		Architectures: n.Architectures,
		RawMetadata:   raw,
	}
	if n.ImageRef != "" {
		ref := n.ImageRef
		derived.ImageRef = &ref
	}
	return derived, nil
}

// Resolver defines the interface for resolving a model's metadata document
// from its published URI
//
//go:generate mockgen -source=resolver.go -destination=../mocks/metadata_resolver.go -package=mocks -mock_names=Resolver=MockMetadataResolver
type Resolver interface {
	Resolve(ctx context.Context, uri string) (*NormalizedMetadata, error)
}

type resolver struct {
	httpClient adapter.HTTPClient
	json       adapter.JSON
	base64     adapter.Base64
}

func NewResolver(httpClient adapter.HTTPClient, json adapter.JSON, base64 adapter.Base64) Resolver {
	return &resolver{
		httpClient: httpClient,
		json:       json,
		base64:     base64,
	}
}

func (r *resolver) Resolve(ctx context.Context, uri string) (*NormalizedMetadata, error) {
	processedURI := processMetadataURI(uri)
	metadata, err := r.fetchMetadataFromURI(ctx, processedURI)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata from URI %s: %w", processedURI, err)
	}

	return normalizeModelMetadata(metadata), nil
}

// normalizeModelMetadata extracts the catalog-facing fields from a model
// metadata document. Unknown or malformed fields are skipped rather than
// failing the whole document.
func normalizeModelMetadata(metadata map[string]interface{}) *NormalizedMetadata {
	normalized := &NormalizedMetadata{
		Raw:           metadata,
		Categories:    stringSlice(metadata["categories"]),
		Tags:          stringSlice(metadata["tags"]),
		Frameworks:    stringSlice(metadata["frameworks"]),
		Architectures: stringSlice(metadata["architectures"]),
	}

	// Single-valued fallbacks used by older publishing tools
	if len(normalized.Categories) == 0 {
		if c, ok := metadata["category"].(string); ok && c != "" {
			normalized.Categories = []string{c}
		}
	}
	if len(normalized.Frameworks) == 0 {
		if f, ok := metadata["framework"].(string); ok && f != "" {
			normalized.Frameworks = []string{f}
		}
	}
	if len(normalized.Architectures) == 0 {
		if a, ok := metadata["architecture"].(string); ok && a != "" {
			normalized.Architectures = []string{a}
		}
	}

	if i, ok := metadata["image"].(string); ok {
		normalized.ImageRef = uriToGateway(i)
	}
	// Container distributions advertise an OCI image reference instead
	if i, ok := metadata["image_ref"].(string); ok && i != "" {
		normalized.ImageRef = i
	}

	return normalized
}

// stringSlice coerces a JSON array value into a string slice, skipping
// non-string entries
func stringSlice(value interface{}) []string {
	items, ok := value.([]interface{})
	if !ok {
		return nil
	}

	var result []string
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			result = append(result, s)
		}
	}
	return result
}

// processMetadataURI processes the metadata URI to handle different protocols
// and formats:
// - URI can be https://, ipfs://, ar://, or data:
// - If HTTP includes /ipfs/, fallback to ipfs:// to avoid private gateway
// - For ipfs:// or ar://, use well-known gateways
func processMetadataURI(uri string) string {
	// If the URI contains /ipfs/ in an HTTP URL, convert to ipfs:// protocol
	if strings.HasPrefix(uri, "http") && strings.Contains(uri, "/ipfs/") {
		parts := strings.Split(uri, "/ipfs/")
		if len(parts) > 1 {
			uri = "ipfs://" + parts[1]
		}
	}

	return uri
}

// fetchMetadataFromURI fetches metadata from a given URI, handling different protocols
func (r *resolver) fetchMetadataFromURI(ctx context.Context, uri string) (map[string]interface{}, error) {
	switch {
	case strings.HasPrefix(uri, "data:"):
		return r.parseDataURI(uri)
	case strings.HasPrefix(uri, "ipfs://"):
		return r.fetchFromIPFS(ctx, uri)
	case strings.HasPrefix(uri, "ar://"):
		return r.fetchFromArweave(ctx, uri)
	case strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://"):
		return r.fetchFromHTTP(ctx, uri)
	default:
		return nil, fmt.Errorf("unsupported URI scheme: %s", uri)
	}
}

// parseDataURI parses a data URI and returns the metadata
func (r *resolver) parseDataURI(uri string) (map[string]interface{}, error) {
	// data:application/json;base64,<encoded data>
	// or data:application/json,<json data>
	if !strings.HasPrefix(uri, "data:") {
		return nil, fmt.Errorf("invalid data URI")
	}

	parts := strings.SplitN(uri[5:], ",", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid data URI format")
	}

	dataType := parts[0]
	data := parts[1]

	if strings.Contains(dataType, "base64") {
		decoded, err := r.base64.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64: %w", err)
		}
		data = string(decoded)
	}

	var metadata map[string]interface{}
	if err := r.json.Unmarshal([]byte(data), &metadata); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return metadata, nil
}

// fetchFromIPFS fetches metadata from IPFS using multiple gateways in parallel
func (r *resolver) fetchFromIPFS(ctx context.Context, uri string) (map[string]interface{}, error) {
	ipfsHash := strings.TrimPrefix(uri, "ipfs://")

	// Well-known IPFS gateways
	gateways := []string{
		"https://ipfs.io/ipfs/",
		"https://cloudflare-ipfs.com/ipfs/",
		"https://nftstorage.link/ipfs/",
		"https://gateway.pinata.cloud/ipfs/",
		"https://dweb.link/ipfs/",
	}

	// Try gateways in parallel, return first successful result
	type result struct {
		metadata map[string]interface{}
		err      error
	}

	results := make(chan result, len(gateways))

	for _, gateway := range gateways {
		go func(gw string) {
			url := gw + ipfsHash
			metadata, err := r.fetchFromHTTP(ctx, url)
			results <- result{metadata: metadata, err: err}
		}(gateway)
	}

	var lastErr error
	for range gateways {
		res := <-results
		if res.err == nil {
			return res.metadata, nil
		}
		lastErr = res.err
	}

	return nil, fmt.Errorf("failed to fetch from all IPFS gateways: %w", lastErr)
}

// fetchFromArweave fetches metadata from Arweave using multiple gateways in parallel
func (r *resolver) fetchFromArweave(ctx context.Context, uri string) (map[string]interface{}, error) {
	arTxID := strings.TrimPrefix(uri, "ar://")

	// Well-known Arweave gateways
	gateways := []string{
		"https://arweave.net/",
		"https://arweave.dev/",
	}

	type result struct {
		metadata map[string]interface{}
		err      error
	}

	results := make(chan result, len(gateways))

	for _, gateway := range gateways {
		go func(gw string) {
			url := gw + arTxID
			metadata, err := r.fetchFromHTTP(ctx, url)
			results <- result{metadata: metadata, err: err}
		}(gateway)
	}

	var lastErr error
	for range gateways {
		res := <-results
		if res.err == nil {
			return res.metadata, nil
		}
		lastErr = res.err
	}

	return nil, fmt.Errorf("failed to fetch from all Arweave gateways: %w", lastErr)
}

// fetchFromHTTP fetches metadata from an HTTP(S) URL
func (r *resolver) fetchFromHTTP(ctx context.Context, url string) (map[string]interface{}, error) {
	var metadata map[string]interface{}
	err := r.httpClient.Get(ctx, url, &metadata)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUpstreamUnavailable, err)
	}

	return metadata, nil
}

// uriToGateway converts a URI to a public gateway URL
func uriToGateway(uri string) string {
	switch {
	case strings.HasPrefix(uri, "ipfs://"):
		return "https://ipfs.io/ipfs/" + strings.TrimPrefix(uri, "ipfs://")
	case strings.HasPrefix(uri, "ar://"):
		return "https://arweave.net/" + strings.TrimPrefix(uri, "ar://")
	default:
		return uri
	}
}
