package adapter

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/slotwise/edge-gateway/internal/auth"
	"github.com/slotwise/edge-gateway/internal/domain"
)

// ssmClient is the narrow consumer-defined interface for SSM Parameter Store operations.
type ssmClient interface {
	GetParametersByPath(ctx context.Context, params *awsssm.GetParametersByPathInput, optFns ...func(*awsssm.Options)) (*awsssm.GetParametersByPathOutput, error)
}

// Compile-time check: SSMKeyStore implements auth.KeyStore.
var _ auth.KeyStore = (*SSMKeyStore)(nil)

// ssmPublicKeysPathPrefix is the SSM parameter path prefix for public
// verification keys. Each key is stored at /slotwise/jwt/public-keys/{KEY_ID}.
const ssmPublicKeysPathPrefix = "/slotwise/jwt/public-keys/"

// SSMKeyStore implements auth.KeyStore by loading public verification keys
// from SSM Parameter Store. It is verification-only: the edge never holds a
// private signing key, and SigningKey always errors.
//
// Public keys are eagerly loaded at construction (the edge must not start
// unable to verify session tokens), cached with a TTL, and refreshed lazily
// on read. An unknown kid triggers at most one refresh per cooldown window,
// so a flood of tokens with bogus kids cannot hammer SSM.
type SSMKeyStore struct {
	ssm   ssmClient
	clock domain.Clock

	mu                    sync.RWMutex
	publicKeys            map[string]*rsa.PublicKey
	publicKeysLoadedAt    time.Time
	lastUnknownKidRefresh time.Time
	cacheTTL              time.Duration
	kidCooldown           time.Duration
}

// NewSSMKeyStore creates an SSMKeyStore and eagerly loads all public keys.
// Synchronous: no goroutines in constructors.
func NewSSMKeyStore(ctx context.Context, ssm ssmClient, clock domain.Clock) (*SSMKeyStore, error) {
	publicKeys, err := loadPublicKeysFromSSM(ctx, ssm)
	if err != nil {
		return nil, fmt.Errorf("loading public keys from SSM: %w", err)
	}
	if len(publicKeys) == 0 {
		return nil, fmt.Errorf("no public keys found under %s", ssmPublicKeysPathPrefix)
	}

	return &SSMKeyStore{
		ssm:                ssm,
		clock:              clock,
		publicKeys:         publicKeys,
		publicKeysLoadedAt: clock.Now(),
		cacheTTL:           domain.KeyCacheTTL,
		kidCooldown:        domain.KidRefreshCooldown,
	}, nil
}

// SigningKey always errors: the edge is verification-only.
func (ks *SSMKeyStore) SigningKey() (*rsa.PrivateKey, string, error) {
	return nil, "", fmt.Errorf("edge gateway holds no signing key")
}

// PublicKey returns the public key for the given key ID.
//
// Cache strategy:
//   - If kid is found and cache is fresh, return immediately.
//   - If cache is expired (age > cacheTTL), refresh all public keys inline.
//   - If kid is not found and cooldown is expired, do a single SSM refresh.
//   - If kid is still not found after refresh, return an error.
//
// NOTE: This method uses context.Background() for SSM refresh calls because
// the auth.KeyStore interface does not accept context; cache refresh on the
// read path is the documented exception.
func (ks *SSMKeyStore) PublicKey(kid string) (*rsa.PublicKey, error) {
	// Fast path: RLock check.
	ks.mu.RLock()
	now := ks.clock.Now()
	cacheExpired := now.Sub(ks.publicKeysLoadedAt) > ks.cacheTTL

	if !cacheExpired {
		if pk, ok := ks.publicKeys[kid]; ok {
			ks.mu.RUnlock()
			return pk, nil
		}
	}
	ks.mu.RUnlock()

	// Slow path: cache expired or kid not found - need refresh.
	if cacheExpired {
		if err := ks.refreshPublicKeys(context.Background(), false); err != nil {
			return nil, fmt.Errorf("refreshing public keys (cache expired): %w", err)
		}

		ks.mu.RLock()
		pk, ok := ks.publicKeys[kid]
		ks.mu.RUnlock()
		if ok {
			return pk, nil
		}
	}

	// Kid not found after cache-expiry refresh (or cache was fresh but kid
	// missing). Check cooldown before doing an unknown-kid refresh.
	ks.mu.RLock()
	cooldownActive := now.Sub(ks.lastUnknownKidRefresh) <= ks.kidCooldown
	ks.mu.RUnlock()

	if cooldownActive {
		return nil, fmt.Errorf("unknown key ID %q (cooldown active)", kid)
	}

	if err := ks.refreshPublicKeys(context.Background(), true); err != nil {
		return nil, fmt.Errorf("refreshing public keys (unknown kid %q): %w", kid, err)
	}

	ks.mu.RLock()
	pk, ok := ks.publicKeys[kid]
	ks.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown key ID %q", kid)
	}
	return pk, nil
}

// refreshPublicKeys fetches all public keys from SSM and updates the cache.
// When unknownKid is set, the unknown-kid cooldown is also reset.
// Acquires write Lock.
func (ks *SSMKeyStore) refreshPublicKeys(ctx context.Context, unknownKid bool) error {
	publicKeys, err := loadPublicKeysFromSSM(ctx, ks.ssm)
	if err != nil {
		return fmt.Errorf("loading public keys from SSM: %w", err)
	}

	ks.mu.Lock()
	defer ks.mu.Unlock()

	ks.publicKeys = publicKeys
	ks.publicKeysLoadedAt = ks.clock.Now()
	if unknownKid {
		ks.lastUnknownKidRefresh = ks.clock.Now()
	}
	return nil
}

// loadPublicKeysFromSSM fetches all public key parameters under the SSM path
// prefix and parses each into an *rsa.PublicKey. The key ID is derived from
// the parameter name by trimming the path prefix.
func loadPublicKeysFromSSM(ctx context.Context, client ssmClient) (map[string]*rsa.PublicKey, error) {
	output, err := client.GetParametersByPath(ctx, &awsssm.GetParametersByPathInput{
		Path:      aws.String(ssmPublicKeysPathPrefix),
		Recursive: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("GetParametersByPath %q: %w", ssmPublicKeysPathPrefix, err)
	}

	publicKeys := make(map[string]*rsa.PublicKey, len(output.Parameters))
	for _, param := range output.Parameters {
		if param.Name == nil || param.Value == nil {
			continue
		}
		kid := strings.TrimPrefix(*param.Name, ssmPublicKeysPathPrefix)
		pk, err := parseRSAPublicKey(*param.Value)
		if err != nil {
			return nil, fmt.Errorf("parsing public key for kid %q: %w", kid, err)
		}
		publicKeys[kid] = pk
	}

	return publicKeys, nil
}

// parseRSAPublicKey parses a PEM-encoded RSA public key in PKIX format.
func parseRSAPublicKey(pemData string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil {
		return nil, fmt.Errorf("no PEM block found in public key data")
	}

	keyIface, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parsing PKIX public key: %w", err)
	}

	rsaKey, ok := keyIface.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("PKIX key is not RSA (got %T)", keyIface)
	}
	return rsaKey, nil
}
