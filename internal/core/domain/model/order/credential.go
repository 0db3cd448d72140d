package order

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"time"

	"fulfillment/internal/pkg/errs"
)

const (
	// CodeLength is the fixed width of a confirmation code.
	CodeLength = 4

	// CredentialTTL is how long a confirmation code stays redeemable.
	CredentialTTL = 2 * time.Hour
)

// Credential is the time-bounded confirmation code that authorizes marking a
// sub-order delivered. It is a value triple (code, expiry, issued-at) embedded
// in the sub-order: present only during the delivery-in-progress window and
// cleared on redemption.
type Credential struct {
	code      string
	issuedAt  time.Time
	expiresAt time.Time

	isConstructed bool
}

// GenerateCode produces a fixed-width random numeric confirmation code.
func GenerateCode() (string, error) {
	// 10^CodeLength possible codes; the leading range shift keeps the width fixed.
	low := int64(1)
	for i := 1; i < CodeLength; i++ {
		low *= 10
	}
	span := big.NewInt(low*10 - low)

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("generate confirmation code: %w", err)
	}

	return fmt.Sprintf("%d", n.Int64()+low), nil
}

// NewCredential creates a credential issued at the given time, expiring after
// CredentialTTL.
func NewCredential(code string, issuedAt time.Time) (Credential, error) {
	if len(code) != CodeLength {
		return Credential{}, errs.NewValueIsInvalidErrorWithCause("confirmation code",
			fmt.Errorf("code must be %d digits", CodeLength))
	}

	return Credential{
		code:          code,
		issuedAt:      issuedAt,
		expiresAt:     issuedAt.Add(CredentialTTL),
		isConstructed: true,
	}, nil
}

// RestoreCredential reconstructs a credential from persistence with its
// original expiry.
func RestoreCredential(code string, issuedAt, expiresAt time.Time) (Credential, error) {
	if code == "" {
		return Credential{}, errs.NewValueIsRequiredError("confirmation code")
	}

	return Credential{
		code:          code,
		issuedAt:      issuedAt,
		expiresAt:     expiresAt,
		isConstructed: true,
	}, nil
}

// Code returns the numeric confirmation code.
func (c Credential) Code() string {
	return c.code
}

// IssuedAt returns the time the code was minted.
func (c Credential) IssuedAt() time.Time {
	return c.issuedAt
}

// ExpiresAt returns the time the code stops being redeemable.
func (c Credential) ExpiresAt() time.Time {
	return c.expiresAt
}

// IsValid reports whether the code is still redeemable at the given time.
func (c Credential) IsValid(now time.Time) bool {
	return c.isConstructed && now.Before(c.expiresAt)
}

// Matches reports whether the candidate code equals the stored code and the
// credential has not expired. The comparison is constant-time since the code
// equality check is the sole authorization boundary for redemption.
func (c Credential) Matches(candidate string, now time.Time) bool {
	if !c.IsValid(now) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.code), []byte(candidate)) == 1
}

// Validate ensures the credential was created via a constructor.
func (c Credential) Validate() error {
	if !c.isConstructed {
		return errs.NewValueIsRequiredError("credential must be created via NewCredential")
	}
	return nil
}
