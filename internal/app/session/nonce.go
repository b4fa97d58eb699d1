package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidNonce = errors.New("invalid refresh nonce")

// NonceSigner issues refresh nonces bound to one checkout id and the
// customer it was rendered for (empty for guests). A nonce is
// "<expiry unix>.<base64url hmac>".
type NonceSigner struct {
	key   []byte
	ttl   time.Duration
	clock func() time.Time
}

func NewNonceSigner(secret string, ttl time.Duration, clock func() time.Time) *NonceSigner {
	if clock == nil {
		clock = time.Now
	}
	return &NonceSigner{
		key:   []byte(secret),
		ttl:   ttl,
		clock: clock,
	}
}

func (s *NonceSigner) Issue(checkoutID, customerID string) string {
	expiry := strconv.FormatInt(s.clock().Add(s.ttl).Unix(), 10)
	return expiry + "." + s.sign(expiry, checkoutID, customerID)
}

func (s *NonceSigner) Verify(nonce, checkoutID, customerID string) error {
	expiry, signature, ok := strings.Cut(nonce, ".")
	if !ok || checkoutID == "" {
		return ErrInvalidNonce
	}

	unix, err := strconv.ParseInt(expiry, 10, 64)
	if err != nil || s.clock().After(time.Unix(unix, 0)) {
		return ErrInvalidNonce
	}

	if !hmac.Equal([]byte(signature), []byte(s.sign(expiry, checkoutID, customerID))) {
		return ErrInvalidNonce
	}

	return nil
}

func (s *NonceSigner) sign(expiry, checkoutID, customerID string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(strconv.Quote(expiry) + strconv.Quote(checkoutID) + strconv.Quote(customerID)))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
