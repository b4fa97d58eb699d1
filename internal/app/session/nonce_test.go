package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNonceSigner(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	signer := NewNonceSigner("secret", time.Hour, func() time.Time { return now })

	nonce := signer.Issue("chk-1", "")
	assert.NoError(t, signer.Verify(nonce, "chk-1", ""))
	assert.ErrorIs(t, signer.Verify(nonce, "chk-2", ""), ErrInvalidNonce)
	assert.ErrorIs(t, signer.Verify("garbage", "chk-1", ""), ErrInvalidNonce)
	assert.ErrorIs(t, signer.Verify(nonce+"x", "chk-1", ""), ErrInvalidNonce)

	other := NewNonceSigner("other", time.Hour, func() time.Time { return now })
	assert.ErrorIs(t, other.Verify(nonce, "chk-1", ""), ErrInvalidNonce)

	now = now.Add(2 * time.Hour)
	assert.ErrorIs(t, signer.Verify(nonce, "chk-1", ""), ErrInvalidNonce)
}

func TestNonceSignerBindsCustomer(t *testing.T) {
	signer := NewNonceSigner("secret", time.Hour, nil)

	guest := signer.Issue("chk-1", "")
	assert.ErrorIs(t, signer.Verify(guest, "chk-1", "victim"), ErrInvalidNonce)

	owned := signer.Issue("chk-1", "42")
	assert.NoError(t, signer.Verify(owned, "chk-1", "42"))
	assert.ErrorIs(t, signer.Verify(owned, "chk-1", "43"), ErrInvalidNonce)
	assert.ErrorIs(t, signer.Verify(owned, "chk-1", ""), ErrInvalidNonce)

	// field boundaries are part of the signature
	assert.ErrorIs(t, signer.Verify(signer.Issue("chk-14", "2"), "chk-1", "42"), ErrInvalidNonce)
}
