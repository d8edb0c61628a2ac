package auth

import (
	"bytes"
	"context"
	"crypto/sha1"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
)

// SessionServerURL is the Mojang endpoint the client POSTs to once an
// EncryptionRequest arrives and the account carries a real access
// token (spec.md §6).
const SessionServerURL = "https://sessionserver.mojang.com/session/minecraft/join"

// RefreshFunc exchanges a stale access token for a fresh one. The core
// treats token refresh as belonging to the external auth module; a
// caller that wants the retry-after-403 behavior in spec.md §4.4 passes
// one in.
type RefreshFunc func(ctx context.Context, acc Account) (Account, error)

type joinRequest struct {
	AccessToken     string `json:"accessToken"`
	SelectedProfile string `json:"selectedProfile"`
	ServerID        string `json:"serverId"`
}

// ServerIDHash computes Minecraft's signed-magnitude hex digest of
// SHA-1(serverID ++ sharedSecret ++ publicKeyDER), per spec.md §6: a
// leading '-' for a negative big-endian interpretation of the digest,
// then the magnitude in lowercase hex with leading zeros dropped.
func ServerIDHash(serverID string, sharedSecret []byte, publicKeyDER []byte) string {
	h := sha1.New()
	h.Write([]byte(serverID))
	h.Write(sharedSecret)
	h.Write(publicKeyDER)
	digest := h.Sum(nil)

	n := new(big.Int).SetBytes(digest)
	// Interpret the 20-byte digest as two's-complement signed: if the
	// top bit is set, the value is negative.
	if digest[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), 160))
	}
	if n.Sign() < 0 {
		return "-" + new(big.Int).Neg(n).Text(16)
	}
	return n.Text(16)
}

// Join performs the sessionserver `join` call, retrying once after a
// token refresh on a 403 response, per spec.md §4.4. httpClient may be
// nil to use http.DefaultClient.
func Join(ctx context.Context, httpClient *http.Client, acc Account, serverID string, sharedSecret []byte, serverPubKey *x509.Certificate, refresh RefreshFunc) error {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if acc.AccessToken == "" {
		// Offline accounts never reach here: spec.md §4.4 only performs
		// the join call "if an access token is present".
		return nil
	}

	attempt := func(token string) (int, error) {
		body, err := json.Marshal(joinRequest{
			AccessToken:     token,
			SelectedProfile: acc.ProfileID.String(),
			ServerID:        serverID,
		})
		if err != nil {
			return 0, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, SessionServerURL, bytes.NewReader(body))
		if err != nil {
			return 0, err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := httpClient.Do(req)
		if err != nil {
			return 0, err
		}
		defer resp.Body.Close()
		return resp.StatusCode, nil
	}

	status, err := attempt(acc.AccessToken)
	if err != nil {
		return err
	}
	if status == http.StatusNoContent {
		return nil
	}
	if status == http.StatusForbidden && refresh != nil {
		refreshed, err := refresh(ctx, acc)
		if err != nil {
			return fmt.Errorf("auth: refresh after 403: %w", err)
		}
		status, err = attempt(refreshed.AccessToken)
		if err != nil {
			return err
		}
		if status == http.StatusNoContent {
			return nil
		}
	}
	return &SessionServerError{Status: status}
}

// SessionServerError is returned when the join call fails even after
// the one allowed refresh-and-retry.
type SessionServerError struct{ Status int }

func (e *SessionServerError) Error() string {
	return fmt.Sprintf("auth: sessionserver join failed with status %d", e.Status)
}
