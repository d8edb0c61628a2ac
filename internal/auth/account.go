// Package auth models the boundary the core consumes (spec.md §1, §6):
// Microsoft/Mojang OAuth and session-server login are external
// collaborators. This package only holds the opaque result of that
// process — a username, UUID, and optional access token — plus the one
// piece of session-server interaction that belongs to the connection
// state machine itself: the `join` POST performed once an
// EncryptionRequest arrives.
package auth

import (
	"crypto/md5"

	"github.com/google/uuid"
)

// Account is what internal/conn needs to complete a login: a display
// name, a profile id, and (for online-mode servers) an access token a
// caller obtained from an external OAuth flow. Mirrors azalea's
// Account enum shape (account/microsoft.rs) without reimplementing its
// device-code flow.
type Account struct {
	Name        string
	ProfileID   uuid.UUID
	AccessToken string // empty for offline-mode accounts
}

// Offline constructs an Account for a server running in offline mode,
// where the profile id is derived from the username rather than issued
// by Mojang.
func Offline(name string) Account {
	return Account{Name: name, ProfileID: offlineUUID(name)}
}

// Authenticated constructs an Account carrying a real access token for
// session-server verification.
func Authenticated(name string, profileID uuid.UUID, accessToken string) Account {
	return Account{Name: name, ProfileID: profileID, AccessToken: accessToken}
}

// offlineUUID mirrors the vanilla server's offline-player UUID:
// UUID.nameUUIDFromBytes on "OfflinePlayer:<name>" in UTF-8 — MD5 over
// exactly those bytes (no RFC 4122 namespace prefix), then the version/
// variant bits forced to version 3. github.com/google/uuid's NewMD5
// prepends a namespace UUID before hashing, which would not match
// vanilla's derivation, so this hashes directly with crypto/md5.
func offlineUUID(name string) uuid.UUID {
	sum := md5.Sum([]byte("OfflinePlayer:" + name))
	sum[6] = (sum[6] & 0x0F) | 0x30 // version 3
	sum[8] = (sum[8] & 0x3F) | 0x80 // RFC 4122 variant
	return uuid.UUID(sum)
}
