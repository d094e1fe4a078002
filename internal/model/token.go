package model

import "time"

// BlacklistedToken models a row in the `token_blacklist` table. A row exists
// for every access token that was revoked by logout before its natural
// expiry. Only the token's jti is stored, never the token itself. The row
// becomes irrelevant once ExpiresAt passes because the token would have been
// rejected as expired anyway.
//
// Fields:
//  ID        – primary key identifier.
//  JTI       – unique id claim of the revoked token.
//  UserID    – user that owned the token when it was revoked.
//  ExpiresAt – the token's own exp claim.
//  CreatedAt – when the revocation was recorded.
type BlacklistedToken struct {
	ID        uint64    // token_blacklist.id
	JTI       string    // token_blacklist.jti
	UserID    uint64    // token_blacklist.user_id
	ExpiresAt time.Time // token_blacklist.expires_at
	CreatedAt time.Time // token_blacklist.created_at
}
