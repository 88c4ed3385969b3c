package domain

import "time"

// TokenPair is a freshly minted access token and its companion refresh
// token. Both belong to the same session.
type TokenPair struct {
	SessionID string

	AccessToken     string
	AccessIssuedAt  time.Time
	AccessExpiresAt time.Time

	RefreshToken     string
	RefreshIssuedAt  time.Time
	RefreshExpiresAt time.Time
}

// Requester describes the client that asked for a token pair.
type Requester struct {
	UserAgent string
	IPAddress string
}

// LedgerEntry records one issued pair. Tokens are stored as fingerprints.
// An entry stops being active once it is superseded by a later entry of the
// same session, or once its refresh token expires.
type LedgerEntry struct {
	ID        string
	SessionID string
	UserID    string

	AccessTokenHash  string
	RefreshTokenHash string

	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time

	Requester    Requester
	SupersededBy string // empty while active
	CreatedAt    time.Time
}

func (e LedgerEntry) Active(now time.Time) bool {
	return e.SupersededBy == "" && now.Before(e.RefreshTokenExpiresAt)
}
