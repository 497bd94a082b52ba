package session

import (
	"encoding/json"
	"log/slog"
	"os"
	"time"
)

// a cached session survives this long before a fresh QR login is
// forced, trading a worst-case daily re-login against never having to
// scan on every run
const CredentialLifetime = 24 * time.Hour

const DefaultCachePath = "bjxgj_session.json"

// Credentials is the single persisted session record. Deleting the
// backing file is the only way to log out.
type Credentials struct {
	Token   string `json:"token"`
	Imprint string `json:"secondaryToken"`
	// unix milliseconds
	IssuedAt int64 `json:"issuedAt"`
}

// Valid reports whether the record can still be trusted at `now`.
// The boundary is exclusive: a record exactly CredentialLifetime old is
// already stale. Records from the future are rejected too, a clock that
// moved backwards should not extend a session.
func Valid(cred Credentials, now time.Time) bool {
	if cred.Token == "" {
		return false
	}
	age := now.UnixMilli() - cred.IssuedAt
	return age >= 0 && age < CredentialLifetime.Milliseconds()
}

// Cache persists one Credentials record as a JSON file.
type Cache struct {
	path string
}

func NewCache(path string) Cache {
	if path == "" {
		path = DefaultCachePath
	}
	return Cache{path: path}
}

// Load returns the cached record, or ok=false when there is none.
// A corrupt file is treated the same as an absent one, it only costs
// the operator a re-login.
func (c Cache) Load() (Credentials, bool) {
	contents, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read session cache", "path", c.path, "err", err)
		}
		return Credentials{}, false
	}

	var cred Credentials
	err = json.Unmarshal(contents, &cred)
	if err != nil {
		slog.Warn("session cache is corrupt, ignoring it", "path", c.path, "err", err)
		return Credentials{}, false
	}
	return cred, true
}

// Save overwrites the cached record. Failure is non-fatal for the
// caller, the session just will not survive the next run.
func (c Cache) Save(cred Credentials) error {
	contents, err := json.Marshal(cred)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, contents, 0o600)
}
