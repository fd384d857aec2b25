package apiclient

import (
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

const tokenKey = "session"

// DiskTokenStore keeps the session token in a private file under dir.
type DiskTokenStore struct {
	d *diskv.Diskv
}

var _ TokenStore = (*DiskTokenStore)(nil)

// NewDiskTokenStore creates a token store rooted at dir.
func NewDiskTokenStore(dir string) *DiskTokenStore {
	return &DiskTokenStore{d: diskv.New(diskv.Options{
		BasePath:     dir,
		CacheSizeMax: 4 * 1024,
		PathPerm:     0o700,
		FilePerm:     0o600,
	})}
}

// Load returns the stored token, or "" when there is none.
func (s *DiskTokenStore) Load() (string, error) {
	if !s.d.Has(tokenKey) {
		return "", nil
	}
	b, err := s.d.Read(tokenKey)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// Save replaces the stored token.
func (s *DiskTokenStore) Save(token string) error {
	return s.d.Write(tokenKey, []byte(token))
}

// Clear removes the stored token if present.
func (s *DiskTokenStore) Clear() error {
	if !s.d.Has(tokenKey) {
		return nil
	}
	return s.d.Erase(tokenKey)
}
