package tokenstore

import "sync"

// MemStore keeps the credential pair in memory. Used in tests and for
// sessions that should not outlive the process.
type MemStore struct {
	creds Credentials
	set   bool
	lock  sync.RWMutex
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Set(creds Credentials) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.creds = creds
	s.set = true
	return nil
}

func (s *MemStore) Get() (Credentials, bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.set || s.creds.AccessToken == "" || s.creds.RefreshToken == "" {
		if s.set {
			s.creds = Credentials{}
			s.set = false
		}
		return Credentials{}, false, nil
	}
	return s.creds, true, nil
}

func (s *MemStore) Clear() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.creds = Credentials{}
	s.set = false
	return nil
}
