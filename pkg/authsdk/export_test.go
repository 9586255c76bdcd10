package authsdk

import "time"

// ForceExpire is used by external tests to simulate a lapsed token.
func ForceExpire(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiresAt = time.Now().Add(-time.Second)
}
