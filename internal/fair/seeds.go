package fair

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

type SeedManager struct {
	mu         sync.Mutex
	serverSeed string
	hash       string
	rotatedAt  time.Time
}

func NewSeedManager() *SeedManager {
	seed := generateSeed()
	hash := sha256.Sum256([]byte(seed))

	return &SeedManager{
		serverSeed: seed,
		hash:       hex.EncodeToString(hash[:]),
		rotatedAt:  time.Now(),
	}
}

// Current returns the seed and its published hash as a consistent pair.
func (s *SeedManager) Current() (seed, hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serverSeed, s.hash
}

func (s *SeedManager) MaybeRotate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if time.Since(s.rotatedAt).Hours() > 24 {
		seed := generateSeed()
		hash := sha256.Sum256([]byte(seed))

		s.serverSeed = seed
		s.hash = hex.EncodeToString(hash[:])
		s.rotatedAt = time.Now()
	}
}

func generateSeed() string {
	buf := make([]byte, 32)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
