package apikey

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// KeyPrefix marks every key issued by this platform. The full key is shown
// once at creation; only its hash and display prefix are stored.
const KeyPrefix = "gov_"

type APIKey struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string     `json:"name"`
	KeyHash    string     `json:"-" gorm:"uniqueIndex"`
	Prefix     string     `json:"prefix"`
	AgentID    uuid.UUID  `json:"agent_id" gorm:"type:uuid;index"`
	Active     bool       `json:"active"`
	ExpiresAt  *time.Time `json:"expires_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (a APIKey) TableName() string {
	return "public.api_keys"
}

func (a APIKey) IsValid() bool {
	if !a.Active {
		return false
	}
	if a.ExpiresAt != nil {
		if time.Now().After(*a.ExpiresAt) {
			return false
		}
	}
	return true
}

// GenerateKey returns a fresh plaintext key and its display prefix. The
// plaintext leaves the process only in the creation response.
func GenerateKey() (plaintext, prefix string, err error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	plaintext = KeyPrefix + hex.EncodeToString(raw)
	return plaintext, plaintext[:12], nil
}

// HashKey is the storage form of a plaintext key.
func HashKey(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
