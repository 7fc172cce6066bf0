package utils

import (
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// GenerateID создает уникальный ID персонажа или сессии.
func GenerateID() string {
	return uuid.NewString()
}

// StringToSeed превращает строку (например, ID пользователя) в детерминированный сид.
func StringToSeed(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}

// NewRng создает генератор. Нулевой сид означает "взять от текущего времени".
func NewRng(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
