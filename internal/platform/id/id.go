package id

import (
	"crypto/rand"
	"encoding/hex"
)

// KeyLen is the byte length of generated listener keys.
const KeyLen = 16

// Generator creates opaque secrets such as the listener auth key.
type Generator interface {
	New() string
}

type RandomHex struct{}

func (RandomHex) New() string {
	buf := make([]byte, KeyLen)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
