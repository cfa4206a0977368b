package task

import (
	"math/rand"
)

// ID identifies a task. It renders as 7 lowercase base-36 characters and
// is only ever used as an opaque key; nothing reads meaning back out of
// the text.
type ID string

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const idLen = 7

// idSpace is 36^7, the number of representable ids.
const idSpace int64 = 78364164096

// RandomID draws an id uniformly over the full id space.
// Callers are responsible for re-drawing on collision.
func RandomID(r *rand.Rand) ID {
	n := r.Int63n(idSpace)
	b := make([]byte, idLen)
	for i := idLen - 1; i >= 0; i-- {
		b[i] = idAlphabet[n%36]
		n /= 36
	}
	return ID(b)
}

// Valid reports whether id is exactly 7 characters of [0-9a-z].
func (id ID) Valid() bool {
	if len(id) != idLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'z') {
			return false
		}
	}
	return true
}
