// Package id generates session identifiers.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// Session returns a new session id. Ids sort by creation time, so snapshot
// rows tagged with them list in the order sessions started.
func Session() string {
	return SessionAt(time.Now())
}

// SessionAt returns a session id stamped with t.
func SessionAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(t.UTC()), mono).String()
}

// Started reports when the session with the given id began.
func Started(session string) (time.Time, error) {
	u, err := ulid.ParseStrict(session)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}
