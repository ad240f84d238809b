// Package id generates ULID identifiers for backtest run records.
package id

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy io.Reader
)

func init() {
	// Seed the monotonic entropy source from crypto/rand. ulid.Monotonic keeps
	// IDs generated within the same millisecond lexicographically increasing,
	// so a batch of grid cells recorded back to back stays in creation order.
	var seed int64
	_ = binary.Read(cryptorand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	entropy = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID string. ULIDs sort by generation time, which makes them
// natural primary keys for run journals: a plain ORDER BY on the id column
// returns runs in chronological order.
func New() string {
	mu.Lock()
	defer mu.Unlock()

	u, err := ulid.New(ulid.Timestamp(time.Now().UTC()), entropy)
	if err != nil {
		// Only possible if the clock moves past the ULID epoch range or the
		// entropy reader fails, neither of which is recoverable here.
		panic(err)
	}
	return u.String()
}
