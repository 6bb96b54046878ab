// Package assetid mints the time-ordered identifiers under which image files
// are stored, and maps them to their sharded storage paths.
package assetid

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	// Length is the size of the canonical text form.
	Length = ulid.EncodedSize

	firstSplit  = 3
	secondSplit = 5
	extension   = ".webp"
)

// ID is the canonical 26 character Crockford base32 form of a ULID.
type ID string

func (id ID) String() string { return string(id) }

// ShardPath returns the relative storage path of the asset.
func (id ID) ShardPath() string { return ShardPath(string(id)) }

// Time returns the millisecond timestamp encoded in the id.
func (id ID) Time() (time.Time, error) {
	u, err := ulid.ParseStrict(string(id))
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}

// ShardPath splits id into id[0:3]/id[3:5]/id[5:] and appends the extension.
// Example: 01JG0M004KYHATX7J2W7MB28X4 -> 01J/G0/M004KYHATX7J2W7MB28X4.webp.
func ShardPath(id string) string {
	if len(id) < secondSplit {
		return id + extension
	}
	var b strings.Builder
	b.Grow(len(id) + 2 + len(extension))
	b.WriteString(id[:firstSplit])
	b.WriteByte('/')
	b.WriteString(id[firstSplit:secondSplit])
	b.WriteByte('/')
	b.WriteString(id[secondSplit:])
	b.WriteString(extension)
	return b.String()
}

// FromShardPath reverses ShardPath. It fails for anything ShardPath could not
// have produced from a canonical id.
func FromShardPath(p string) (ID, error) {
	rest, ok := strings.CutSuffix(p, extension)
	if !ok {
		return "", fmt.Errorf("assetid: %q: missing %s extension", p, extension)
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || len(parts[0]) != firstSplit || len(parts[1]) != secondSplit-firstSplit {
		return "", fmt.Errorf("assetid: %q: not a shard path", p)
	}
	raw := parts[0] + parts[1] + parts[2]
	u, err := ulid.ParseStrict(raw)
	if err != nil {
		return "", fmt.Errorf("assetid: %q: %w", p, err)
	}
	if u.String() != raw {
		return "", fmt.Errorf("assetid: %q: not canonical", p)
	}
	return ID(raw), nil
}

// ValidShardPath reports whether p is exactly the shard path of some id.
func ValidShardPath(p string) bool {
	_, err := FromShardPath(p)
	return err == nil
}

// Generator produces ids that are strictly increasing within a millisecond.
// It is safe for concurrent use.
type Generator struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy *ulid.MonotonicEntropy
}

// NewGenerator returns a generator reading from entropy and clock. Nil
// arguments select crypto/rand and time.Now.
func NewGenerator(entropy io.Reader, clock func() time.Time) *Generator {
	if entropy == nil {
		entropy = rand.Reader
	}
	if clock == nil {
		clock = time.Now
	}
	return &Generator{
		now:     clock,
		entropy: ulid.Monotonic(entropy, 0),
	}
}

// Next mints a new id.
func (g *Generator) Next() (ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	u, err := ulid.New(ulid.Timestamp(g.now()), g.entropy)
	if err != nil {
		return "", fmt.Errorf("assetid: %w", err)
	}
	return ID(u.String()), nil
}

var std = NewGenerator(nil, nil)

// New mints an id from the process-wide generator. It panics only if the
// system entropy source fails.
func New() ID {
	id, err := std.Next()
	if err != nil {
		panic(err)
	}
	return id
}
