package stamp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Stamp is an event key: microseconds since the Unix epoch. Stamps order
// events by plain numeric comparison. The wire form is decimal seconds with
// six fractional digits, e.g. "1756500000.123456".
type Stamp int64

// Zero is the cursor that precedes every event.
const Zero Stamp = 0

// FromTime converts a time to its Stamp.
func FromTime(t time.Time) Stamp { return Stamp(t.UnixMicro()) }

// Time converts the Stamp back to a time.
func (s Stamp) Time() time.Time { return time.UnixMicro(int64(s)) }

// String renders the canonical wire form.
func (s Stamp) String() string {
	return fmt.Sprintf("%d.%06d", int64(s)/1e6, int64(s)%1e6)
}

// ErrBadStamp reports an input that is not a numeric unix timestamp.
var ErrBadStamp = errors.New("stamp: not a numeric unix timestamp")

// Parse accepts `\d+(\.\d+)?` seconds. Fractional digits beyond microsecond
// precision are truncated.
func Parse(in string) (Stamp, error) {
	if in == "" {
		return 0, ErrBadStamp
	}
	whole, frac, _ := strings.Cut(in, ".")
	sec, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || whole == "" {
		return 0, ErrBadStamp
	}
	var micros int64
	if frac != "" {
		for _, r := range frac {
			if r < '0' || r > '9' {
				return 0, ErrBadStamp
			}
		}
		if len(frac) > 6 {
			frac = frac[:6]
		}
		n, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, ErrBadStamp
		}
		for i := len(frac); i < 6; i++ {
			n *= 10
		}
		micros = n
	} else if strings.Contains(in, ".") {
		return 0, ErrBadStamp
	}
	return Stamp(sec*1e6 + micros), nil
}

// Generator produces strictly increasing Stamps for one process.
type Generator struct {
	mu   sync.Mutex
	last Stamp
}

// NewGenerator creates a Generator.
func NewGenerator() *Generator { return &Generator{} }

// NowMicros returns current time in microseconds since the Unix epoch.
var NowMicros = func() int64 { return time.Now().UnixMicro() }

// Next samples the clock and returns a Stamp greater than any previously
// returned by this Generator. If the clock stalls or goes backwards, the
// previous value is bumped by one microsecond.
func (g *Generator) Next() Stamp {
	g.mu.Lock()
	defer g.mu.Unlock()
	s := Stamp(NowMicros())
	if s <= g.last {
		s = g.last + 1
	}
	g.last = s
	return s
}

// Observe raises the Generator floor so future Stamps stay above an
// externally assigned key.
func (g *Generator) Observe(s Stamp) {
	g.mu.Lock()
	if s > g.last {
		g.last = s
	}
	g.mu.Unlock()
}
