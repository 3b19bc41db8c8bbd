// Package stamp implements the microsecond timestamps that key every event.
//
// A Stamp doubles as the event's storage key and its wire identity: the SSE
// `id:` line, the `/pub/{ts}` path segment, and subscriber cursors all carry
// the same value. Ordering is numeric; two events never share a Stamp within
// a session.
//
//	g := stamp.NewGenerator()
//	s := g.Next()               // strictly increasing per process
//	s.String()                  // "1756500000.123456"
//	c, _ := stamp.Parse("1000.0")
package stamp
