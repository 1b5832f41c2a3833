package sessions

import "fmt"

// Session is the host's per-request key/value store. The gin-contrib
// sessions.Session returned by sessions.Default(c) satisfies it. The token
// store only reads and rewrites the single entry under its key, saving the
// session stays with the host.
type Session interface {
	Get(key any) any
	Set(key any, val any)
}

// MapSession is an in-memory Session for tests and hosts without a cookie
// store.
type MapSession map[string]any

var _ Session = MapSession{}

func (m MapSession) Get(key any) any {
	return m[sessionKey(key)]
}

func (m MapSession) Set(key any, val any) {
	m[sessionKey(key)] = val
}

func sessionKey(key any) string {
	if s, ok := key.(string); ok {
		return s
	}
	return fmt.Sprint(key)
}
