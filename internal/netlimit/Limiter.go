// Package netlimit caps concurrent connections per remote IP.
package netlimit

import (
	"net"
	"sync"
)

type Limiter struct {
	max       int
	ipMutex   sync.Mutex
	ipCounter map[string]int
}

func NewLimiter(maxPerIP int) *Limiter {
	return &Limiter{max: maxPerIP, ipCounter: make(map[string]int)}
}

// Acquire reserves a slot for ip. It returns false and the current count when
// the ip is already at the limit.
func (l *Limiter) Acquire(ip string) (bool, int) {
	l.ipMutex.Lock()
	defer l.ipMutex.Unlock()

	current := l.ipCounter[ip]
	if current >= l.max {
		return false, current
	}
	l.ipCounter[ip] = current + 1
	return true, current + 1
}

func (l *Limiter) Release(ip string) {
	l.ipMutex.Lock()
	defer l.ipMutex.Unlock()

	l.ipCounter[ip]--
	if l.ipCounter[ip] <= 0 {
		delete(l.ipCounter, ip)
	}
}

func (l *Limiter) Count(ip string) int {
	l.ipMutex.Lock()
	defer l.ipMutex.Unlock()
	return l.ipCounter[ip]
}

func (l *Limiter) Max() int {
	return l.max
}

// HostOf strips the port from an address, falling back to addr.String().
func HostOf(addr net.Addr) string {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.IP.String()
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
