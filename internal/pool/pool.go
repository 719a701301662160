package pool

import (
	"sync"
	"time"

	"github.com/fystack/megasena-analyzer/pkg/common/logger"
)

const DefaultCooldown = 30 * time.Second

// Pool hands out API mirrors round-robin, skipping mirrors that failed within
// the cooldown window.
type Pool struct {
	mirrors    []string
	currentIdx int
	failed     map[string]time.Time
	cooldown   time.Duration
	now        func() time.Time
	mutex      sync.Mutex
}

func New(mirrors []string, cooldown time.Duration) *Pool {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Pool{
		mirrors:  mirrors,
		failed:   make(map[string]time.Time),
		cooldown: cooldown,
		now:      time.Now,
	}
}

func (p *Pool) GetNext() string {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if len(p.mirrors) == 0 {
		return ""
	}

	for range p.mirrors {
		mirror := p.mirrors[p.currentIdx]
		p.currentIdx = (p.currentIdx + 1) % len(p.mirrors)

		if failedAt, ok := p.failed[mirror]; !ok || p.now().Sub(failedAt) > p.cooldown {
			return mirror
		}
	}

	// every mirror is cooling down: forget the failures and start over
	p.failed = make(map[string]time.Time)
	p.currentIdx = 1 % len(p.mirrors)
	return p.mirrors[0]
}

func (p *Pool) MarkFailed(mirror string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.failed[mirror] = p.now()
	logger.Debug("Mirror marked as failed", "mirror", mirror)
}

func (p *Pool) MarkHealthy(mirror string) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if _, ok := p.failed[mirror]; ok {
		delete(p.failed, mirror)
		logger.Debug("Mirror marked as healthy", "mirror", mirror)
	}
}

func (p *Pool) Len() int {
	return len(p.mirrors)
}

func (p *Pool) GetStats() (total, healthy, failed int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	total = len(p.mirrors)
	for _, at := range p.failed {
		if p.now().Sub(at) <= p.cooldown {
			failed++
		}
	}
	healthy = total - failed
	return
}
