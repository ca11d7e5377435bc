package ratelimit

import (
	"context"
	"io"
	"sync"
	"time"
)

// Limiter controls the rate of data transfer across one or more readers
// using a token bucket. A nil *Limiter disables limiting.
type Limiter struct {
	bytesPerSecond int64

	mu         sync.Mutex
	tokens     int64
	bucketSize int64
	lastUpdate time.Time
}

// NewLimiter creates a rate limiter allowing bytesPerSecond of throughput.
// A non-positive limit returns nil, meaning no limiting.
func NewLimiter(bytesPerSecond int64) *Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}

	// One second worth of burst, with a 64KB floor for smooth small reads.
	bucketSize := bytesPerSecond
	if bucketSize < 65536 {
		bucketSize = 65536
	}

	return &Limiter{
		bytesPerSecond: bytesPerSecond,
		tokens:         bucketSize,
		bucketSize:     bucketSize,
		lastUpdate:     time.Now(),
	}
}

// take blocks until n tokens are available, then consumes them
func (l *Limiter) take(n int64) {
	for {
		l.mu.Lock()
		l.refill()

		if l.tokens >= n {
			l.tokens -= n
			l.mu.Unlock()
			return
		}

		deficit := n - l.tokens
		wait := time.Duration(float64(deficit) / float64(l.bytesPerSecond) * float64(time.Second))
		l.mu.Unlock()

		if wait < time.Millisecond {
			wait = time.Millisecond
		}
		time.Sleep(wait)
	}
}

// refill adds tokens based on elapsed time (must be called with lock held)
func (l *Limiter) refill() {
	now := time.Now()
	elapsed := now.Sub(l.lastUpdate)

	add := int64(float64(elapsed) / float64(time.Second) * float64(l.bytesPerSecond))
	if add > 0 {
		l.tokens += add
		if l.tokens > l.bucketSize {
			l.tokens = l.bucketSize
		}
		l.lastUpdate = now
	}
}

// Reader wraps an io.Reader with bandwidth limiting
type Reader struct {
	reader  io.Reader
	limiter *Limiter
	ctx     context.Context
}

// NewReader wraps reader so that reads consume tokens from limiter.
// With a nil limiter the reader is returned unwrapped.
func NewReader(ctx context.Context, reader io.Reader, limiter *Limiter) io.Reader {
	if limiter == nil {
		return reader
	}
	return &Reader{
		reader:  reader,
		limiter: limiter,
		ctx:     ctx,
	}
}

// Read implements io.Reader, blocking until the token bucket permits the read
func (r *Reader) Read(p []byte) (int, error) {
	select {
	case <-r.ctx.Done():
		return 0, r.ctx.Err()
	default:
	}

	toRead := int64(len(p))
	if toRead > r.limiter.bucketSize {
		toRead = r.limiter.bucketSize
	}

	r.limiter.take(toRead)

	n, err := r.reader.Read(p[:toRead])
	if int64(n) < toRead {
		// Return unused tokens so short reads are not over-charged.
		r.limiter.mu.Lock()
		r.limiter.tokens += toRead - int64(n)
		if r.limiter.tokens > r.limiter.bucketSize {
			r.limiter.tokens = r.limiter.bucketSize
		}
		r.limiter.mu.Unlock()
	}

	return n, err
}
