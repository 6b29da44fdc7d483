package logger

import (
	"fmt"
	"os"
	"os/user"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// batchSize is the maximum number of queued requests drained per worker pass.
	batchSize = 100
	// wakeInterval bounds the worker's wait so a missed signal cannot starve the queue.
	wakeInterval = 500 * time.Millisecond
)

// Config holds the construction parameters for a Logger.
type Config struct {
	Path      string   // target log file
	MinLevel  string   // least severe level still recorded (e.g. "Information")
	Encoding  Encoding // Standard or CMTrace
	MaxSizeMB int      // rotation threshold; <=0 disables rotation
	Async     bool     // enable the non-blocking write path
}

// request captures one write call at the moment it was made.
type request struct {
	timestamp time.Time
	module    string
	message   string
	level     string
	threadID  int
	context   string
}

// Logger durably persists log records from concurrent callers. Sync writes
// and worker batch flushes share one per-instance mutex, so lines never
// interleave regardless of path. The Logger exclusively owns the backing
// file and its queue.
type Logger struct {
	cfg      Config
	minRank  int
	identity string // ambient "user@host", captured once at construction

	fileMu sync.Mutex // guards rotation check + append on the backing file

	queueMu sync.Mutex
	queue   []request

	wake chan struct{} // 1-buffered wake signal for the worker
	stop chan struct{}
	done chan struct{}

	stateMu   sync.Mutex
	stopping  bool
	submitted int64
	written   int64
}

// Statistics is a point-in-time snapshot of engine counters.
type Statistics struct {
	Submitted  int64 `json:"submitted"`
	Written    int64 `json:"written"`
	QueueDepth int   `json:"queueDepth"`
	Async      bool  `json:"async"`
}

// New creates a Logger writing to cfg.Path. If cfg.Async is set, a single
// background worker is started to drain the queue in batches.
func New(cfg Config) *Logger {
	if cfg.MinLevel == "" {
		cfg.MinLevel = LevelInformation
	}
	l := &Logger{
		cfg:      cfg,
		minRank:  severityRank(cfg.MinLevel),
		identity: ambientIdentity(),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	if cfg.Async {
		go l.run()
	} else {
		close(l.done)
	}
	return l
}

// WriteSync appends one formatted line to the backing file, blocking the
// caller for the duration of the append. Records more verbose than the
// configured minimum are dropped. I/O failures are never surfaced.
func (l *Logger) WriteSync(module, message, level string) {
	if !l.accepts(level) {
		return
	}
	req := l.capture(module, message, level)
	l.countSubmitted(1)
	l.appendBatch([]request{req})
}

// WriteAsync queues the record for the background worker and returns
// immediately. If the async path is disabled or the engine is shutting
// down, it falls back to the synchronous path. FIFO order is preserved
// among all requests submitted through this method.
func (l *Logger) WriteAsync(module, message, level string) {
	if !l.accepts(level) {
		return
	}
	req := l.capture(module, message, level)
	l.countSubmitted(1)

	l.stateMu.Lock()
	asyncOK := l.cfg.Async && !l.stopping
	l.stateMu.Unlock()
	if !asyncOK {
		l.appendBatch([]request{req})
		return
	}

	l.queueMu.Lock()
	l.queue = append(l.queue, req)
	l.queueMu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default: // a wake is already pending
	}
}

// WriteSeparator writes an 80-character rule line at Information severity
// through the synchronous path.
func (l *Logger) WriteSeparator() {
	l.WriteSync("", strings.Repeat("-", 80), LevelInformation)
}

// Shutdown signals the worker to drain and stop, waiting up to timeout for
// it to exit. Anything still queued afterwards is flushed synchronously by
// the calling goroutine, so no accepted request is silently lost. A non-nil
// error reports a degraded shutdown (worker missed the deadline); the
// residue has still been flushed when it returns.
func (l *Logger) Shutdown(timeout time.Duration) error {
	l.stateMu.Lock()
	alreadyStopping := l.stopping
	l.stopping = true
	l.stateMu.Unlock()
	if !alreadyStopping {
		close(l.stop)
	}

	var degraded bool
	select {
	case <-l.done:
	case <-time.After(timeout):
		degraded = true
	}

	// Flush any residue one request at a time on the calling goroutine.
	for {
		batch := l.dequeue(1)
		if len(batch) == 0 {
			break
		}
		l.appendBatch(batch)
	}

	if degraded {
		return fmt.Errorf("logger: worker did not drain within %s; remaining queue flushed by caller", timeout)
	}
	return nil
}

// Stats returns a snapshot of the engine counters. Safe to call concurrently.
func (l *Logger) Stats() Statistics {
	l.queueMu.Lock()
	depth := len(l.queue)
	l.queueMu.Unlock()

	l.stateMu.Lock()
	defer l.stateMu.Unlock()
	return Statistics{
		Submitted:  l.submitted,
		Written:    l.written,
		QueueDepth: depth,
		Async:      l.cfg.Async && !l.stopping,
	}
}

// run is the background worker: wait for a wake (bounded), drain up to
// batchSize requests, flush them as one append. After stop is signalled it
// performs a final drain-and-write pass before exiting.
func (l *Logger) run() {
	defer close(l.done)

	for {
		stopped := false
		select {
		case <-l.stop:
			stopped = true
		case <-l.wake:
		case <-time.After(wakeInterval):
		}

		if batch := l.dequeue(batchSize); len(batch) > 0 {
			l.appendBatch(batch)
		}

		if stopped {
			for {
				batch := l.dequeue(batchSize)
				if len(batch) == 0 {
					return
				}
				l.appendBatch(batch)
			}
		}
	}
}

// dequeue removes and returns up to n requests from the head of the queue.
func (l *Logger) dequeue(n int) []request {
	l.queueMu.Lock()
	defer l.queueMu.Unlock()
	if len(l.queue) == 0 {
		return nil
	}
	if n > len(l.queue) {
		n = len(l.queue)
	}
	batch := make([]request, n)
	copy(batch, l.queue[:n])
	l.queue = l.queue[n:]
	return batch
}

// appendBatch formats the batch into one buffer and performs a single append
// under the file lock, rotating first if the file has grown past the limit.
// Failures degrade to the process streams instead of propagating.
func (l *Logger) appendBatch(batch []request) {
	var b strings.Builder
	for _, req := range batch {
		b.WriteString(formatLine(l.cfg.Encoding, req))
		b.WriteByte('\n')
	}
	content := b.String()

	l.fileMu.Lock()
	defer l.fileMu.Unlock()

	l.rotateIfNeeded()

	if err := appendFile(l.cfg.Path, content); err != nil {
		fmt.Fprintf(os.Stderr, "logger: write to %s failed: %v\n", l.cfg.Path, err)
		fmt.Fprint(os.Stdout, content)
		return
	}
	l.countWritten(int64(len(batch)))
}

// rotateIfNeeded renames the backing file with a timestamp suffix once it
// exceeds the configured size; the next append implicitly starts a fresh
// file. Called with fileMu held.
func (l *Logger) rotateIfNeeded() {
	if l.cfg.MaxSizeMB <= 0 {
		return
	}
	info, err := os.Stat(l.cfg.Path)
	if err != nil || info.Size() <= int64(l.cfg.MaxSizeMB)*1024*1024 {
		return
	}
	rotated := rotatedName(l.cfg.Path, time.Now())
	if err := os.Rename(l.cfg.Path, rotated); err != nil {
		fmt.Fprintf(os.Stderr, "logger: rotation of %s failed: %v\n", l.cfg.Path, err)
	}
}

// rotatedName builds "{basename}_{yyyyMMdd_HHmmss}.log" next to the original.
func rotatedName(path string, now time.Time) string {
	base := strings.TrimSuffix(path, ".log")
	return fmt.Sprintf("%s_%s.log", base, now.Format("20060102_150405"))
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	_, werr := f.WriteString(content)
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

func (l *Logger) accepts(level string) bool {
	return severityRank(level) <= l.minRank
}

func (l *Logger) capture(module, message, level string) request {
	return request{
		timestamp: time.Now(),
		module:    module,
		message:   message,
		level:     level,
		threadID:  goroutineID(),
		context:   l.identity,
	}
}

func (l *Logger) countSubmitted(n int64) {
	l.stateMu.Lock()
	l.submitted += n
	l.stateMu.Unlock()
}

func (l *Logger) countWritten(n int64) {
	l.stateMu.Lock()
	l.written += n
	l.stateMu.Unlock()
}

// ambientIdentity returns "user@host", best effort.
func ambientIdentity() string {
	name := "unknown"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	return name + "@" + host
}

// goroutineID parses the numeric id from the runtime stack header
// ("goroutine 123 [running]:").
func goroutineID() int {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := strings.Fields(string(buf[:n]))
	if len(fields) >= 2 {
		if id, err := strconv.Atoi(fields[1]); err == nil {
			return id
		}
	}
	return 0
}
