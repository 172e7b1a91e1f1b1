// pattern: Imperative Shell

package process

import (
	"errors"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"dia/internal/logging"
)

// Guard ties a spawned child to the lifetime of the tool. While held, an
// interrupt or terminate signal sent to the tool terminates the child, and
// a second one kills it. Release kills a child that is still running, so
// every exit path cleans up. A grouped child leads its own process group
// and every signal goes to the whole group.
type Guard struct {
	proc    *os.Process
	group   bool
	logger  *logging.ScopedLogger
	signals chan os.Signal

	notify func(chan<- os.Signal, ...os.Signal)
	stop   func(chan<- os.Signal)

	exited   atomic.Bool
	done     chan struct{}
	finished chan struct{}
	once     sync.Once
}

// Acquire starts relaying SIGINT and SIGTERM to proc. group must only be
// set when proc was started with Setpgid.
func Acquire(proc *os.Process, group bool, logger *logging.ScopedLogger) *Guard {
	g := newGuard(proc, group, logger, signal.Notify, signal.Stop)
	g.start()
	return g
}

func newGuard(proc *os.Process, group bool, logger *logging.ScopedLogger, notify func(chan<- os.Signal, ...os.Signal), stop func(chan<- os.Signal)) *Guard {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Guard{
		proc:     proc,
		group:    group,
		logger:   logger,
		signals:  make(chan os.Signal, 2),
		notify:   notify,
		stop:     stop,
		done:     make(chan struct{}),
		finished: make(chan struct{}),
	}
}

func (g *Guard) start() {
	g.notify(g.signals, syscall.SIGINT, syscall.SIGTERM)
	go g.relay()
}

func (g *Guard) relay() {
	defer close(g.finished)

	relayed := 0
	for {
		select {
		case sig := <-g.signals:
			relayed++
			if relayed == 1 {
				g.logger.Info("terminating child", "signal", sig.String(), "pid", g.proc.Pid, "group", g.group)
				g.send(syscall.SIGTERM)
				continue
			}
			g.logger.Warn("killing child", "signal", sig.String(), "pid", g.proc.Pid, "group", g.group)
			g.send(syscall.SIGKILL)
		case <-g.done:
			return
		}
	}
}

// Exited records that the child has been waited for.
func (g *Guard) Exited() {
	g.exited.Store(true)
}

// Release stops signal relay and kills the child unless it has exited.
// Safe to call more than once.
func (g *Guard) Release() {
	g.once.Do(func() {
		g.stop(g.signals)
		close(g.done)
		<-g.finished
		if !g.exited.Load() {
			g.logger.Debug("killing child on release", "pid", g.proc.Pid, "group", g.group)
			g.send(syscall.SIGKILL)
		}
	})
}

// send delivers sig to the child's process group, or to the child alone
// when it has no group of its own or the group is already gone.
func (g *Guard) send(sig syscall.Signal) {
	if g.group {
		if err := syscall.Kill(-g.proc.Pid, sig); err == nil {
			return
		}
	}
	_ = g.proc.Signal(sig)
}

// ExitCode maps the result of waiting on a child to the tool's exit code.
// Death by signal maps to 128 plus the signal number, as shells do.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return 1
	}
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal())
	}
	return exitErr.ExitCode()
}
