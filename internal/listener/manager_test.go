package listener

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/pixil98/go-testutil"
)

type blockingRunner struct {
	started chan struct{}
	release chan struct{}
	err     error

	mu   sync.Mutex
	runs int
}

func (r *blockingRunner) RunSession(_ context.Context, _ io.ReadWriter) error {
	r.mu.Lock()
	r.runs++
	r.mu.Unlock()

	r.started <- struct{}{}
	<-r.release
	return r.err
}

func TestConnectionManager_Limit(t *testing.T) {
	runner := &blockingRunner{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
		err:     errors.New("boom"),
	}
	cm := NewConnectionManager(runner, 1)

	done := make(chan struct{})
	go func() {
		cm.AcceptConnection(context.Background(), &bufferConn{in: &bytes.Buffer{}})
		close(done)
	}()
	<-runner.started
	testutil.AssertEqual(t, "active", cm.Active(), 1)

	rejected := &bufferConn{in: &bytes.Buffer{}}
	cm.AcceptConnection(context.Background(), rejected)
	testutil.AssertEqual(t, "rejected output", rejected.out.String(), serverFullMessage)

	close(runner.release)
	<-done
	testutil.AssertEqual(t, "active", cm.Active(), 0)

	runner.mu.Lock()
	defer runner.mu.Unlock()
	testutil.AssertEqual(t, "runs", runner.runs, 1)
}
