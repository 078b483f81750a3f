// Package digest implements the blocking-IO end-to-end scenario: an actor
// that reads a file in bounded chunks, reposting a continuation message to
// itself between chunks rather than blocking the whole handler on the
// entire file, with a signal-driven early-shutdown escape hatch.
package digest

import (
	"crypto/sha512"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/cuemby/hive/pkg/actor"
	"github.com/cuemby/hive/pkg/actor/plugin"
	"github.com/cuemby/hive/pkg/message"
	"github.com/cuemby/hive/pkg/rerror"
	"github.com/cuemby/hive/pkg/subscription"
	"github.com/cuemby/hive/pkg/supervisor"
)

// ChunkSize is the bounded read size per continuation (spec: 1 MiB).
const ChunkSize = 1 << 20

// chunkContinue is the self-addressed continuation message posted between
// chunks, tagged message.IOTag to mark its handler as potentially blocking.
type chunkContinue struct{}

// Digester reads Path in ChunkSize increments, feeding each into a running
// SHA-512, and shuts its supervisor down once the digest is complete or
// *Stop is observed to be non-zero between chunks.
type Digester struct {
	actor.Base
	pipeline *plugin.Pipeline

	sup  *supervisor.Supervisor
	path string
	stop *int32

	file *os.File
	h    sumWriter

	bytesRead int64

	// Result is set once the scenario ends: either the hex digest or a
	// message describing why it stopped early.
	Result string
	Err    error
}

type sumWriter = interface {
	io.Writer
	Sum(b []byte) []byte
	Reset()
}

// NewDigester returns a factory constructing an actor that digests path,
// checking *stop between chunks for a signal-driven early shutdown
// request.
func NewDigester(path string, stop *int32) func(sup *supervisor.Supervisor) *actor.Base {
	return func(sup *supervisor.Supervisor) *actor.Base {
		d := &Digester{sup: sup, path: path, stop: stop, h: sha512.New()}
		d.pipeline = plugin.NewPipeline()
		d.Base = *actor.NewBase("digester", sup, actor.Config{}, d.pipeline.Plugins()...)
		d.SetOnActivated(d.onActivated)
		d.SetOnStart(d.start)
		return &d.Base
	}
}

func (d *Digester) onActivated() {
	h := message.Tag(
		message.NewHandler[chunkContinue](d.Address(), message.KindActor, d.onChunk),
		message.IOTag,
	)
	d.pipeline.Lifetime.Subscribe(d.Address(), h, subscription.Plugin)
}

func (d *Digester) start() {
	f, err := os.Open(d.path)
	if err != nil {
		d.Err = err
		d.Result = fmt.Sprintf("open failed: %v", err)
		d.sup.BeginShutdown(rerror.New(d.Result, rerror.ActorMisconfigured, nil, nil), nil)
		return
	}
	d.file = f
	actor.Send(&d.Base, d.Address(), chunkContinue{})
}

func (d *Digester) onChunk(*chunkContinue) {
	if atomic.LoadInt32(d.stop) != 0 {
		d.finish("digest interrupted by signal before completion")
		return
	}

	buf := make([]byte, ChunkSize)
	n, err := d.file.Read(buf)
	if n > 0 {
		d.h.Write(buf[:n])
		d.bytesRead += int64(n)
	}
	if err == io.EOF {
		d.finish(fmt.Sprintf("%x", d.h.Sum(nil)))
		return
	}
	if err != nil {
		d.Err = err
		d.finish(fmt.Sprintf("read failed: %v", err))
		return
	}

	actor.Send(&d.Base, d.Address(), chunkContinue{})
}

func (d *Digester) finish(result string) {
	d.Result = result
	if d.file != nil {
		d.file.Close()
	}
	d.sup.BeginShutdown(rerror.New(result, rerror.NormalShutdown, nil, nil), nil)
}

// BytesRead reports the number of bytes consumed so far.
func (d *Digester) BytesRead() int64 { return d.bytesRead }
