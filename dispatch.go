// dispatch.go: the host-facing surface tying the pieces together.
//
// Two entry points mirror the host's ops: OpenLibrary and CallSymbol. Each
// first runs the unstable-feature gate (process-fatal by design: the guarded
// surface is pre-release and unsafe-by-default), then the permission check,
// and only then touches the loader.
package dlbridge

import (
	"fmt"
	"os"

	"fortio.org/safecast"
	"go.uber.org/zap"
)

// exitFn is indirected so tests can observe the gate without dying.
var exitFn = os.Exit

// Dispatcher owns the handle table and performs the capability and feature
// checks in front of every operation. Concurrent calls against different
// handles are independent; a close racing an in-flight call on the same
// handle is a documented caller obligation, not enforced here.
type Dispatcher struct {
	unstable bool
	perms    Permissions
	table    *Table
	log      *zap.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger installs a structured logger. Default is zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

// NewDispatcher builds a dispatch surface. unstable must be true for any
// operation to proceed; perms decides whether the caller may touch the
// loader at all (nil denies everything).
func NewDispatcher(unstable bool, perms Permissions, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		unstable: unstable,
		perms:    perms,
		table:    NewTable(),
		log:      zap.NewNop(),
	}
	if d.perms == nil {
		d.perms = DenyAll{}
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// checkUnstable aborts the process when the guarded API is used without
// opt-in. Intentional fail-fast, not a recoverable error; the surrounding
// host decides whether to expose the capability more gracefully.
func (d *Dispatcher) checkUnstable(api string) {
	if !d.unstable {
		fmt.Fprintf(os.Stderr, "Unstable API '%s'. The --unstable flag must be provided.\n", api)
		exitFn(70)
	}
}

// OpenLibrary loads the dynamic library at path and registers it in the
// handle table. On load failure no table entry is created.
func (d *Dispatcher) OpenLibrary(path string) (HandleID, error) {
	d.checkUnstable("dlbridge.open")
	if err := d.perms.Check(); err != nil {
		return 0, err
	}
	if err := d.perms.CheckRead(path); err != nil {
		return 0, err
	}
	lib, err := OpenLibrary(path)
	if err != nil {
		return 0, err
	}
	id := d.table.Insert(lib)
	d.log.Debug("library opened",
		zap.String("path", path),
		zap.Uint32("handle", uint32(id)))
	return id, nil
}

// CallArg is the wire form of one argument: a declared type name and the
// loosely-typed value bound to it.
type CallArg struct {
	Type  string `json:"type"`
	Value Value  `json:"value"`
}

// CallRequest is the wire form of a foreign call.
type CallRequest struct {
	Symbol     string    `json:"sym"`
	Args       []CallArg `json:"args"`
	ReturnType string    `json:"returnType"`
}

// CallSymbol resolves the request's declared types, marshals its values,
// and invokes the named symbol from the library behind id. Unknown handles
// fail before any native interaction; unknown type names fail before any
// argument marshalling.
func (d *Dispatcher) CallSymbol(id HandleID, req CallRequest) (Value, error) {
	d.checkUnstable("dlbridge.call")
	if err := d.perms.Check(); err != nil {
		return Null, err
	}
	lib, err := d.library(id)
	if err != nil {
		return Null, err
	}
	ret, err := ParseType(req.ReturnType)
	if err != nil {
		return Null, fmt.Errorf("return type: %w", err)
	}
	specs := make([]ArgumentSpec, len(req.Args))
	for i, a := range req.Args {
		tag, err := ParseType(a.Type)
		if err != nil {
			return Null, fmt.Errorf("arg %d: %w", i, err)
		}
		specs[i] = ArgumentSpec{Type: tag, Value: a.Value}
	}
	v, err := lib.Call(req.Symbol, specs, ret)
	if err != nil {
		return Null, err
	}
	d.log.Debug("symbol called",
		zap.Uint32("handle", uint32(id)),
		zap.String("sym", req.Symbol),
		zap.Int("args", len(req.Args)),
		zap.String("ret", req.ReturnType))
	return v, nil
}

// Close unloads the library behind id and drops its table entry.
func (d *Dispatcher) Close(id HandleID) error {
	d.checkUnstable("dlbridge.close")
	if err := d.perms.Check(); err != nil {
		return err
	}
	res, ok := d.table.Remove(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidHandle, id)
	}
	return res.Close()
}

// CloseAll is the teardown hook: it unloads every remaining library in
// reverse open order.
func (d *Dispatcher) CloseAll() error {
	return d.table.CloseAll()
}

// Handles reports the number of live table entries.
func (d *Dispatcher) Handles() int { return d.table.Len() }

func (d *Dispatcher) library(id HandleID) (*Library, error) {
	res, ok := d.table.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHandle, id)
	}
	lib, ok := res.(*Library)
	if !ok {
		return nil, fmt.Errorf("%w: %d is a %s, not a dylib", ErrInvalidHandle, id, res.Name())
	}
	return lib, nil
}

// HandleFromWire converts a host-supplied numeric id into a HandleID,
// rejecting values outside the id space.
func HandleFromWire(v int64) (HandleID, error) {
	id, err := safecast.Conv[uint32](v)
	if err != nil {
		return 0, fmt.Errorf("%w: %d", ErrInvalidHandle, v)
	}
	return HandleID(id), nil
}
