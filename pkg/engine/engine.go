// Package engine wires the word codec, reducers and SIMD hash kernel
// into the three operations exposed at the table's boundary: building
// a table's chains, looking a target hash up against it, and
// inspecting it. Everything in pkg/reduce is a pure function of its
// inputs and pkg/table supplies the file format with its readers and
// writers; engine owns the stateful parts of each operation — the
// dispatcher queues, the resumable writer, the mapped table and its
// endpoint index.
package engine

import (
	"fmt"
	"math/big"

	"github.com/kryc/rainbowcrack-go/pkg/metrics"
	"github.com/kryc/rainbowcrack-go/pkg/reduce"
	"github.com/kryc/rainbowcrack-go/pkg/rtlog"
	"github.com/kryc/rainbowcrack-go/pkg/simdhash"
	"github.com/kryc/rainbowcrack-go/pkg/table"
	"github.com/kryc/rainbowcrack-go/pkg/wordcodec"
)

// Engine holds everything derived from a Config once: the charset,
// the reducer, the SIMD kernel and the lower bound of the word space,
// plus the logger and metrics registry every operation reports
// through.
type Engine struct {
	cfg     Config
	charset *wordcodec.Charset
	reducer reduce.Reducer
	kernel  *simdhash.Kernel
	lower   *big.Int
	logger  rtlog.Logger
	metrics *metrics.Registry
}

// New validates cfg and constructs the derived state every operation
// shares.
func New(cfg Config, logger rtlog.Logger, reg *metrics.Registry) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = rtlog.DefaultLogger()
	}
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}

	charset, err := wordcodec.NewCharset(cfg.Charset)
	if err != nil {
		return nil, err
	}

	reducer, err := reduce.New(cfg.Min, cfg.Max, cfg.Algorithm.Width(), charset)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:     cfg,
		charset: charset,
		reducer: reducer,
		kernel:  simdhash.NewKernel(cfg.Algorithm),
		lower:   wordcodec.WordLengthIndex(cfg.Min, charset),
		logger:  logger.With(rtlog.Component("engine"), rtlog.Algorithm(cfg.Algorithm.String())),
		metrics: reg,
	}, nil
}

func (e *Engine) tableType() table.Type {
	if e.cfg.isCompressed() {
		return table.Compressed
	}
	return table.Uncompressed
}

func (e *Engine) newHeader() *table.Header {
	h := &table.Header{
		Type:       e.tableType(),
		Algorithm:  e.cfg.Algorithm,
		Min:        uint8(e.cfg.Min),
		Max:        uint8(e.cfg.Max),
		CharsetLen: uint8(e.charset.Len()),
		Length:     e.cfg.ChainLength,
	}
	copy(h.Charset[:], e.charset.Bytes())
	return h
}

// loadOrCreateHeader implements the resume contract: an existing
// valid table's header is reused, so its chain length and type decide
// the rows Build appends, and a table whose algorithm, min, max or
// charset differ from cfg is refused, since the reducer and word codec
// come from cfg. Only a brand new file gets a header built from cfg.
func (e *Engine) loadOrCreateHeader() (*table.Header, bool, error) {
	if table.IsTable(e.cfg.Path) {
		h, err := table.LoadHeader(e.cfg.Path)
		if err != nil {
			return nil, false, err
		}
		if h.Algorithm != e.cfg.Algorithm || int(h.Min) != e.cfg.Min || int(h.Max) != e.cfg.Max ||
			string(h.CharsetBytes()) != string(e.charset.Bytes()) {
			return nil, false, fmt.Errorf("engine: existing table at %s has a different shape than the requested config", e.cfg.Path)
		}
		return h, true, nil
	}

	h := e.newHeader()
	if err := table.StoreHeader(e.cfg.Path, h); err != nil {
		return nil, false, err
	}
	return h, false, nil
}
