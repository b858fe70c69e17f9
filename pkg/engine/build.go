package engine

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/kryc/rainbowcrack-go/pkg/dispatch"
	"github.com/kryc/rainbowcrack-go/pkg/rtlog"
	"github.com/kryc/rainbowcrack-go/pkg/simdhash"
	"github.com/kryc/rainbowcrack-go/pkg/table"
	"github.com/kryc/rainbowcrack-go/pkg/wordcodec"
)

// blockResult is what a pool worker hands to the main queue once it
// has finished hashing and reducing one block's chains.
type blockResult struct {
	blockID uint64
	rows    []byte // blocksize*rowWidth bytes, chain-index order
	elapsed time.Duration
}

// Build appends chains to the table until it holds at least cfg.Count
// of them, resuming from whatever row count the file already has. The
// last block is written whole, so the count can be overshot by up to
// BlockSize-1 chains.
func (e *Engine) Build() error {
	header, resumed, err := e.loadOrCreateHeader()
	if err != nil {
		return err
	}

	rowWidth := header.ChainWidth()
	writer, startingChains, err := table.ResumeWriter(e.cfg.Path, rowWidth)
	if err != nil {
		return err
	}
	defer writer.Close()

	if startingChains >= e.cfg.Count {
		e.logger.Info("table already has enough chains", rtlog.Chains(startingChains))
		return nil
	}

	e.logger.Info("starting build",
		rtlog.Uint64("starting_chains", startingChains),
		rtlog.Uint64("target_count", e.cfg.Count),
		rtlog.Bool("resumed", resumed),
		rtlog.Int("threads", e.cfg.Threads),
	)

	remaining := e.cfg.Count - startingChains
	totalBlocks := (remaining + uint64(e.cfg.BlockSize) - 1) / uint64(e.cfg.BlockSize)

	main := dispatch.NewMain()
	pool, err := dispatch.NewPool(e.cfg.Threads)
	if err != nil {
		return err
	}

	var (
		mu              sync.Mutex
		nextWriteBlock  uint64
		pending         = make(map[uint64]blockResult)
		writeErr        error
		completedWorker int
		done            = make(chan struct{})
	)

	threadCompleted := func() {
		mu.Lock()
		completedWorker++
		n := completedWorker
		mu.Unlock()
		if n == e.cfg.Threads {
			close(done)
		}
	}

	flushPending := func() {
		for {
			r, ok := pending[nextWriteBlock]
			if !ok {
				return
			}
			delete(pending, nextWriteBlock)
			if writeErr == nil {
				writeErr = writeBlock(writer, r.rows, rowWidth)
				e.metrics.RecordChainsBuilt(uint64(len(r.rows)/rowWidth), r.elapsed)
				e.metrics.RecordBytesWritten(len(r.rows))
			}
			nextWriteBlock++
		}
	}

	var processBlock func(blockID uint64)
	processBlock = func(blockID uint64) {
		if startingChains+blockID*uint64(e.cfg.BlockSize) >= e.cfg.Count {
			main.Post(func() { threadCompleted() })
			return
		}

		start := time.Now()
		rows, err := e.computeBlock(header, startingChains, blockID)
		elapsed := time.Since(start)
		e.logger.Debug("block computed", rtlog.BlockID(int(blockID)), rtlog.Latency(elapsed))

		main.Post(func() {
			if err != nil && writeErr == nil {
				writeErr = err
			}
			mu.Lock()
			if blockID == nextWriteBlock {
				if writeErr == nil {
					writeErr = writeBlock(writer, rows, rowWidth)
					e.metrics.RecordChainsBuilt(uint64(len(rows)/rowWidth), elapsed)
					e.metrics.RecordBytesWritten(len(rows))
				}
				nextWriteBlock++
				flushPending()
			} else {
				pending[blockID] = blockResult{blockID: blockID, rows: rows, elapsed: elapsed}
			}
			mu.Unlock()
		})

		nextBlock := blockID + uint64(e.cfg.Threads)
		pool.Post(func() { processBlock(nextBlock) })
	}

	for t := 0; t < e.cfg.Threads; t++ {
		blockID := uint64(t)
		pool.Post(func() { processBlock(blockID) })
	}

	<-done
	pool.Wait()
	main.Wait()

	if writeErr != nil {
		return writeErr
	}

	if err := writer.Sync(); err != nil {
		return err
	}

	e.logger.Info("build complete",
		rtlog.Uint64("chains_written", writer.RowsWritten()),
		rtlog.Uint64("blocks", totalBlocks),
	)
	return nil
}

func writeBlock(w *table.Writer, rows []byte, rowWidth int) error {
	for off := 0; off+rowWidth <= len(rows); off += rowWidth {
		if err := w.WriteRow(rows[off : off+rowWidth]); err != nil {
			return err
		}
	}
	return nil
}

// computeBlock runs the per-block algorithm: generate blocksize
// startpoints, run them through chain_length SIMD hash/reduce rounds,
// and marshal the resulting endpoints into blocksize*rowWidth
// contiguous bytes.
func (e *Engine) computeBlock(header *table.Header, startingChains, blockID uint64) ([]byte, error) {
	lanes := simdhash.Lanes
	rowWidth := header.ChainWidth()
	blockStart := startingChains + blockID*uint64(e.cfg.BlockSize)

	out := make([]byte, e.cfg.BlockSize*rowWidth)

	counter := new(big.Int).Add(e.lower, new(big.Int).SetUint64(blockStart))
	wordBuf := simdhash.NewLaneBuffer(int(header.Max), lanes)
	hashBuf := simdhash.NewLaneBuffer(e.kernel.Width(), lanes)

	for iter := 0; iter < e.cfg.BlockSize/lanes; iter++ {
		for lane := 0; lane < lanes; lane++ {
			word, err := wordcodec.GenerateWordInto(wordBuf.Lane(lane)[:0], counter, e.charset)
			if err != nil {
				return nil, fmt.Errorf("engine: %w", err)
			}
			wordBuf.SetLength(lane, len(word))
			counter.Add(counter, big.NewInt(1))
		}

		for column := uint64(0); column < header.Length; column++ {
			e.kernel.HashLanes(wordBuf, hashBuf)
			for lane := 0; lane < lanes; lane++ {
				reduced, err := e.reducer.Reduce(wordBuf.Lane(lane)[:0], hashBuf.Lane(lane)[:hashBuf.Length(lane)], column)
				if err != nil {
					return nil, fmt.Errorf("engine: %w", err)
				}
				wordBuf.SetLength(lane, len(reduced))
			}
		}

		for lane := 0; lane < lanes; lane++ {
			row := iter*lanes + lane
			startIdx := blockStart + uint64(row)
			endpoint := wordBuf.Lane(lane)[:wordBuf.Length(lane)]
			dst := out[row*rowWidth : (row+1)*rowWidth]
			table.EncodeRow(header.Type, int(header.Max), startIdx, endpoint, dst)
		}
	}

	return out, nil
}
