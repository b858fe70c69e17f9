package engine

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/kryc/rainbowcrack-go/pkg/dispatch"
	"github.com/kryc/rainbowcrack-go/pkg/pools"
	"github.com/kryc/rainbowcrack-go/pkg/rterrors"
	"github.com/kryc/rainbowcrack-go/pkg/rtlog"
	"github.com/kryc/rainbowcrack-go/pkg/simdhash"
	"github.com/kryc/rainbowcrack-go/pkg/table"
)

// Result is one recovered (or exhausted) crack attempt.
type Result struct {
	Hash           string
	Plaintext      string
	Recovered      bool
	FalsePositives int
}

// Crack opens the table at cfg.Path and recovers the plaintext behind
// one hex-encoded target hash.
func (e *Engine) Crack(targetHex string) (Result, error) {
	start := time.Now()
	mt, idx, err := e.openTableForCrack()
	if err != nil {
		return Result{}, err
	}
	defer mt.Close()

	result, err := e.crackAgainst(mt, idx, targetHex)
	e.logger.Info("crack finished",
		rtlog.Operation("crack"),
		rtlog.Path(e.cfg.Path),
		rtlog.Latency(time.Since(start)),
		rtlog.Bool("recovered", result.Recovered),
	)
	return result, err
}

// openTableForCrack maps the table and, for uncompressed tables whose
// rows are endpoint-sorted, builds the endpoint index once so repeated
// lookups (one table, many targets) don't pay its construction cost per
// target. Any other table is searched linearly by findEndpoint.
func (e *Engine) openTableForCrack() (*table.MappedTable, *table.EndpointIndex, error) {
	mt, err := table.OpenMappedTable(e.cfg.Path)
	if err != nil {
		return nil, nil, err
	}

	e.metrics.SetTableRows(uint64(mt.RowCount()))

	// A table straight out of Build is in chain-index order, which the
	// index's binary search cannot use.
	sorted := mt.Header().Type == table.Uncompressed
	for i := 1; i < mt.RowCount() && sorted; i++ {
		sorted = bytes.Compare(mt.Endpoint(i-1), mt.Endpoint(i)) <= 0
	}
	var idx *table.EndpointIndex
	if sorted {
		idx, err = table.BuildEndpointIndex(mt)
		if err != nil {
			mt.Close()
			return nil, nil, err
		}
	}
	return mt, idx, nil
}

// crackAgainst runs the backwards-column single-hash protocol (§4.7)
// against an already-open table: for each column i descending from
// L-1 to 0, walk the target forward through the remaining reduce/hash
// rounds, reduce once more into a candidate endpoint, and look it up.
func (e *Engine) crackAgainst(mt *table.MappedTable, idx *table.EndpointIndex, targetHex string) (Result, error) {
	target, err := decodeTargetHex(targetHex, e.cfg.Algorithm.Width())
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	result := Result{Hash: targetHex}
	falsePositives := 0

	length := mt.Header().Length
	hashBuf := pools.GetBytes(e.kernel.Width())
	defer pools.PutBytes(hashBuf)
	scratch := pools.GetBytes(e.cfg.Max)
	defer pools.PutBytes(scratch)
	hCopy := pools.GetBytes(len(target))
	defer pools.PutBytes(hCopy)

	for i := int64(length) - 1; i >= 0; i-- {
		e.metrics.RecordCandidateColumn(int(i))
		h := append(hCopy[:0], target...)
		for j := uint64(i); j < length-1; j++ {
			w, err := e.reducer.Reduce(scratch[:0], h, j)
			if err != nil {
				return Result{}, err
			}
			h = e.kernel.Hash(w, hashBuf[:0])
		}
		endpoint, err := e.reducer.Reduce(scratch[:0], h, length-1)
		if err != nil {
			return Result{}, err
		}
		// Stored endpoints are NUL-padded to the table's Max bytes.
		for len(endpoint) < int(mt.Header().Max) {
			endpoint = append(endpoint, 0)
		}

		lookupStart := time.Now()
		row, found := findEndpoint(mt, idx, endpoint)
		e.metrics.RecordLookup(found, time.Since(lookupStart))
		if !found {
			continue
		}

		startIdx, err := rowStartIndex(mt, row)
		if err != nil {
			return Result{}, err
		}

		plaintext, ok := e.ValidateChain(startIdx, target, length)
		if ok {
			result.Plaintext = string(plaintext)
			result.Recovered = true
			break
		}
		falsePositives++
	}

	result.FalsePositives = falsePositives
	e.metrics.RecordCrack(result.Recovered, falsePositives, time.Since(start))
	return result, nil
}

// findEndpoint implements FindEndpoint (§4.7.1): a table with an
// endpoint index (an endpoint-sorted uncompressed table) uses it; any
// other table falls back to a linear scan over every row.
func findEndpoint(mt *table.MappedTable, idx *table.EndpointIndex, endpoint []byte) (row int, found bool) {
	if idx != nil {
		return idx.Lookup(endpoint)
	}
	for i := 0; i < mt.RowCount(); i++ {
		if bytes.Equal(mt.Endpoint(i), endpoint) {
			return i, true
		}
	}
	return 0, false
}

func rowStartIndex(mt *table.MappedTable, row int) (uint64, error) {
	if mt.Header().Type == table.Uncompressed {
		return mt.StartIndex(row)
	}
	// Compressed rows carry no start index; the row's ordinal
	// position in a build-order-preserving compressed table is its
	// chain index.
	return uint64(row), nil
}

func decodeTargetHex(s string, width int) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("engine: %w: %w", rterrors.ErrInvalidTarget, err)
	}
	if width > 0 && len(raw) != width {
		return nil, fmt.Errorf("engine: %w: expected %d bytes, got %d", rterrors.ErrInvalidTarget, width, len(raw))
	}
	return raw, nil
}

// CrackFile recovers plaintexts for every newline-delimited hex hash
// in path, distributing lines across cfg.Threads workers that share
// the input stream under a mutex and the one mapped table opened up
// front, batching up to simdhash.Lanes targets per refill as the
// worker/stream mode describes. Results are streamed to out as
// "<hash> <plaintext>" lines as they're found.
func (e *Engine) CrackFile(path string, out io.Writer) error {
	mt, idx, err := e.openTableForCrack()
	if err != nil {
		return err
	}
	defer mt.Close()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("engine: %w: %w", rterrors.ErrIoFailure, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var streamMu sync.Mutex
	var outMu sync.Mutex

	nextBatch := func() []string {
		streamMu.Lock()
		defer streamMu.Unlock()
		batch := make([]string, 0, simdhash.Lanes)
		for len(batch) < simdhash.Lanes && scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			batch = append(batch, line)
		}
		return batch
	}

	main := dispatch.NewMain()
	pool, err := dispatch.NewPool(e.cfg.Threads)
	if err != nil {
		return err
	}

	var (
		mu              sync.Mutex
		completedWorker int
		done            = make(chan struct{})
		firstErr        error
	)

	var worker func(threadID int)
	worker = func(threadID int) {
		batch := nextBatch()
		if len(batch) == 0 {
			main.Post(func() {
				mu.Lock()
				completedWorker++
				n := completedWorker
				mu.Unlock()
				if n == e.cfg.Threads {
					close(done)
				}
			})
			return
		}

		e.logger.Debug("worker processing batch",
			rtlog.ThreadID(threadID),
			rtlog.Count(len(batch)),
		)

		for _, targetHex := range batch {
			result, err := e.crackAgainst(mt, idx, targetHex)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				continue
			}
			if result.Recovered {
				outMu.Lock()
				fmt.Fprintf(out, "%s %s\n", result.Hash, result.Plaintext)
				outMu.Unlock()
			}
		}

		pool.Post(func() { worker(threadID) })
	}

	for t := 0; t < e.cfg.Threads; t++ {
		threadID := t
		pool.Post(func() { worker(threadID) })
	}

	<-done
	pool.Wait()
	main.Wait()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("engine: %w: %w", rterrors.ErrIoFailure, err)
	}
	if firstErr != nil {
		return firstErr
	}
	return nil
}
