// Command rainbow builds, inspects, and cracks rainbow tables. It is a
// thin wrapper over pkg/engine and pkg/table: flag parsing and result
// formatting only, no table logic of its own.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/kryc/rainbowcrack-go/pkg/engine"
	"github.com/kryc/rainbowcrack-go/pkg/hashalgo"
	"github.com/kryc/rainbowcrack-go/pkg/metrics"
	"github.com/kryc/rainbowcrack-go/pkg/rtlog"
	"github.com/kryc/rainbowcrack-go/pkg/table"
	"github.com/kryc/rainbowcrack-go/pkg/wordcodec"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 1
	}

	action := args[0]
	rest := args[1:]
	logger := rtlog.DefaultLogger()

	switch action {
	case "build":
		return runBuild(rest, logger)
	case "info":
		return runInfo(rest)
	case "crack":
		return runCrack(rest, logger)
	case "compress":
		return runChangeType(rest, table.Compressed)
	case "decompress":
		return runChangeType(rest, table.Uncompressed)
	case "sort":
		return runSort(rest)
	case "chain":
		return runChain(rest)
	default:
		usage()
		return 1
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: rainbow <build|info|crack|compress|decompress|sort|chain> [flags]")
}

func runBuild(args []string, logger rtlog.Logger) int {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	path := fs.String("path", "", "table file path")
	min := fs.Int("min", 1, "minimum word length")
	max := fs.Int("max", 8, "maximum word length")
	length := fs.Uint64("length", 1000, "chain length")
	blocksize := fs.Int("blocksize", 64, "block size (multiple of 8)")
	count := fs.Uint64("count", 100000, "target chain count")
	threads := fs.Int("threads", 4, "worker threads")
	charset := fs.String("charset", string(wordcodec.ASCII.Bytes()), "word charset")
	compressed := fs.Bool("compressed", false, "build a compressed table")
	md5Flag := fs.Bool("md5", false, "use md5")
	sha1Flag := fs.Bool("sha1", false, "use sha1")
	sha256Flag := fs.Bool("sha256", false, "use sha256")
	algoFlag := fs.String("algorithm", "", "hash algorithm (md5|sha1|sha256)")
	metricsAddr := fs.String("metrics-addr", "", "if set, serve Prometheus metrics on this address while building")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	algo, err := resolveAlgorithm(*algoFlag, *md5Flag, *sha1Flag, *sha256Flag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	reg := metrics.DefaultRegistry()
	stopMetrics := maybeServeMetrics(*metricsAddr, reg)
	defer stopMetrics()

	cfg := engine.Config{
		Path:        *path,
		Algorithm:   algo,
		Min:         *min,
		Max:         *max,
		ChainLength: *length,
		BlockSize:   *blocksize,
		Count:       *count,
		Threads:     *threads,
		Charset:     *charset,
	}
	if *compressed {
		cfg.Type = "compressed"
	}

	e, err := engine.New(cfg, logger, reg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := e.Build(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runInfo(args []string) int {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: rainbow info <path>")
		return 1
	}

	info, err := engine.Inspect(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Printf("type:      %s\n", info.Type)
	fmt.Printf("algorithm: %s\n", info.Algorithm)
	fmt.Printf("min:       %d\n", info.Min)
	fmt.Printf("max:       %d\n", info.Max)
	fmt.Printf("length:    %d\n", info.Length)
	fmt.Printf("chains:    %d\n", info.Chains)
	fmt.Printf("charset:   %s\n", info.Charset)
	fmt.Printf("coverage:  %.6f%%\n", info.Coverage)
	return 0
}

func runCrack(args []string, logger rtlog.Logger) int {
	fs := flag.NewFlagSet("crack", flag.ContinueOnError)
	path := fs.String("path", "", "table file path")
	target := fs.String("hash", "", "a single hex-encoded target hash")
	targetFile := fs.String("file", "", "a newline-delimited file of hex-encoded target hashes")
	threads := fs.Int("threads", 4, "worker threads (file mode only)")
	separator := fs.String("separator", ":", "separator between hash and plaintext in result lines")
	metricsAddr := fs.String("metrics-addr", "", "if set, serve Prometheus metrics on this address while cracking")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	header, err := table.LoadHeader(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	reg := metrics.DefaultRegistry()
	stopMetrics := maybeServeMetrics(*metricsAddr, reg)
	defer stopMetrics()

	cfg := engine.Config{
		Path:        *path,
		Algorithm:   header.Algorithm,
		Min:         int(header.Min),
		Max:         int(header.Max),
		ChainLength: header.Length,
		BlockSize:   8,
		Count:       1,
		Threads:     *threads,
		Charset:     string(header.CharsetBytes()),
	}
	if header.Type == table.Compressed {
		cfg.Type = "compressed"
	}

	e, err := engine.New(cfg, logger, reg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch {
	case *target != "":
		result, err := e.Crack(*target)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if result.Recovered {
			fmt.Printf("%s%s%s\n", result.Hash, *separator, result.Plaintext)
		}
		return 0

	case *targetFile != "":
		w := &separatorWriter{sep: *separator}
		if err := e.CrackFile(*targetFile, w); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintln(os.Stderr, "crack requires -hash or -file")
		return 1
	}
}

// separatorWriter rewrites CrackFile's fixed "<hash> <plaintext>\n"
// lines to use the configured separator instead of a literal space.
type separatorWriter struct {
	sep string
	buf []byte
}

func (w *separatorWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := indexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		line := w.buf[:i]
		w.buf = w.buf[i+1:]
		space := indexByte(line, ' ')
		if space < 0 {
			fmt.Println(string(line))
			continue
		}
		fmt.Printf("%s%s%s\n", line[:space], w.sep, line[space+1:])
	}
	return len(p), nil
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func runChangeType(args []string, target table.Type) int {
	fs := flag.NewFlagSet("changetype", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: rainbow <compress|decompress> <source> <destination>")
		return 1
	}
	if err := table.ChangeType(fs.Arg(0), fs.Arg(1), target); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runSort(args []string) int {
	fs := flag.NewFlagSet("sort", flag.ContinueOnError)
	byStart := fs.Bool("by-start", false, "sort by start index instead of endpoint")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: rainbow sort [-by-start] <path>")
		return 1
	}

	var err error
	if *byStart {
		err = table.SortStartpoints(fs.Arg(0))
	} else {
		err = table.SortTable(fs.Arg(0))
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runChain(args []string) int {
	fs := flag.NewFlagSet("chain", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: rainbow chain <path> <index>")
		return 1
	}

	index, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	chain, err := engine.GetChain(fs.Arg(0), index)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Printf("index: %d\n", chain.Index)
	fmt.Printf("start: %s\n", chain.Start)
	fmt.Printf("end:   %s\n", chain.End)
	return 0
}

func resolveAlgorithm(name string, md5, sha1, sha256 bool) (hashalgo.Algorithm, error) {
	switch {
	case name != "":
		return hashalgo.Parse(name)
	case md5:
		return hashalgo.Md5, nil
	case sha1:
		return hashalgo.Sha1, nil
	case sha256:
		return hashalgo.Sha256, nil
	default:
		return hashalgo.Sha1, nil
	}
}

func maybeServeMetrics(addr string, reg *metrics.Registry) func() {
	if addr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg.GetPrometheusRegistry(), promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		_ = srv.ListenAndServe()
	}()

	return func() { _ = srv.Close() }
}
