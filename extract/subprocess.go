package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/flatdex/flatdex/index"
)

// decompressCommands maps canonical codec names to the system utility that
// produces the decoded stream on stdout. Only formats with a ubiquitous
// command-line decompressor are listed; everything else stays in-process.
var decompressCommands = map[string][]string{
	"gzip":   {"gzip", "-dc"},
	"bz2":    {"bzip2", "-dc"},
	"zstd":   {"zstd", "-dc"},
	"lz4":    {"lz4", "-dc"},
	"brotli": {"brotli", "-dc"},
}

// externalCommand returns the decompressor argv for a codec name if the
// utility is installed.
func externalCommand(codecName string) ([]string, bool) {
	argv, ok := decompressCommands[codecName]
	if !ok {
		return nil, false
	}
	if _, err := exec.LookPath(argv[0]); err != nil {
		return nil, false
	}
	return argv, true
}

// runExternal streams the decoded source through a decompressor subprocess
// and extracts the target ranges from its stdout pipe. The pipe's blocking
// semantics provide backpressure in both directions; once every target is
// resolved the subprocess is killed rather than drained.
func (e *Engine) runExternal(ctx context.Context, path string, argv []string, ranges []index.RecordRange) ([]Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cmdCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, argv[0], argv[1:]...)
	cmd.Stdin = f
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", argv[0], err)
	}
	e.logger.Info("using external decompressor", "command", strings.Join(argv, " "))

	var g errgroup.Group
	g.Go(cmd.Wait)

	matches, xerr := e.extract(ctx, stdout, ranges)

	// Kill the subprocess if extraction finished before the stream did.
	cancel()
	werr := g.Wait()

	if xerr != nil {
		return nil, xerr
	}
	// A failed subprocess truncates its output pipe, which the extractor
	// reads as a short stream. Distinguish that from a legitimately
	// degraded result: when targets are missing and the process exited
	// with an error, report it so the caller can fall back in-process.
	// (If extraction resolved every target, the only Wait error is the
	// kill we just issued, which is expected.)
	if werr != nil && len(matches) < len(ranges) {
		return nil, fmt.Errorf("%s: %w: %s", argv[0], werr, strings.TrimSpace(stderr.String()))
	}
	return matches, nil
}
