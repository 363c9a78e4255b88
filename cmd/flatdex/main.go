// Command flatdex indexes and searches arbitrarily encoded flat files.
//
// Usage:
//
//	flatdex import -file access.log.gz -encoding gzip
//	flatdex import -stdin -separator '\t' < data.tsv
//	flatdex search -term timeout
//	flatdex generate -url https://example.com/data.zip -encoding gzip -target-size 1GB
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/flatdex/flatdex"
	"github.com/flatdex/flatdex/generate"
	"github.com/flatdex/flatdex/index"
	"github.com/flatdex/flatdex/internal/units"
)

const (
	defaultDB     = "flatdex.db"
	maxDisplay    = 10
	maxRecordText = 500
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "import":
		err = runImport(ctx, os.Args[2:])
	case "search":
		err = runSearch(ctx, os.Args[2:])
	case "generate":
		err = runGenerate(ctx, os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Operation cancelled")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func runImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "input file path")
	stdin := fs.Bool("stdin", false, "read input from stdin")
	encoding := fs.String("encoding", "none", "encoding of the input (none, base64, gzip, bz2, ...)")
	separator := fs.String("separator", `\n`, "record separator (character or regex)")
	chunk := fs.String("chunk", "64", "retrieval chunk size with optional unit (64, 1KB, 10MB, 2GB)")
	acuity := fs.Int("acuity", 5, "minimum token occurrence count, 0 disables")
	db := fs.String("db", defaultDB, "index database path")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)

	if *file == "" && !*stdin {
		return errors.New("-file or -stdin required for import")
	}

	chunkSize, err := units.Parse(*chunk)
	if err != nil {
		return err
	}

	fx, err := flatdex.Open(*db,
		flatdex.WithLogLevel(logLevel(*verbose)),
		flatdex.WithChunkSize(int(chunkSize)),
	)
	if err != nil {
		return err
	}
	defer fx.Close()

	opts := flatdex.ImportOptions{Separator: *separator, Acuity: *acuity}
	var stats flatdex.Stats
	if *stdin {
		stats, err = fx.Import(ctx, os.Stdin, index.StdinName, *encoding, opts)
	} else {
		stats, err = fx.ImportFile(ctx, *file, *encoding, opts)
	}
	if err != nil {
		return err
	}

	fmt.Println("\nFinal statistics:")
	fmt.Printf("  Records: %d\n", stats.Records)
	fmt.Printf("  Unique tokens: %d\n", stats.Tokens)
	fmt.Printf("  Token occurrences: %d\n", stats.Occurrences)
	fmt.Println("\nImport complete!")
	return nil
}

func runSearch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	term := fs.String("term", "", "search term (required)")
	file := fs.String("file", "", "override for the source file path")
	db := fs.String("db", defaultDB, "index database path")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)

	if *term == "" {
		return errors.New("-term required for search")
	}

	fx, err := flatdex.Open(*db, flatdex.WithLogLevel(logLevel(*verbose)))
	if err != nil {
		return err
	}
	defer fx.Close()

	matches, err := fx.Search(ctx, *term, *file)
	if err != nil {
		return err
	}
	printResults(matches)
	return nil
}

func runGenerate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	url := fs.String("url", "", "seed data URL (.zip archives are extracted)")
	encoding := fs.String("encoding", "", "encoding to apply (required)")
	targetSize := fs.String("target-size", "100GB", "target output size")
	output := fs.String("output", "", "output file path (temp file when empty)")
	verbose := fs.Bool("v", false, "debug logging")
	fs.Parse(args)

	target, err := units.Parse(*targetSize)
	if err != nil {
		return err
	}

	path, err := generate.Run(ctx, generate.Options{
		URL:        *url,
		Encoding:   *encoding,
		TargetSize: target,
		Output:     *output,
		Logger:     flatdex.NewTextLogger(logLevel(*verbose)).Logger,
	})
	if err != nil {
		return err
	}
	fmt.Printf("\nGeneration complete: %s\n", path)
	return nil
}

// printResults shows at most maxDisplay records, truncating long text.
func printResults(matches []flatdex.Match) {
	if len(matches) == 0 {
		fmt.Println("No results found")
		return
	}

	shown := len(matches)
	if shown > maxDisplay {
		shown = maxDisplay
	}
	rule := strings.Repeat("=", 60)
	fmt.Printf("\n%s\n", rule)
	fmt.Printf("Displaying %d of %d results:\n", shown, len(matches))
	fmt.Printf("%s\n\n", rule)

	for i, m := range matches[:shown] {
		fmt.Printf("--- Record %d ---\n", i+1)
		text := m.Text
		if len(text) > maxRecordText {
			text = text[:maxRecordText] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}
	if len(matches) > maxDisplay {
		fmt.Printf("... and %d more results\n", len(matches)-maxDisplay)
	}
}

func logLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func printUsage() {
	fmt.Println("flatdex - indexes and searches encoded flat files")
	fmt.Println("Usage:")
	fmt.Println("  flatdex import -file <path> [-encoding <name>] [-separator <sep>] [-acuity <n>]")
	fmt.Println("  flatdex import -stdin [-encoding <name>]")
	fmt.Println("  flatdex search -term <term> [-file <path>]")
	fmt.Println("  flatdex generate -encoding <name> [-url <url>] [-target-size <size>] [-output <path>]")
}
