// Headless batch converter: converts the PNG files given on the
// command line without starting the server.
//
//	convert -size 800x600 -out ./out photo.png logo.png
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Redwindmh/png2jpgConverter/batch"
	"github.com/Redwindmh/png2jpgConverter/converter"
)

func main() {
	sizeFlag := flag.String("size", "original", "target size: original, 800x600, 1024x768 or 1920x1080")
	outFlag := flag.String("out", ".", "output directory for converted files")
	workersFlag := flag.Int("workers", 1, "number of parallel conversions")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: convert [-size SIZE] [-out DIR] [-workers N] file.png ...")
		os.Exit(2)
	}

	size, err := converter.ParseTargetSize(*sizeFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	requests := make([]converter.Request, 0, flag.NArg())
	for _, path := range flag.Args() {
		requests = append(requests, converter.Request{
			SourcePath:     path,
			Size:           size,
			DestinationDir: *outFlag,
		})
	}

	results := batch.RunParallel(requests, *workersFlag, func(p batch.Progress) {
		fmt.Printf("Converting %d/%d: %s\n", p.Processed, p.Total, p.CurrentFile)
	})

	for _, result := range results {
		if !result.Success() {
			fmt.Fprintf(os.Stderr, "Error converting %s: %v\n", filepath.Base(result.SourcePath), result.Err)
		}
	}

	succeeded, failed := batch.Summary(results)
	fmt.Printf("Conversion complete! %d/%d files saved to %s\n", succeeded, len(results), *outFlag)
	if failed > 0 {
		os.Exit(1)
	}
}
