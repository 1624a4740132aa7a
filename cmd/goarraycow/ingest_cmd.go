// cmd/goarraycow/ingest_cmd.go
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"github.com/zeebo/blake3"

	"github.com/creativeyann17/go-arraycow/pkg/arraycow"
)

func init() {
	rootCmd.AddCommand(ingestCmd())
}

func ingestCmd() *cobra.Command {
	var inputPath string
	var stride, chunkSize uint32
	var useGitignore bool
	var verify bool
	var verbose bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest a directory of version files and report chunk sharing",
		Long: `Ingest treats the files under a directory, in lexicographic order,
as successive versions of one document. Each version is added to an
in-memory store with the previous version as its reference, and the
final report shows how much memory chunk sharing saved.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := collectVersionFiles(inputPath, useGitignore)
			if err != nil {
				return err
			}

			store, err := arraycow.New(stride, chunkSize)
			if err != nil {
				return err
			}

			log := func(format string, args ...interface{}) {
				if !quiet {
					fmt.Printf(format+"\n", args...)
				}
			}

			log("Ingesting %d versions from %s", len(files), inputPath)
			log("  Stride:     %d", store.Stride())
			log("  Chunk size: %d", store.ChunkSize())
			log("")

			var progress *mpb.Progress
			var bar *mpb.Bar
			if !quiet {
				progress = mpb.New(mpb.WithWidth(60))
				bar = progress.AddBar(int64(len(files)),
					mpb.PrependDecorators(
						decor.Name("Versions "),
						decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
					),
					mpb.AppendDecorators(
						decor.Percentage(decor.WC{W: 5}),
					),
				)
			}

			_, err = ingestVersions(store, files, verbose && !quiet, verify, bar)
			if bar != nil {
				if err != nil {
					bar.Abort(true)
				}
				progress.Wait()
			}
			if err != nil {
				return err
			}

			fmt.Println()
			fmt.Print(arraycow.FormatSummary(store.Stats()))

			if totalKB, err := getTotalSystemMemory(); err == nil {
				used := float64(store.SizeCompacted()) / 1024
				fmt.Printf("  System memory:   %.1f%% of %.0f MiB\n",
					used/float64(totalKB)*100, float64(totalKB)/1024)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Directory of version files (required)")
	cmd.Flags().Uint32Var(&stride, "stride", 1, "Element stride in bytes")
	cmd.Flags().Uint32Var(&chunkSize, "chunk-size", 4096, "Target chunk size in bytes")
	cmd.Flags().BoolVar(&useGitignore, "gitignore", false, "Respect a .gitignore in the input directory")
	cmd.Flags().BoolVar(&verify, "verify", false, "Re-read every state and verify its BLAKE3 digest")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "Show detailed output")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Minimal output (overrides verbose)")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// ingestVersions adds each file as a state, chaining references, and
// returns the handles in version order.
func ingestVersions(store *arraycow.Store, files []string, verbose, verify bool, bar *mpb.Bar) ([]arraycow.StateHandle, error) {
	handles := make([]arraycow.StateHandle, 0, len(files))
	for i, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = padToStride(data, store.Stride())

		before := store.Stats().SizeCompacted
		var h arraycow.StateHandle
		if i == 0 {
			h, err = store.AddData(data)
		} else {
			h, err = store.AddDataWithRef(data, handles[i-1])
		}
		if err != nil {
			return nil, fmt.Errorf("adding %s: %w", path, err)
		}
		handles = append(handles, h)

		if verify {
			want := blake3.Sum256(data)
			got, err := store.StateDigest(h)
			if err != nil {
				return nil, err
			}
			if !bytes.Equal(want[:], got[:]) {
				return nil, fmt.Errorf("digest mismatch for %s", path)
			}
		}

		if verbose {
			grown := store.Stats().SizeCompacted - before
			fmt.Printf("  %s: %d bytes, %d new\n", path, len(data), grown)
		}
		if bar != nil {
			bar.Increment()
		}
	}
	return handles, nil
}

// padToStride pads data with zero bytes up to the next stride multiple
// so arbitrary files can be ingested with stride > 1.
func padToStride(data []byte, stride int) []byte {
	if rem := len(data) % stride; rem != 0 {
		data = append(data, make([]byte, stride-rem)...)
	}
	return data
}
