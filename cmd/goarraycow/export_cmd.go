// cmd/goarraycow/export_cmd.go
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"
	"github.com/ulikunitz/xz"

	"github.com/creativeyann17/go-arraycow/pkg/arraycow"
)

func init() {
	rootCmd.AddCommand(exportCmd())
}

func exportCmd() *cobra.Command {
	var inputPath, outputPath string
	var stride, chunkSize uint32
	var format string
	var stateIndex int
	var level int
	var quiet bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Ingest versions and write one state to a compressed file",
		Long: `Export ingests a directory of version files like ingest, then writes
the bytes of one state (by default the newest) to a zstd- or
xz-compressed output file. The store plays no part in persistence:
export simply reads the state back and compresses it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "zstd" && format != "xz" {
				return fmt.Errorf("unsupported format %q (want zstd or xz)", format)
			}

			files, err := collectVersionFiles(inputPath, false)
			if err != nil {
				return err
			}
			store, err := arraycow.New(stride, chunkSize)
			if err != nil {
				return err
			}
			handles, err := ingestVersions(store, files, false, false, nil)
			if err != nil {
				return err
			}

			if stateIndex < 0 {
				stateIndex = len(handles) - 1
			}
			if stateIndex >= len(handles) {
				return fmt.Errorf("state index %d out of range (%d versions)", stateIndex, len(handles))
			}
			data, err := store.StateBytes(handles[stateIndex])
			if err != nil {
				return err
			}

			out, err := os.Create(outputPath)
			if err != nil {
				return err
			}
			defer out.Close()

			var w io.WriteCloser
			switch format {
			case "zstd":
				w, err = zstd.NewWriter(out,
					zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
			case "xz":
				w, err = xz.WriterConfig{DictCap: 1 << 24}.NewWriter(out)
			}
			if err != nil {
				return err
			}
			if _, err := w.Write(data); err != nil {
				w.Close()
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}

			if !quiet {
				info, err := os.Stat(outputPath)
				if err != nil {
					return err
				}
				fmt.Printf("Exported version %d of %d: %d bytes -> %d bytes (%s)\n",
					stateIndex+1, len(handles), len(data), info.Size(), format)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Directory of version files (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "state.bin.zst", "Output file")
	cmd.Flags().StringVar(&format, "format", "zstd", "Compression format: zstd or xz")
	cmd.Flags().IntVar(&stateIndex, "state", -1, "Version index to export (default: newest)")
	cmd.Flags().IntVarP(&level, "level", "l", 5, "zstd compression level")
	cmd.Flags().Uint32Var(&stride, "stride", 1, "Element stride in bytes")
	cmd.Flags().Uint32Var(&chunkSize, "chunk-size", 4096, "Target chunk size in bytes")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Minimal output")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}
