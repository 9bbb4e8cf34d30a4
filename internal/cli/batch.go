package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/shogo82148/osqrt"
)

// BatchItem is the square root of one radicand.
type BatchItem struct {
	Radicand uint64  `json:"radicand"`
	Root     string  `json:"root"`
	Value    float32 `json:"value"`
}

// BatchResult is the output of the batch command, in input order.
type BatchResult struct {
	Items []BatchItem `json:"items"`
}

func (r BatchResult) String() string {
	var b strings.Builder
	for i, item := range r.Items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d\t%s\t%v", item.Radicand, item.Root, osqrt.FromFloat32(item.Value))
	}
	return b.String()
}

// NewBatchCommand creates the batch command.
func NewBatchCommand(opts *RootOptions) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Compute single precision square roots of the integers read from stdin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			radicands, err := readRadicands(cmd.InOrStdin())
			if err != nil {
				return err
			}
			e, err := opts.engine()
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = opts.Config.Workers
			}
			items, err := runBatch(cmd.Context(), e, radicands, workers)
			if err != nil {
				return err
			}
			opts.Logger.Debug("batch done", "items", len(items), "workers", workers)
			return opts.Out.Success(BatchResult{Items: items})
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "number of concurrent computations (default from config)")
	return cmd
}

func readRadicands(r io.Reader) ([]uint64, error) {
	var radicands []uint64
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, err := parseUint(line)
		if err != nil {
			return nil, err
		}
		radicands = append(radicands, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read input", err)
	}
	return radicands, nil
}

func runBatch(ctx context.Context, e engine, radicands []uint64, workers int) ([]BatchItem, error) {
	items := make([]BatchItem, len(radicands))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, x := range radicands {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			w, err := e.decompose(x, false)
			if err != nil {
				return kernelError(fmt.Sprintf("radicand %d", x), err)
			}
			r, err := e.fsqrt(w)
			if err != nil {
				return kernelError(fmt.Sprintf("radicand %d", x), err)
			}
			items[i] = BatchItem{Radicand: x, Root: fmt.Sprintf("%x", r), Value: r.Float32()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}
