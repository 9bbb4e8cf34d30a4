package cli

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shogo82148/osqrt"
	"github.com/shogo82148/osqrt/cache"
)

// DistResult is the output of the dist command.
type DistResult struct {
	A        [2]uint64 `json:"a"`
	B        [2]uint64 `json:"b"`
	Radicand uint64    `json:"radicand"`
	Distance string    `json:"distance"`
	Value    float32   `json:"value"`
	Digest   string    `json:"digest,omitempty"`
	Comment  string    `json:"comment"`
}

func (r DistResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dist((%d, %d), (%d, %d)) = %s (%v) radicand=%d",
		r.A[0], r.A[1], r.B[0], r.B[1], r.Distance, osqrt.FromFloat32(r.Value), r.Radicand)
	if r.Digest != "" {
		fmt.Fprintf(&b, " digest=%s", r.Digest)
	}
	b.WriteString(" ")
	b.WriteString(r.Comment)
	return b.String()
}

// NewDistCommand creates the dist command.
func NewDistCommand(opts *RootOptions) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "dist AX AY BX BY",
		Short: "Compute the distance between two points, memoized by radicand",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			var coords [4]uint64
			for i, arg := range args {
				v, err := parseUint(arg)
				if err != nil {
					return err
				}
				coords[i] = v
			}
			a := [2]uint64{coords[0], coords[1]}
			b := [2]uint64{coords[2], coords[3]}

			e, err := opts.engine()
			if err != nil {
				return err
			}
			if dbPath == "" {
				dbPath = opts.Config.Database
			}

			res, err := measure(cmd.Context(), opts.Logger, e, dbPath, a, b)
			if err != nil {
				return err
			}
			return opts.Out.Success(res)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "path of the distance cache database")
	return cmd
}

func measure(ctx context.Context, logger *slog.Logger, e engine, dbPath string, a, b [2]uint64) (DistResult, error) {
	res := DistResult{A: a, B: b}
	radicand, err := e.radicand(a, b)
	if err != nil {
		return res, kernelError("dist failed", err)
	}
	res.Radicand = radicand

	var c *cache.Cache
	if dbPath != "" && radicand <= 1<<32-1 {
		c, err = cache.Open(dbPath, cache.WithLogger(logger))
		if err != nil {
			return res, WrapExitError(ExitCommandError, "failed to open cache", err)
		}
		defer c.Close()

		entry, ok, err := c.Lookup(ctx, uint32(radicand))
		if err != nil {
			return res, WrapExitError(ExitCommandError, "failed to read cache", err)
		}
		if ok {
			res.set(entry.Distance)
			res.Digest = hex.EncodeToString(entry.Digest[:])
			res.Comment = "precalculated"
			return res, nil
		}
	}

	d, err := e.dist(a, b)
	if err != nil {
		return res, kernelError("dist failed", err)
	}
	res.set(d)
	res.Comment = "calculated"

	if c != nil {
		entry, err := c.Put(ctx, uint32(radicand), d)
		if err != nil {
			return res, WrapExitError(ExitCommandError, "failed to write cache", err)
		}
		res.Digest = hex.EncodeToString(entry.Digest[:])
	}
	return res, nil
}

func (r *DistResult) set(w osqrt.Word) {
	r.Distance = fmt.Sprintf("%x", w)
	r.Value = w.Float32()
}
