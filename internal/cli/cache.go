package cli

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shogo82148/osqrt"
	"github.com/shogo82148/osqrt/cache"
)

// CacheRow is one memoized distance.
type CacheRow struct {
	Radicand  uint32    `json:"radicand"`
	Distance  string    `json:"distance"`
	Value     float32   `json:"value"`
	Digest    string    `json:"digest"`
	CreatedAt time.Time `json:"created_at"`
}

// DumpResult is the output of the cache dump command.
type DumpResult struct {
	Rows []CacheRow `json:"rows"`
}

func (r DumpResult) String() string {
	if len(r.Rows) == 0 {
		return "(empty)"
	}
	var b strings.Builder
	for i, row := range r.Rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d\t%s\t%v\t%s", row.Radicand, row.Distance, osqrt.FromFloat32(row.Value), row.Digest)
	}
	return b.String()
}

// WipeResult is the output of the cache wipe command.
type WipeResult struct {
	Deleted int64 `json:"deleted"`
}

func (r WipeResult) String() string {
	return fmt.Sprintf("wiped %d rows", r.Deleted)
}

// NewCacheCommand creates the cache command group.
func NewCacheCommand(opts *RootOptions) *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the distance cache",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "path of the distance cache database")

	open := func() (*cache.Cache, error) {
		path := dbPath
		if path == "" {
			path = opts.Config.Database
		}
		if path == "" {
			return nil, WrapExitError(ExitCommandError, "invalid flags", fmt.Errorf("--db is required"))
		}
		c, err := cache.Open(path, cache.WithLogger(opts.Logger))
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open cache", err)
		}
		return c, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "List every memoized distance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := open()
			if err != nil {
				return err
			}
			defer c.Close()

			entries, err := c.Dump(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read cache", err)
			}
			res := DumpResult{Rows: []CacheRow{}}
			for _, e := range entries {
				res.Rows = append(res.Rows, CacheRow{
					Radicand:  e.Radicand,
					Distance:  fmt.Sprintf("%x", e.Distance),
					Value:     e.Distance.Float32(),
					Digest:    hex.EncodeToString(e.Digest[:]),
					CreatedAt: e.CreatedAt,
				})
			}
			return opts.Out.Success(res)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "wipe",
		Short: "Delete every memoized distance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := open()
			if err != nil {
				return err
			}
			defer c.Close()

			n, err := c.Wipe(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to wipe cache", err)
			}
			return opts.Out.Success(WipeResult{Deleted: n})
		},
	})

	return cmd
}
