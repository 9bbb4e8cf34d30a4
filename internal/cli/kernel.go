package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shogo82148/osqrt"
)

// OrderResult is the output of the order command.
type OrderResult struct {
	Input uint64 `json:"input"`
	Bound uint   `json:"bound"`
	Order uint64 `json:"order"`
}

func (r OrderResult) String() string {
	return fmt.Sprintf("order(%d) = %d", r.Input, r.Order)
}

// NewOrderCommand creates the order command.
func NewOrderCommand(opts *RootOptions) *cobra.Command {
	var bound uint
	cmd := &cobra.Command{
		Use:   "order X",
		Short: "Find the largest m with 4^m <= X",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := parseUint(args[0])
			if err != nil {
				return err
			}
			e, err := opts.engine()
			if err != nil {
				return err
			}
			m, err := e.order(x, bound)
			if err != nil {
				return kernelError("order failed", err)
			}
			return opts.Out.Success(OrderResult{Input: x, Bound: bound, Order: m})
		},
	}
	cmd.Flags().UintVar(&bound, "bound", maxBound, "number of candidate orders")
	return cmd
}

// ShiftResult is the output of the shift command.
type ShiftResult struct {
	Input  uint64 `json:"input"`
	Width  uint   `json:"width"`
	Shifts uint64 `json:"shifts"`
}

func (r ShiftResult) String() string {
	return fmt.Sprintf("shift(%d, %d) = %d", r.Input, r.Width, r.Shifts)
}

// NewShiftCommand creates the shift command.
func NewShiftCommand(opts *RootOptions) *cobra.Command {
	var width uint
	cmd := &cobra.Command{
		Use:   "shift X",
		Short: "Count the left shifts that move the leading bit of X to the pivot bit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := parseUint(args[0])
			if err != nil {
				return err
			}
			e, err := opts.engine()
			if err != nil {
				return err
			}
			n, err := e.shift(x, width)
			if err != nil {
				return kernelError("shift failed", err)
			}
			return opts.Out.Success(ShiftResult{Input: x, Width: width, Shifts: n})
		},
	}
	cmd.Flags().UintVar(&width, "width", 23, "pivot bit position")
	return cmd
}

// IsqrtResult is the output of the isqrt command.
type IsqrtResult struct {
	Input uint64 `json:"input"`
	Order uint64 `json:"order"`
	Root  uint64 `json:"root"`
	Exact bool   `json:"exact"`
}

func (r IsqrtResult) String() string {
	if r.Exact {
		return fmt.Sprintf("isqrt(%d) = %d (order %d, exact)", r.Input, r.Root, r.Order)
	}
	return fmt.Sprintf("isqrt(%d) = %d (order %d)", r.Input, r.Root, r.Order)
}

// NewIsqrtCommand creates the isqrt command.
func NewIsqrtCommand(opts *RootOptions) *cobra.Command {
	var order int
	cmd := &cobra.Command{
		Use:   "isqrt X",
		Short: "Compute the integer square root of X",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := parseUint(args[0])
			if err != nil {
				return err
			}
			e, err := opts.engine()
			if err != nil {
				return err
			}

			var m uint64
			validate := order >= 0
			if validate {
				m = uint64(order)
			} else {
				m, err = e.order(x, maxBound)
				if err != nil {
					return kernelError("order failed", err)
				}
			}
			root, err := e.isqrt(x, uint(m), validate)
			if err != nil {
				return kernelError("isqrt failed", err)
			}
			opts.Logger.Debug("isqrt", "input", x, "order", m, "root", root)
			return opts.Out.Success(IsqrtResult{Input: x, Order: m, Root: root, Exact: osqrt.IsExactRoot(x, root)})
		},
	}
	cmd.Flags().IntVar(&order, "order", -1, "order index to use instead of searching it (validated)")
	return cmd
}

// WordResult describes a packed single precision word.
type WordResult struct {
	Op       string  `json:"op"`
	Input    string  `json:"input"`
	Word     string  `json:"word"`
	Sign     uint32  `json:"sign"`
	Exponent int     `json:"exponent"`
	Mantissa uint32  `json:"mantissa"`
	Value    float32 `json:"value"`
}

func newWordResult(op, input string, w osqrt.Word) WordResult {
	return WordResult{
		Op:       op,
		Input:    input,
		Word:     fmt.Sprintf("%x", w),
		Sign:     w.Sign(),
		Exponent: w.Exponent(),
		Mantissa: w.Mantissa(),
		Value:    w.Float32(),
	}
}

func (r WordResult) String() string {
	return fmt.Sprintf("%s(%s) = %s sign=%d exponent=%d mantissa=%#x (%v)",
		r.Op, r.Input, r.Word, r.Sign, r.Exponent, r.Mantissa, osqrt.FromFloat32(r.Value))
}

// NewDecomposeCommand creates the decompose command.
func NewDecomposeCommand(opts *RootOptions) *cobra.Command {
	var signed bool
	cmd := &cobra.Command{
		Use:   "decompose X",
		Short: "Convert the integer X into a packed single precision word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var x uint64
			if signed {
				v, err := strconv.ParseInt(args[0], 0, 64)
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid argument", err)
				}
				x = uint64(v)
			} else {
				v, err := parseUint(args[0])
				if err != nil {
					return err
				}
				x = v
			}
			e, err := opts.engine()
			if err != nil {
				return err
			}
			w, err := e.decompose(x, signed)
			if err != nil {
				return kernelError("decompose failed", err)
			}
			return opts.Out.Success(newWordResult("decompose", args[0], w))
		},
	}
	cmd.Flags().BoolVar(&signed, "signed", false, "treat X as a signed integer")
	return cmd
}

// NewRecomposeCommand creates the recompose command.
func NewRecomposeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recompose SIGN EXPONENT MANTISSA",
		Short: "Pack a sign, an unbiased exponent and a mantissa into a word",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sign, err := parseUint(args[0])
			if err != nil {
				return err
			}
			exp, err := strconv.ParseInt(args[1], 0, 64)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid argument", err)
			}
			if exp < -127 || exp > 128 {
				return WrapExitError(ExitCommandError, "invalid argument",
					fmt.Errorf("%w: exponent %d", osqrt.ErrWidthOverflow, exp))
			}
			mant, err := parseUint(args[2])
			if err != nil {
				return err
			}
			e, err := opts.engine()
			if err != nil {
				return err
			}
			w := e.recompose(sign, uint64(exp+127), mant)
			return opts.Out.Success(newWordResult("recompose", strings.Join(args, ", "), w))
		},
	}
}

// NewFsqrtCommand creates the fsqrt command.
func NewFsqrtCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fsqrt WORD",
		Short: "Compute the square root of a single precision value (hex bits or decimal)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := parseWord(args[0])
			if err != nil {
				return err
			}
			e, err := opts.engine()
			if err != nil {
				return err
			}
			r, err := e.fsqrt(w)
			if err != nil {
				return kernelError("fsqrt failed", err)
			}
			return opts.Out.Success(newWordResult("fsqrt", fmt.Sprintf("%x", w), r))
		},
	}
}

func parseUint(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, WrapExitError(ExitCommandError, "invalid argument", err)
	}
	return v, nil
}

// parseWord accepts the packed bits with a 0x prefix, or a decimal value.
func parseWord(s string) (osqrt.Word, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return 0, WrapExitError(ExitCommandError, "invalid argument", err)
		}
		return osqrt.FromBits(uint32(v)), nil
	}
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, WrapExitError(ExitCommandError, "invalid argument", err)
	}
	return osqrt.FromFloat32(float32(f)), nil
}
