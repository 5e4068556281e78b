package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nxadm/tail"
	"github.com/spf13/cobra"

	"jdis/internal/binfile"
	"jdis/internal/jrisc"
)

func newFollowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "follow <file>",
		Short: "Disassemble hex lines as they are appended to a file",
		Long: `Watch a text file of hex dump lines, "[addr:] bytes", and print the
disassembly of each line as it appears. Lines without an address continue
from the end of the previous line.`,
		Example: `
# Follow a trace written by an emulator
jdis follow --dsp -a trace.txt

# Decode an existing dump once and exit
jdis follow --no-follow dump.txt
  `,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := resolveOptions(cmd)
			if err != nil {
				return err
			}
			if !isTerminal(cmd.OutOrStdout()) {
				opts.color = false
			}

			noFollow, _ := cmd.Flags().GetBool("no-follow")
			fromEnd, _ := cmd.Flags().GetBool("from-end")

			cfg := tail.Config{
				Follow:    !noFollow,
				ReOpen:    !noFollow,
				MustExist: noFollow,
				Logger:    tail.DiscardingLogger,
			}
			if fromEnd {
				cfg.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
			}

			t, err := tail.TailFile(args[0], cfg)
			if err != nil {
				return fmt.Errorf("tail %s: %w", args[0], err)
			}
			defer t.Cleanup()
			defer t.Stop()

			return followLines(cmd.Context(), cmd.OutOrStdout(), t.Lines, opts)
		},
	}

	cmd.Flags().Bool("no-follow", false, "Stop at the end of the file")
	cmd.Flags().Bool("from-end", false, "Skip the lines already in the file")
	return cmd
}

// followLines decodes each line from lines until the channel closes or
// ctx is done. Bad lines are reported and skipped. An instruction cut off
// at the end of a line is finished with the next line's bytes when that
// line continues at the same address.
func followLines(ctx context.Context, w io.Writer, lines <-chan *tail.Line, opts options) error {
	next := opts.origin()
	var (
		pending    []byte
		pendingErr error
	)
	flush := func() {
		if pendingErr != nil {
			slog.Warn("Truncated instruction", "error", pendingErr)
		}
		pending, pendingErr = nil, nil
	}
	defer flush()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if line.Err != nil {
				return line.Err
			}

			hl, err := binfile.ParseHexLine(line.Text)
			if err != nil {
				slog.Warn("Skipping line", "line", line.Num, "error", err)
				continue
			}
			if len(hl.Data) == 0 {
				continue
			}
			if hl.HasAddr && hl.Addr != next {
				flush()
				next = hl.Addr
			}

			start := next - uint32(len(pending))
			data := append(pending, hl.Data...)
			pending, pendingErr = nil, nil

			lineOpts := opts
			lineOpts.base, lineOpts.baseSet, lineOpts.offset = start, true, 0
			l, decodeErr := disassemble(data, lineOpts)
			if err := writeListing(w, l, lineOpts); err != nil {
				return err
			}

			var te *jrisc.TruncatedError
			switch {
			case errors.As(decodeErr, &te):
				pending = append([]byte(nil), data[te.Addr-start:]...)
				pendingErr = decodeErr
			case decodeErr != nil:
				slog.Warn("Bad line", "line", line.Num, "error", decodeErr)
			}
			next += uint32(len(hl.Data))
		}
	}
}
