package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var streamChunkSize int

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Redact a stream incrementally",
	Long: `Reads stdin in chunks and emits redacted output as soon as it is safely
clear of the held-back tail, without waiting for the end of input. Tokens
stay consistent across the whole stream: a value seen in an early chunk
keeps its token when it reappears later.`,
	Args: cobra.NoArgs,
	RunE: runStream,
}

func init() {
	streamCmd.Flags().IntVar(&streamChunkSize, "chunk-size", 4096, "bytes read per chunk")
	rootCmd.AddCommand(streamCmd)
}

func runStream(cmd *cobra.Command, _ []string) error {
	if streamChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", streamChunkSize)
	}

	engine, _, err := newEngine("")
	if err != nil {
		return err
	}
	defer engine.Close()

	// Streams can outlive a config edit; pick up allowlist changes live.
	_, store, err := loadSettings()
	if err != nil {
		return err
	}
	stopWatch, err := store.WatchAllowlist(engine.SetAllowlist)
	if err != nil {
		return fmt.Errorf("watching allowlist: %w", err)
	}
	defer stopWatch()

	ctx := context.Background()
	session, err := engine.OpenSession(ctx)
	if err != nil {
		return fmt.Errorf("opening session: %w", err)
	}
	defer session.Close()

	in := cmd.InOrStdin()
	out := cmd.OutOrStdout()
	buf := make([]byte, streamChunkSize)

	for {
		n, readErr := in.Read(buf)
		if n > 0 {
			part, err := session.Feed(ctx, string(buf[:n]))
			if err != nil {
				return fmt.Errorf("feeding chunk: %w", err)
			}
			if _, err := io.WriteString(out, part); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return fmt.Errorf("reading stdin: %w", readErr)
		}
	}

	part, err := session.Flush(ctx)
	if err != nil {
		return fmt.Errorf("flushing session: %w", err)
	}
	if _, err := io.WriteString(out, part); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
