package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/harlequix/hamrelay/internal/stream"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <class> [payload]",
	Short: "Transmit one payload through a traffic class",
	Long: `send runs a single payload through the channel of the given class and
forwards it to the class's backend if it survives. Without a payload
argument the payload is read from stdin. The payload must already be in
the configured payload format.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: send,
}

var showStream bool

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().BoolVar(&showStream, "show-stream", false, "print the encoded bit stream")
}

func send(cmd *cobra.Command, args []string) error {
	r, config, err := newRelay()
	if err != nil {
		return err
	}
	var payload []byte
	if len(args) == 2 {
		payload = []byte(args[1])
	} else {
		payload, err = io.ReadAll(os.Stdin)
		if err != nil {
			return err
		}
	}
	out := cmd.OutOrStdout()
	if showStream {
		bits, err := stream.NewEncoder(config.BlockSize).EncodeString(payload)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, bits)
	}

	result, err := r.Transmit(cmd.Context(), args[0], payload)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "outcome:   %s\n", result.Outcome)
	if result.Corrupted() {
		fmt.Fprintf(out, "flipped:   bit %d\n", result.FlippedBit)
	}
	if len(result.Corrected) > 0 {
		fmt.Fprintf(out, "corrected: blocks %v\n", result.Corrected)
	}
	if result.Err != nil {
		fmt.Fprintf(out, "error:     %v\n", result.Err)
	}
	if result.Document != nil {
		doc, err := json.Marshal(result.Document)
		if err != nil {
			// msgpack and cbor can decode maps json cannot encode
			doc = []byte(fmt.Sprintf("%v", result.Document))
		}
		fmt.Fprintf(out, "document:  %s\n", doc)
	}
	return nil
}
