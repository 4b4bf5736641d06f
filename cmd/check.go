package cmd

import (
	"fmt"

	"github.com/harlequix/hamrelay/internal/encoding"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the Hamming code for the configured block size",
	Long: `check encodes every possible data block of the configured size, then
decodes it clean and with each single bit flipped, and fails if any
decode does not return the original block.`,
	Args: cobra.NoArgs,
	RunE: check,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func check(cmd *cobra.Command, args []string) error {
	m := viper.GetInt("BlockSize")
	verified, err := encoding.SelfCheck(m)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ok: %d data bits, %d code bits, %d decodes verified\n", m, encoding.CodeLen(m), verified)
	return nil
}
