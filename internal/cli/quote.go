package cli

import (
	"fmt"

	"leadcredit/internal/domain"
	"leadcredit/internal/pricing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().String("value", "", "Project value of the lead")
	quoteCmd.Flags().Int("level", 4, "Competition level, 1 (tightest) to 4")
	quoteCmd.Flags().Bool("exclusive", false, "Price an exclusive allocation")
	_ = quoteCmd.MarkFlagRequired("value")
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price an allocation without buying it",
	Example: `  leadctl quote --value 39000 --level 2
  leadctl quote --value 120000 --exclusive`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("value")
		level, _ := cmd.Flags().GetInt("level")
		exclusive, _ := cmd.Flags().GetBool("exclusive")

		value, err := decimal.NewFromString(raw)
		if err != nil || value.IsNegative() {
			return fmt.Errorf("invalid project value %q", raw)
		}
		if exclusive {
			level = domain.ExclusiveLevel
		}

		base := pricing.BasePrice(value)
		extra, err := pricing.AdditionalPrice(level, exclusive)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d base + %d competition = %d credits\n",
			pricing.Describe(level, exclusive), base, extra, base+extra)
		return nil
	},
}
