package cli

import (
	"context"
	"fmt"
	"strconv"

	app "leadcredit/internal"
	"leadcredit/internal/util"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(buyerCmd, leadCmd, rechargeCmd, adjustCmd, balanceCmd, verifyCmd)
	buyerCmd.AddCommand(buyerCreateCmd)
	leadCmd.AddCommand(leadCreateCmd, leadHideCmd, leadShowCmd)

	buyerCreateCmd.Flags().String("id", "", "Buyer id issued by the identity provider")
	buyerCreateCmd.Flags().String("email", "", "Notification email")
	buyerCreateCmd.Flags().String("company", "", "Company display name")
	_ = buyerCreateCmd.MarkFlagRequired("id")
	_ = buyerCreateCmd.MarkFlagRequired("email")

	leadCreateCmd.Flags().String("title", "", "Lead title")
	leadCreateCmd.Flags().String("value", "", "Project value")
	leadCreateCmd.Flags().Int("max-shared", 4, "Maximum shared allocations, 0 for exclusive-only")
	_ = leadCreateCmd.MarkFlagRequired("title")
	_ = leadCreateCmd.MarkFlagRequired("value")

	rechargeCmd.Flags().String("description", "", "Free text stored on the entry")
	adjustCmd.Flags().String("description", "", "Reason for the correction")
	_ = adjustCmd.MarkFlagRequired("description")
}

var buyerCmd = &cobra.Command{
	Use:   "buyer",
	Short: "Manage buyers",
}

var buyerCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a buyer and its empty wallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("id")
		email, _ := cmd.Flags().GetString("email")
		company, _ := cmd.Flags().GetString("company")

		return withApp(cmd, func(ctx context.Context, a *app.Application) error {
			buyer, wallet, err := a.WalletService.CreateBuyerAndWallet(ctx, id, email, optional(company))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{"buyer": buyer, "wallet": wallet})
		})
	},
}

var leadCmd = &cobra.Command{
	Use:   "lead",
	Short: "Manage leads",
}

var leadCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a lead",
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		raw, _ := cmd.Flags().GetString("value")
		maxShared, _ := cmd.Flags().GetInt("max-shared")

		value, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("invalid project value %q", raw)
		}
		return withApp(cmd, func(ctx context.Context, a *app.Application) error {
			lead, err := a.LeadService.CreateLead(ctx, title, value, maxShared)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), lead)
		})
	},
}

var leadHideCmd = &cobra.Command{
	Use:   "hide LEAD_ID",
	Short: "Take a lead off the board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setHidden(cmd, args[0], true)
	},
}

var leadShowCmd = &cobra.Command{
	Use:   "show LEAD_ID",
	Short: "Publish a hidden lead again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setHidden(cmd, args[0], false)
	},
}

func setHidden(cmd *cobra.Command, rawID string, hidden bool) error {
	leadID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || leadID <= 0 {
		return fmt.Errorf("invalid lead id %q", rawID)
	}
	return withApp(cmd, func(ctx context.Context, a *app.Application) error {
		lead, err := a.LeadService.SetHidden(ctx, leadID, hidden)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), lead)
	})
}

var rechargeCmd = &cobra.Command{
	Use:   "recharge OWNER_ID AMOUNT",
	Short: "Credit a wallet",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		description, _ := cmd.Flags().GetString("description")
		return withApp(cmd, func(ctx context.Context, a *app.Application) error {
			wallet, entry, err := a.WalletService.Recharge(ctx, args[0], amount, optional(description))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{"wallet": wallet, "entry": entry})
		})
	},
}

var adjustCmd = &cobra.Command{
	Use:   "adjust OWNER_ID AMOUNT",
	Short: "Apply a signed correction to a wallet",
	Example: `  leadctl adjust acme -5 --description "duplicate recharge"`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		description, _ := cmd.Flags().GetString("description")
		return withApp(cmd, func(ctx context.Context, a *app.Application) error {
			wallet, entry, err := a.WalletService.Adjust(ctx, args[0], amount, optional(description))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{"wallet": wallet, "entry": entry})
		})
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance OWNER_ID",
	Short: "Print a wallet balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.Application) error {
			wallet, err := a.WalletService.GetBalance(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), wallet)
		})
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify OWNER_ID",
	Short: "Replay a wallet's ledger against its balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.Application) error {
			report, err := a.WalletService.VerifyLedger(ctx, args[0])
			if report != nil {
				if perr := printJSON(cmd.OutOrStdout(), report); perr != nil {
					return perr
				}
			}
			return err
		})
	},
}

func parseAmount(raw string) (int64, error) {
	amount, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", raw, util.ErrInvalidInput)
	}
	return amount, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
