package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	accountDI "github.com/fd1az/sui-swap-bot/business/account/di"
	swapDI "github.com/fd1az/sui-swap-bot/business/swap/di"
	"github.com/fd1az/sui-swap-bot/business/swap/infra/journal"
	"github.com/fd1az/sui-swap-bot/internal/apperror"
	"github.com/fd1az/sui-swap-bot/internal/config"
	"github.com/fd1az/sui-swap-bot/pkg/ui"
)

// newBalancesCmd prints the account table and exits.
func newBalancesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Show balances and the last swap time of every account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := startBot(cmd.Context(), opts, nil)
			if err != nil {
				return err
			}
			defer rt.close()
			return printAccounts(cmd.Context(), cmd.OutOrStdout(), rt)
		},
	}
}

// newClaimCmd collects position yield for every account. Accounts without a
// position are reported and skipped.
func newClaimCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "claim",
		Short: "Claim pending rewards and fees of each account's liquidity position",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			rt, err := startBot(ctx, opts, nil)
			if err != nil {
				return err
			}
			defer rt.close()

			sr := rt.mono.Services()
			claimer := swapDI.GetClaimer(sr)

			var failed int
			for i, acct := range accountDI.GetService(sr).Accounts() {
				res, err := claimer.Claim(ctx, acct)
				switch {
				case err == nil:
					fmt.Fprintf(out, "%d. %s  claimed %s position %s  digest %s\n",
						i+1, acct.Label(), res.Pool, res.Position, res.Digest)
				case apperror.HasCode(err, apperror.CodePositionNotFound):
					fmt.Fprintf(out, "%d. %s  no position\n", i+1, acct.Label())
				case errors.Is(err, context.Canceled):
					return nil
				default:
					failed++
					fmt.Fprintf(out, "%d. %s  FAILED: %v\n", i+1, acct.Label(), err)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d claim(s) failed", failed)
			}
			return nil
		},
	}
}

// newVolumeCmd prints leaderboard volume per account, enabling the
// leaderboard client regardless of config.
func newVolumeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "volume",
		Short: "Show each account's trading volume from the leaderboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			rt, err := startBot(ctx, opts, func(cfg *config.Config) {
				cfg.Leaderboard.Enabled = true
			})
			if err != nil {
				return err
			}
			defer rt.close()

			svc := accountDI.GetService(rt.mono.Services())
			for i, acct := range svc.Accounts() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %-12s %s  %s\n",
					i+1, acct.Label(), acct.Address(), svc.Volume(ctx, acct))
			}
			return nil
		},
	}
}

// newHistoryCmd lists the most recent journaled swaps.
func newHistoryCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent swaps from the local journal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			rt, err := startBot(ctx, opts, func(cfg *config.Config) {
				cfg.Journal.Enabled = true
			})
			if err != nil {
				return err
			}
			defer rt.close()

			store := swapDI.GetJournal(rt.mono.Services())
			if store == nil {
				return fmt.Errorf("journal unavailable at %s", rt.cfg.Journal.Path)
			}
			entries, err := store.Recent(ctx, limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No swaps recorded yet.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), historyTable(entries))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of swaps to list")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "swapbot %s (commit: %s, built: %s)\n", version, commit, buildDate)
		},
	}
}

// startBot bootstraps and starts the modules for one-shot commands.
func startBot(ctx context.Context, opts *options, adjust func(*config.Config)) (*bot, error) {
	cmdOpts := *opts
	cmdOpts.tui = false

	rt, err := bootstrap(ctx, &cmdOpts, adjust)
	if err != nil {
		return nil, err
	}
	if err := rt.start(ctx); err != nil {
		rt.close()
		return nil, err
	}
	return rt, nil
}

// printAccounts writes the account table.
func printAccounts(ctx context.Context, out io.Writer, rt *bot) error {
	svc := accountDI.GetService(rt.mono.Services())

	withVolume := rt.cfg.Leaderboard.Enabled
	snapshots, err := svc.Snapshots(ctx, withVolume)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	symbols := make([]string, 0, len(svc.Assets()))
	for _, a := range svc.Assets() {
		symbols = append(symbols, a.Symbol())
	}

	fmt.Fprintln(out, ui.AccountTable(snapshots, symbols, withVolume))
	return nil
}

func historyTable(entries []journal.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			shortAddress(e.Account),
			strconv.Itoa(e.Cycle) + "." + strconv.Itoa(e.Index),
			e.Pool,
			string(e.Status),
			e.Amount,
			e.Digest + e.Error,
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ui.ColorBorder)).
		Headers("Time", "Account", "Step", "Pool", "Status", "Amount", "Digest / Error").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return ui.TableHeaderStyle
			}
			return ui.TableCellStyle
		}).
		String()
}

func shortAddress(addr string) string {
	if len(addr) <= 14 {
		return addr
	}
	return addr[:8] + "…" + addr[len(addr)-4:]
}
