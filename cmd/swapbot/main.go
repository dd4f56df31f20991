// Package main is the entry point for the Sui Swap Bot.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	accountDI "github.com/fd1az/sui-swap-bot/business/account/di"
	swapApp "github.com/fd1az/sui-swap-bot/business/swap/app"
	swapDI "github.com/fd1az/sui-swap-bot/business/swap/di"
	"github.com/fd1az/sui-swap-bot/business/swap/infra"
	"github.com/fd1az/sui-swap-bot/internal/apperror"
	"github.com/fd1az/sui-swap-bot/internal/di"
	"github.com/fd1az/sui-swap-bot/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// options holds the persistent flags.
type options struct {
	configPath   string
	accountsPath string
	tui          bool
	cycles       int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(apperror.ExitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "swapbot",
		Short:         "Run flash-swap cycles for every configured Sui account",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSwaps(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flags.StringVar(&opts.accountsPath, "accounts", "", "Path to the accounts JSON file (overrides accounts.file)")
	flags.BoolVar(&opts.tui, "tui", false, "Show run progress in a terminal UI")
	flags.IntVar(&opts.cycles, "cycles", 0, "Cycles per account (overrides swap.cycles)")

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Run flash-swap cycles (default command)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSwaps(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	})
	root.AddCommand(newBalancesCmd(opts))
	root.AddCommand(newClaimCmd(opts))
	root.AddCommand(newVolumeCmd(opts))
	root.AddCommand(newHistoryCmd(opts))
	root.AddCommand(newVersionCmd())

	return root
}

func runSwaps(ctx context.Context, out io.Writer, opts *options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rt, err := bootstrap(ctx, opts, nil)
	if err != nil {
		return err
	}
	defer rt.close()

	var program *tea.Program
	if opts.tui {
		program = tea.NewProgram(ui.New(len(rt.cfg.Swap.Plan), cancel), tea.WithAltScreen())
		di.RegisterToken(rt.mono.Container(), swapDI.ProgressSender, func(di.ServiceRegistry) infra.Sender {
			return program
		})
	}

	if err := rt.start(ctx); err != nil {
		return err
	}

	sr := rt.mono.Services()
	svc := accountDI.GetService(sr)
	orch := swapDI.GetOrchestrator(sr)

	accounts := make([]swapApp.Account, 0, len(svc.Accounts()))
	for _, acct := range svc.Accounts() {
		accounts = append(accounts, acct)
	}

	if program != nil {
		if err := runTUI(ctx, cancel, program, orch, accounts); err != nil {
			return err
		}
		return printAccounts(context.WithoutCancel(ctx), out, rt)
	}

	if err := printAccounts(ctx, out, rt); err != nil {
		return err
	}

	rt.setRunState("running")
	_, err = orch.Run(ctx, accounts)
	rt.setRunState("finished")
	if errors.Is(err, context.Canceled) {
		rt.log.Info(ctx, "run interrupted")
		return nil
	}
	if err != nil {
		return err
	}

	return printAccounts(ctx, out, rt)
}

// runTUI runs the orchestrator in the background while the Bubble Tea
// program owns the terminal. Quitting the program cancels the run.
func runTUI(
	ctx context.Context,
	cancel context.CancelFunc,
	program *tea.Program,
	orch *swapApp.Orchestrator,
	accounts []swapApp.Account,
) error {
	go func() {
		<-ctx.Done()
		program.Quit()
	}()

	errCh := make(chan error, 1)
	go func() {
		_, err := orch.Run(ctx, accounts)
		if err != nil && !errors.Is(err, context.Canceled) {
			program.Send(ui.ErrorMsg{Error: err})
		}
		errCh <- err
	}()

	_, tuiErr := program.Run()
	cancel()
	runErr := <-errCh

	if tuiErr != nil {
		return fmt.Errorf("TUI error: %w", tuiErr)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}
