package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"bank-ledger/config"
	"bank-ledger/internal/core/domain"
	"bank-ledger/internal/core/ports"
	"bank-ledger/internal/service"
	"bank-ledger/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newDemoCommand(configPath *string) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk an in-memory ledger through savings, checking and business scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			log := zerolog.Nop()
			if verbose {
				log = logger.NewWithWriter("debug", os.Stderr)
			}
			return runDemo(cmd.Context(), cmd.OutOrStdout(), cfg.Ledger, log)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log service activity to stderr")

	return cmd
}

// demo narrates operations against a fresh ledger. Rejected operations are
// printed and the narration continues.
type demo struct {
	ctx    context.Context
	out    io.Writer
	ledger *domain.Ledger
	svc    ports.LedgerService
}

func runDemo(ctx context.Context, out io.Writer, cfg config.LedgerConfig, log zerolog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defaults, err := cfg.Defaults()
	if err != nil {
		return fmt.Errorf("ledger defaults: %w", err)
	}
	ledger := domain.NewLedger(cfg.Name, cfg.FirstAccountNumber, defaults)
	d := &demo{
		ctx:    ctx,
		out:    out,
		ledger: ledger,
		svc:    service.NewLedgerService(ledger, nil, nil, nil, nil, 0, log),
	}

	d.section("Bank System")
	d.summary()

	d.section("Creating Accounts")
	alice, err := d.open(ports.OpenAccountRequest{Kind: "savings", Owner: "Alice", OpeningBalance: money("1000"), InterestRate: moneyPtr("0.03")})
	if err != nil {
		return err
	}
	bob, err := d.open(ports.OpenAccountRequest{Kind: "checking", Owner: "Bob", OpeningBalance: money("500"), OverdraftLimit: moneyPtr("1000")})
	if err != nil {
		return err
	}
	charlie, err := d.open(ports.OpenAccountRequest{Kind: "business", Owner: "Charlie", OpeningBalance: money("5000"), BusinessType: "Corporation"})
	if err != nil {
		return err
	}
	if _, err := d.open(ports.OpenAccountRequest{Kind: "crypto", Owner: "Mallory", OpeningBalance: money("1")}); err == nil {
		return fmt.Errorf("unknown account kind was accepted")
	}

	d.section("Savings Account (Alice)")
	d.info(alice)
	d.deposit(alice, "500")
	d.withdraw(alice, "200")
	d.withdraw(alice, "1250")
	d.interest(alice)
	d.transactions(alice)

	d.section("Checking Account (Bob)")
	d.info(bob)
	d.deposit(bob, "300")
	d.withdraw(bob, "800")
	d.withdraw(bob, "200")
	d.withdraw(bob, "900")
	d.transactions(bob)

	d.section("Business Account (Charlie)")
	d.info(charlie)
	d.addEmployee(charlie, "David", "E001")
	d.addEmployee(charlie, "Eve", "E002")
	d.addEmployee(charlie, "Eve", "E002")
	d.fee(charlie)
	d.employees(charlie)
	d.transactions(charlie)

	d.section("Inactive Account")
	if _, err := d.svc.Deactivate(ctx, bob); err != nil {
		return err
	}
	d.printf("Deactivated %s\n", bob)
	d.deposit(bob, "50")
	if _, err := d.svc.Activate(ctx, bob); err != nil {
		return err
	}
	d.printf("Activated %s\n", bob)
	d.deposit(bob, "50")

	d.section("Bank Summary")
	d.summary()
	return nil
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func moneyPtr(s string) *decimal.Decimal {
	v := money(s)
	return &v
}

func (d *demo) printf(format string, args ...interface{}) {
	fmt.Fprintf(d.out, format, args...)
}

func (d *demo) section(title string) {
	d.printf("\n=== %s ===\n", title)
}

func (d *demo) rejected(op string, err error) {
	d.printf("%s rejected: %v\n", op, err)
}

func (d *demo) summary() {
	s, err := d.svc.Summary(d.ctx)
	if err != nil {
		d.rejected("Summary", err)
		return
	}
	d.printf("Bank: %s, Accounts: %d, Active: %d, Total Balance: $%s\n",
		s.Name, s.Accounts, s.ActiveAccounts, s.TotalBalance.StringFixed(2))
}

func (d *demo) open(req ports.OpenAccountRequest) (string, error) {
	snap, err := d.svc.OpenAccount(d.ctx, req)
	if err != nil {
		d.rejected(fmt.Sprintf("Opening %s account for %s", req.Kind, req.Owner), err)
		return "", err
	}
	d.printf("Created %s account %s for %s\n", strings.ToLower(string(snap.Kind)), snap.ID, snap.Owner)
	return snap.ID, nil
}

func (d *demo) info(id string) {
	acct, err := d.ledger.GetAccount(id)
	if err != nil {
		d.rejected("Info", err)
		return
	}
	d.printf("%s\n", acct.Info())
}

func (d *demo) movement(op string, result *ports.MovementResult, err error) {
	if err != nil {
		d.rejected(op, err)
		return
	}
	if !result.Recorded {
		d.printf("%s: nothing to apply. Balance: $%s\n", op, result.Balance.StringFixed(2))
		return
	}
	d.printf("%s $%s (%s). New balance: $%s\n",
		op, result.Amount.StringFixed(2), result.Transaction.Kind, result.Balance.StringFixed(2))
}

func (d *demo) deposit(id, amount string) {
	result, err := d.svc.Deposit(d.ctx, ports.MovementRequest{AccountID: id, Amount: money(amount)})
	d.movement("Deposit", result, err)
}

func (d *demo) withdraw(id, amount string) {
	result, err := d.svc.Withdraw(d.ctx, ports.MovementRequest{AccountID: id, Amount: money(amount)})
	d.movement("Withdrawal of $"+money(amount).StringFixed(2), result, err)
}

func (d *demo) interest(id string) {
	result, err := d.svc.AddInterest(d.ctx, ports.OperationRequest{AccountID: id})
	d.movement("Interest", result, err)
}

func (d *demo) fee(id string) {
	result, err := d.svc.ChargeMonthlyFee(d.ctx, ports.OperationRequest{AccountID: id})
	d.movement("Monthly fee", result, err)
}

func (d *demo) addEmployee(id, name, employeeID string) {
	if _, err := d.svc.AddEmployee(d.ctx, id, domain.Employee{ID: employeeID, Name: name}); err != nil {
		d.rejected("Adding employee "+employeeID, err)
		return
	}
	d.printf("Added employee %s (%s)\n", name, employeeID)
}

func (d *demo) employees(id string) {
	roster, err := d.svc.ListEmployees(d.ctx, id)
	if err != nil {
		d.rejected("Employees", err)
		return
	}
	names := make([]string, 0, len(roster))
	for _, e := range roster {
		names = append(names, fmt.Sprintf("%s (%s)", e.Name, e.ID))
	}
	d.printf("Employees: %s\n", strings.Join(names, ", "))
}

func (d *demo) transactions(id string) {
	txs, err := d.svc.ListTransactions(d.ctx, id)
	if err != nil {
		d.rejected("Transactions", err)
		return
	}
	d.printf("Transactions:\n")
	for _, tx := range txs {
		sign := "+"
		if tx.Kind.IsDebit() {
			sign = "-"
		}
		d.printf("  %d. %-20s %s$%s -> $%s\n",
			tx.Sequence, tx.Kind, sign, tx.Amount.StringFixed(2), tx.ResultingBalance.StringFixed(2))
	}
}
