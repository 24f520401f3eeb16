package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finrestructure/consolidation-service/internal/domain/model"
	"github.com/finrestructure/consolidation-service/internal/domain/valueobject"
)

// ProfileRepo implements port.ProfileRepository on PostgreSQL.
type ProfileRepo struct {
	pool *pgxpool.Pool
}

// NewProfileRepo creates a new PostgreSQL-backed profile repository.
func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// BuildCustomerProfile assembles the profile for one customer. Unknown
// customers yield an empty profile.
func (r *ProfileRepo) BuildCustomerProfile(ctx context.Context, customerID string, requestedTermMonths *int) (model.CustomerProfile, error) {
	cards, err := r.loadCards(ctx, customerID)
	if err != nil {
		return model.CustomerProfile{}, err
	}
	loans, err := r.loadLoans(ctx, customerID)
	if err != nil {
		return model.CustomerProfile{}, err
	}
	history, err := r.loadCreditHistory(ctx, customerID)
	if err != nil {
		return model.CustomerProfile{}, err
	}
	cashflow, err := r.loadCashflow(ctx, customerID)
	if err != nil {
		return model.CustomerProfile{}, err
	}

	return model.NewCustomerProfile(customerID, requestedTermMonths, cards, loans, cashflow, history)
}

func (r *ProfileRepo) loadCards(ctx context.Context, customerID string) ([]model.CardAccount, error) {
	query := `
		SELECT card_id, customer_id, balance, annual_rate_pct,
		       min_payment_pct, payment_due_day, days_past_due
		FROM card_accounts
		WHERE customer_id = $1
		ORDER BY card_id
	`
	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var cards []model.CardAccount
	for rows.Next() {
		var (
			cardID, custID         string
			balance, rate, minPct  decimal.Decimal
			paymentDueDay, daysDPD int
		)
		if err := rows.Scan(&cardID, &custID, &balance, &rate, &minPct, &paymentDueDay, &daysDPD); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		card, err := model.NewCardAccount(cardID, custID, balance, daysDPD, rate, minPct, paymentDueDay)
		if err != nil {
			return nil, fmt.Errorf("load card: %w", err)
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

func (r *ProfileRepo) loadLoans(ctx context.Context, customerID string) ([]model.LoanAccount, error) {
	query := `
		SELECT loan_id, customer_id, principal, annual_rate_pct,
		       remaining_term_months, collateral, days_past_due, product_type
		FROM loan_accounts
		WHERE customer_id = $1
		ORDER BY loan_id
	`
	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var loans []model.LoanAccount
	for rows.Next() {
		var (
			loanID, custID  string
			principal, rate decimal.Decimal
			termMonths, dpd int
			collateral      bool
			productTypeRaw  string
		)
		if err := rows.Scan(&loanID, &custID, &principal, &rate, &termMonths, &collateral, &dpd, &productTypeRaw); err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		loan, err := model.NewLoanAccount(
			loanID, custID, principal, dpd,
			valueobject.ParseProductType(productTypeRaw), rate, termMonths, collateral,
		)
		if err != nil {
			return nil, fmt.Errorf("load loan: %w", err)
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

func (r *ProfileRepo) loadCreditHistory(ctx context.Context, customerID string) ([]model.CreditScoreRecord, error) {
	query := `
		SELECT credit_score, recorded_on
		FROM credit_score_history
		WHERE customer_id = $1
		ORDER BY recorded_on
	`
	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("query credit history: %w", err)
	}
	defer rows.Close()

	var history []model.CreditScoreRecord
	for rows.Next() {
		var record model.CreditScoreRecord
		if err := rows.Scan(&record.Score, &record.RecordedOn); err != nil {
			return nil, fmt.Errorf("scan credit score: %w", err)
		}
		history = append(history, record)
	}
	return history, rows.Err()
}

func (r *ProfileRepo) loadCashflow(ctx context.Context, customerID string) (*model.CashflowSummary, error) {
	query := `
		SELECT monthly_income_avg, income_variability_pct, essential_expenses_avg
		FROM customer_cashflow
		WHERE customer_id = $1
	`
	var summary model.CashflowSummary
	err := r.pool.QueryRow(ctx, query, customerID).Scan(
		&summary.MonthlyIncomeAvg,
		&summary.IncomeVariabilityPct,
		&summary.EssentialExpensesAvg,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query cashflow: %w", err)
	}
	return &summary, nil
}
