package flatfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/finrestructure/consolidation-service/internal/domain/model"
	"github.com/finrestructure/consolidation-service/internal/domain/valueobject"
)

// Source file names inside the data directory.
const (
	offersFile    = "bank_offers.json"
	cardsFile     = "cards.csv"
	loansFile     = "loans.csv"
	scoresFile    = "credit_score_history.csv"
	cashflowsFile = "customer_cashflow.csv"
)

// Repository loads the full flat-file dataset eagerly at construction and
// serves reads from memory. Malformed source records are construction
// errors; an unknown customer at query time yields an empty profile.
type Repository struct {
	offers    []model.Offer
	cards     map[string][]model.CardAccount
	loans     map[string][]model.LoanAccount
	scores    map[string][]model.CreditScoreRecord
	cashflows map[string]model.CashflowSummary
}

// NewRepository reads every source file under dataDir and validates all
// records.
func NewRepository(dataDir string) (*Repository, error) {
	if info, err := os.Stat(dataDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("data directory not found: %s", dataDir)
	}

	repo := &Repository{
		cards:     make(map[string][]model.CardAccount),
		loans:     make(map[string][]model.LoanAccount),
		scores:    make(map[string][]model.CreditScoreRecord),
		cashflows: make(map[string]model.CashflowSummary),
	}

	if err := repo.loadOffers(filepath.Join(dataDir, offersFile)); err != nil {
		return nil, err
	}
	if err := repo.loadCards(filepath.Join(dataDir, cardsFile)); err != nil {
		return nil, err
	}
	if err := repo.loadLoans(filepath.Join(dataDir, loansFile)); err != nil {
		return nil, err
	}
	if err := repo.loadScores(filepath.Join(dataDir, scoresFile)); err != nil {
		return nil, err
	}
	if err := repo.loadCashflows(filepath.Join(dataDir, cashflowsFile)); err != nil {
		return nil, err
	}

	return repo, nil
}

// Offers returns a copy of the offer catalog.
func (r *Repository) Offers(_ context.Context) ([]model.Offer, error) {
	offers := make([]model.Offer, len(r.offers))
	copy(offers, r.offers)
	return offers, nil
}

// BuildCustomerProfile assembles the profile for one customer from the
// loaded dataset.
func (r *Repository) BuildCustomerProfile(_ context.Context, customerID string, requestedTermMonths *int) (model.CustomerProfile, error) {
	var cashflow *model.CashflowSummary
	if cf, ok := r.cashflows[customerID]; ok {
		copied := cf
		cashflow = &copied
	}
	return model.NewCustomerProfile(
		customerID,
		requestedTermMonths,
		r.cards[customerID],
		r.loans[customerID],
		cashflow,
		r.scores[customerID],
	)
}

type rawOffer struct {
	OfferID                string          `json:"offer_id"`
	ProductTypesEligible   []string        `json:"product_types_eligible"`
	MaxConsolidatedBalance decimal.Decimal `json:"max_consolidated_balance"`
	NewRatePct             decimal.Decimal `json:"new_rate_pct"`
	MaxTermMonths          int             `json:"max_term_months"`
	Conditions             string          `json:"conditions"`
}

func (r *Repository) loadOffers(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read offers: %w", err)
	}

	var rawOffers []rawOffer
	if err := json.Unmarshal(raw, &rawOffers); err != nil {
		return fmt.Errorf("decode offers: %w", err)
	}

	offers := make([]model.Offer, 0, len(rawOffers))
	for _, ro := range rawOffers {
		types := make([]valueobject.ProductType, 0, len(ro.ProductTypesEligible))
		for _, rawType := range ro.ProductTypesEligible {
			pt := valueobject.ParseProductType(rawType)
			if pt.Equal(valueobject.ProductTypeOther) {
				return fmt.Errorf("offer %s has unsupported product type %q", ro.OfferID, rawType)
			}
			types = append(types, pt)
		}
		offer, err := model.NewOffer(
			ro.OfferID, types,
			ro.MaxConsolidatedBalance, ro.NewRatePct, ro.MaxTermMonths,
			ro.Conditions,
		)
		if err != nil {
			return fmt.Errorf("decode offers: %w", err)
		}
		offers = append(offers, offer)
	}

	r.offers = offers
	return nil
}

func (r *Repository) loadCards(path string) error {
	return readCSV(path, func(row map[string]string) error {
		balance, err := parseDecimal(row, "balance")
		if err != nil {
			return err
		}
		annualRate, err := parseDecimal(row, "annual_rate_pct")
		if err != nil {
			return err
		}
		minPct, err := parseDecimal(row, "min_payment_pct")
		if err != nil {
			return err
		}
		dueDay, err := parseInt(row, "payment_due_day")
		if err != nil {
			return err
		}
		dpd, err := parseInt(row, "days_past_due")
		if err != nil {
			return err
		}

		card, err := model.NewCardAccount(
			row["card_id"], row["customer_id"],
			balance, dpd, annualRate, minPct, dueDay,
		)
		if err != nil {
			return err
		}
		r.cards[card.CustomerID] = append(r.cards[card.CustomerID], card)
		return nil
	})
}

func (r *Repository) loadLoans(path string) error {
	return readCSV(path, func(row map[string]string) error {
		principal, err := parseDecimal(row, "principal")
		if err != nil {
			return err
		}
		annualRate, err := parseDecimal(row, "annual_rate_pct")
		if err != nil {
			return err
		}
		term, err := parseInt(row, "remaining_term_months")
		if err != nil {
			return err
		}
		dpd, err := parseInt(row, "days_past_due")
		if err != nil {
			return err
		}

		rawType := row["product_type"]
		if rawType == "" {
			rawType = "loan"
		}
		productType := valueobject.ParseProductType(rawType)
		collateral := parseBool(row["collateral"])

		loan, err := model.NewLoanAccount(
			row["loan_id"], row["customer_id"],
			principal, dpd, productType, annualRate, term, collateral,
		)
		if err != nil {
			return err
		}
		r.loans[loan.CustomerID] = append(r.loans[loan.CustomerID], loan)
		return nil
	})
}

func (r *Repository) loadScores(path string) error {
	err := readCSV(path, func(row map[string]string) error {
		score, err := parseInt(row, "credit_score")
		if err != nil {
			return err
		}
		recordedOn, err := time.Parse(time.DateOnly, row["date"])
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", row["date"], err)
		}

		customerID := row["customer_id"]
		r.scores[customerID] = append(r.scores[customerID], model.CreditScoreRecord{
			Score:      score,
			RecordedOn: recordedOn,
		})
		return nil
	})
	if err != nil {
		return err
	}

	for _, records := range r.scores {
		sort.Slice(records, func(i, j int) bool {
			return records[i].RecordedOn.Before(records[j].RecordedOn)
		})
	}
	return nil
}

func (r *Repository) loadCashflows(path string) error {
	return readCSV(path, func(row map[string]string) error {
		income, err := parseDecimal(row, "monthly_income_avg")
		if err != nil {
			return err
		}
		variability, err := parseDecimal(row, "income_variability_pct")
		if err != nil {
			return err
		}
		expenses, err := parseDecimal(row, "essential_expenses_avg")
		if err != nil {
			return err
		}

		r.cashflows[row["customer_id"]] = model.CashflowSummary{
			MonthlyIncomeAvg:     income,
			IncomeVariabilityPct: variability,
			EssentialExpensesAvg: expenses,
		}
		return nil
	})
}

// readCSV streams header-keyed rows to fn, trimming whitespace and skipping
// fully blank lines.
func readCSV(path string, fn func(row map[string]string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read %s header: %w", filepath.Base(path), err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}

		row := make(map[string]string, len(header))
		blank := true
		for i, name := range header {
			if i >= len(record) {
				break
			}
			value := strings.TrimSpace(record[i])
			if value != "" {
				blank = false
			}
			row[name] = value
		}
		if blank {
			continue
		}
		if err := fn(row); err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
	}
}

func parseDecimal(row map[string]string, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(row[field])
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid %s value %q", field, row[field])
	}
	return d, nil
}

func parseInt(row map[string]string, field string) (int, error) {
	i, err := strconv.Atoi(row[field])
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", field, row[field])
	}
	return i, nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
