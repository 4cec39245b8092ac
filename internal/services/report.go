package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hivetax/hivetax-platform/internal/errors"
	"github.com/hivetax/hivetax-platform/internal/models"
	repository "github.com/hivetax/hivetax-platform/internal/repositories"
	"github.com/shopspring/decimal"
)

// ReportService renders the downloadable plain-text statements. Money sums
// are accumulated as decimals so a long month of transactions never drifts.
type ReportService interface {
	BuyerMonthlyReport(ctx context.Context, buyerID uuid.UUID, month time.Time) (string, error)
	SellerTaxSummary(ctx context.Context, sellerID uuid.UUID, month time.Time) (string, error)
	ComplianceSummary(ctx context.Context, month time.Time) (string, error)
}

type reportService struct {
	txRepo   repository.TransactionRepository
	userRepo repository.UserRepository
}

func NewReportService(txRepo repository.TransactionRepository, userRepo repository.UserRepository) ReportService {
	return &reportService{txRepo: txRepo, userRepo: userRepo}
}

func monthBounds(month time.Time) (time.Time, time.Time) {
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func sumTransactions(transactions []*models.Transaction) (spent, vat decimal.Decimal) {
	for _, tx := range transactions {
		spent = spent.Add(decimal.NewFromFloat(tx.Total))
		vat = vat.Add(decimal.NewFromFloat(tx.VATAmount))
	}
	return spent, vat
}

// BuyerMonthlyReport implements ReportService.
func (s *reportService) BuyerMonthlyReport(ctx context.Context, buyerID uuid.UUID, month time.Time) (string, error) {

	from, to := monthBounds(month)

	transactions, err := s.txRepo.ListByBuyerBetween(ctx, buyerID, from, to)
	if err != nil {
		return "", errors.DatabaseError("Failed to fetch buyer transactions").WithError(err)
	}

	buyer, err := s.userRepo.GetUserByID(ctx, buyerID)
	if err != nil {
		return "", errors.NotFoundError("Buyer not found").WithError(err)
	}

	spent, vat := sumTransactions(transactions)

	var b strings.Builder

	fmt.Fprintf(&b, "HIVE.TAX BUYER MONTHLY REPORT\n")
	fmt.Fprintf(&b, "=============================\n\n")
	fmt.Fprintf(&b, "Buyer: %s\n", buyer.Name)
	fmt.Fprintf(&b, "Period: %s\n", from.Format("January 2006"))
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().UTC().Format("2006-01-02 15:04 MST"))

	fmt.Fprintf(&b, "SUMMARY\n")
	fmt.Fprintf(&b, "-------\n")
	fmt.Fprintf(&b, "Total Transactions: %d\n", len(transactions))
	fmt.Fprintf(&b, "Total Spent: ZMW %s\n", spent.StringFixed(2))
	fmt.Fprintf(&b, "Total VAT Contributed: ZMW %s\n\n", vat.StringFixed(2))

	fmt.Fprintf(&b, "TRANSACTION HISTORY\n")
	fmt.Fprintf(&b, "-------------------\n")

	if len(transactions) == 0 {
		fmt.Fprintf(&b, "No transactions recorded for this period.\n")
	}

	for _, tx := range transactions {
		fmt.Fprintf(&b, "\n%s | %s\n", tx.Code, tx.CreatedAt.Format("2006-01-02"))

		for _, item := range tx.Items {
			fmt.Fprintf(&b, "  %s x%d @ ZMW %.2f (VAT %.2f)\n",
				item.ProductName, item.Quantity, item.UnitPrice, item.VATAmount)
		}

		fmt.Fprintf(&b, "  Total: ZMW %.2f (VAT ZMW %.2f)\n", tx.Total, tx.VATAmount)
	}

	fmt.Fprintf(&b, "\n=============================\n")
	fmt.Fprintf(&b, "Every purchase you make contributes to Zambia's development.\n")

	return b.String(), nil
}

// SellerTaxSummary implements ReportService.
func (s *reportService) SellerTaxSummary(ctx context.Context, sellerID uuid.UUID, month time.Time) (string, error) {

	from, to := monthBounds(month)

	transactions, err := s.txRepo.ListBySellerBetween(ctx, sellerID, from, to)
	if err != nil {
		return "", errors.DatabaseError("Failed to fetch seller transactions").WithError(err)
	}

	seller, err := s.userRepo.GetUserByID(ctx, sellerID)
	if err != nil {
		return "", errors.NotFoundError("Seller not found").WithError(err)
	}

	var sales, vatDue decimal.Decimal
	var settled, pending int

	bands := make(map[float64]decimal.Decimal)

	for _, tx := range transactions {
		if tx.Status != models.TransactionCompleted {
			pending++
			continue
		}

		settled++
		sales = sales.Add(decimal.NewFromFloat(tx.Total))
		vatDue = vatDue.Add(decimal.NewFromFloat(tx.VATAmount))

		for _, item := range tx.Items {
			lineVAT := decimal.NewFromFloat(item.UnitPrice).
				Mul(decimal.NewFromInt(int64(item.Quantity))).
				Mul(decimal.NewFromFloat(item.VATRate)).
				Div(decimal.NewFromInt(100))
			bands[item.VATRate] = bands[item.VATRate].Add(lineVAT)
		}
	}

	rates := make([]float64, 0, len(bands))
	for rate := range bands {
		rates = append(rates, rate)
	}
	sort.Float64s(rates)

	var b strings.Builder

	fmt.Fprintf(&b, "HIVE.TAX SELLER TAX SUMMARY\n")
	fmt.Fprintf(&b, "===========================\n\n")
	fmt.Fprintf(&b, "Seller: %s\n", seller.Name)
	fmt.Fprintf(&b, "Period: %s\n", from.Format("January 2006"))
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().UTC().Format("2006-01-02 15:04 MST"))

	fmt.Fprintf(&b, "Settled Transactions: %d\n", settled)
	fmt.Fprintf(&b, "Pending Transactions: %d\n", pending)
	fmt.Fprintf(&b, "Gross Sales (settled): ZMW %s\n", sales.StringFixed(2))
	fmt.Fprintf(&b, "VAT Collected: ZMW %s\n\n", vatDue.StringFixed(2))

	if len(rates) > 0 {
		fmt.Fprintf(&b, "VAT BY RATE BAND\n")
		fmt.Fprintf(&b, "----------------\n")

		for _, rate := range rates {
			fmt.Fprintf(&b, "%.0f%%: ZMW %s\n", rate, bands[rate].StringFixed(2))
		}

		fmt.Fprintf(&b, "\n")
	}

	fmt.Fprintf(&b, "VAT collected is due to the Zambia Revenue Authority by the\n")
	fmt.Fprintf(&b, "18th of the following month.\n")

	return b.String(), nil
}

// ComplianceSummary implements ReportService.
func (s *reportService) ComplianceSummary(ctx context.Context, month time.Time) (string, error) {

	from, to := monthBounds(month)

	transactions, err := s.txRepo.ListCompletedBetween(ctx, from, to)
	if err != nil {
		return "", errors.DatabaseError("Failed to fetch settled transactions").WithError(err)
	}

	volume, vat := sumTransactions(transactions)

	type sellerTotals struct {
		name   string
		count  int
		volume decimal.Decimal
		vat    decimal.Decimal
	}

	sellers := make(map[uuid.UUID]*sellerTotals)

	for _, tx := range transactions {
		row, ok := sellers[tx.SellerID]
		if !ok {
			name := tx.SellerID.String()
			if seller, err := s.userRepo.GetUserByID(ctx, tx.SellerID); err == nil {
				name = seller.Name
			}

			row = &sellerTotals{name: name}
			sellers[tx.SellerID] = row
		}

		row.count++
		row.volume = row.volume.Add(decimal.NewFromFloat(tx.Total))
		row.vat = row.vat.Add(decimal.NewFromFloat(tx.VATAmount))
	}

	rows := make([]*sellerTotals, 0, len(sellers))
	for _, row := range sellers {
		rows = append(rows, row)
	}

	// Highest VAT contribution first.
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].vat.GreaterThan(rows[j].vat)
	})

	var b strings.Builder

	fmt.Fprintf(&b, "ZRA COMPLIANCE REPORT\n")
	fmt.Fprintf(&b, "=====================\n\n")
	fmt.Fprintf(&b, "Period: %s\n", from.Format("January 2006"))
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().UTC().Format("2006-01-02 15:04 MST"))

	fmt.Fprintf(&b, "Settled Transactions: %d\n", len(transactions))
	fmt.Fprintf(&b, "Active Sellers: %d\n", len(sellers))
	fmt.Fprintf(&b, "Transaction Volume: ZMW %s\n", volume.StringFixed(2))
	fmt.Fprintf(&b, "VAT Captured: ZMW %s\n", vat.StringFixed(2))

	if len(rows) > 0 {
		fmt.Fprintf(&b, "\nSELLER BREAKDOWN\n")
		fmt.Fprintf(&b, "----------------\n")

		for _, row := range rows {
			fmt.Fprintf(&b, "%s: %d transactions, ZMW %s (VAT ZMW %s)\n",
				row.name, row.count, row.volume.StringFixed(2), row.vat.StringFixed(2))
		}
	}

	return b.String(), nil
}
