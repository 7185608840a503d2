// Seed tool that generates a synthetic taxpayer population with known
// fraud patterns baked in, for demos and end-to-end testing.
//
// Usage:
//
//	go run cmd/seed/main.go -taxpayers 500 -years 2 -db ./harrier.db
//
// Roughly 8% of the generated population carries an injected pattern
// (sales collapse, ghost payroll, erratic payments or chronic
// non-filing) so a detection run over the seeded data produces alerts.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/openrevenue/harrier/internal/domain"
	"github.com/openrevenue/harrier/internal/repository"
)

var sectors = []struct {
	name   string
	weight float64
}{
	{"Retail", 0.30},
	{"Wholesale", 0.15},
	{"Construction", 0.12},
	{"Hospitality", 0.10},
	{"Transport", 0.10},
	{"Manufacturing", 0.08},
	{"Services", 0.08},
	{"Agriculture", 0.07},
}

var regions = []string{"Greater Banjul", "West Coast", "North Bank", "Central River", "Upper River", "Lower River"}

var channels = []domain.PaymentChannel{
	domain.ChannelBankTransfer,
	domain.ChannelCash,
	domain.ChannelCheque,
	domain.ChannelMobileMoney,
	domain.ChannelOnline,
}

// fraudPattern marks a taxpayer generated with a known anomaly.
type fraudPattern int

const (
	patternNone fraudPattern = iota
	patternSalesCollapse
	patternGhostPayroll
	patternErraticPayments
	patternChronicNonFiler
)

func main() {
	count := flag.Int("taxpayers", 500, "Number of taxpayers to generate")
	years := flag.Int("years", 2, "Years of filing history")
	dbPath := flag.String("db", "./harrier.db", "SQLite database path")
	seed := flag.Int64("seed", 42, "Random seed (fixed for reproducible datasets)")
	fraudRate := flag.Float64("fraud-rate", 0.08, "Fraction of taxpayers with injected patterns")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	repo, err := repository.New(domain.RepositoryConfig{
		Driver:     "sqlite",
		SQLitePath: *dbPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open repository: %v\n", err)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()
	end := time.Date(time.Now().Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(-*years, 0, 0)

	fmt.Printf("Seeding %d taxpayers with %d years of history into %s\n", *count, *years, *dbPath)

	var taxpayers, filings, payments, flagged int
	for i := 0; i < *count; i++ {
		tp := makeTaxpayer(rng, i, start)
		pattern := patternNone
		if rng.Float64() < *fraudRate {
			pattern = fraudPattern(1 + rng.Intn(4))
			flagged++
		}

		if err := repo.SaveTaxpayer(ctx, tp); err != nil {
			fmt.Fprintf(os.Stderr, "failed to save taxpayer %s: %v\n", tp.ID, err)
			os.Exit(1)
		}
		taxpayers++

		f, p := makeHistory(rng, tp, pattern, start, end)
		for _, filing := range f {
			if err := repo.SaveFiling(ctx, filing); err != nil {
				fmt.Fprintf(os.Stderr, "failed to save filing: %v\n", err)
				os.Exit(1)
			}
			filings++
		}
		for _, payment := range p {
			if err := repo.SavePayment(ctx, payment); err != nil {
				fmt.Fprintf(os.Stderr, "failed to save payment: %v\n", err)
				os.Exit(1)
			}
			payments++
		}
	}

	fmt.Printf("Done: %d taxpayers (%d with injected patterns), %d filings, %d payments\n",
		taxpayers, flagged, filings, payments)
	fmt.Println("Trigger a run with: curl -X POST http://localhost:8080/runs")
}

func makeTaxpayer(rng *rand.Rand, i int, start time.Time) *domain.TaxpayerProfile {
	sector := pickSector(rng)

	// Log-normal turnover centered near 2M, long right tail
	turnover := math.Exp(rng.NormFloat64()*1.4 + math.Log(2_000_000))
	employees := int(math.Exp(rng.NormFloat64()*1.5+math.Log(20))) + 1

	tpType := domain.TaxpayerCorporate
	switch r := rng.Float64(); {
	case r < 0.1:
		tpType = domain.TaxpayerIndividual
	case r < 0.3:
		tpType = domain.TaxpayerPartnership
	}

	return &domain.TaxpayerProfile{
		ID:               fmt.Sprintf("TP-%05d", i+1),
		TIN:              fmt.Sprintf("%03d-%06d-%d", rng.Intn(900)+100, rng.Intn(900000)+100000, rng.Intn(9)+1),
		Name:             fmt.Sprintf("%s Enterprise %d", sector, i+1),
		Type:             tpType,
		RegistrationDate: start.AddDate(-rng.Intn(10), 0, 0),
		Region:           regions[rng.Intn(len(regions))],
		Sector:           sector,
		AnnualTurnover:   math.Round(turnover),
		EmployeeCount:    employees,
	}
}

func pickSector(rng *rand.Rand) string {
	r := rng.Float64()
	acc := 0.0
	for _, s := range sectors {
		acc += s.weight
		if r < acc {
			return s.name
		}
	}
	return sectors[len(sectors)-1].name
}

// makeHistory generates monthly PAYE and quarterly VAT filings plus the
// matching payments over [start, end), with the taxpayer's pattern
// distorting the tail of the series.
func makeHistory(rng *rand.Rand, tp *domain.TaxpayerProfile, pattern fraudPattern, start, end time.Time) ([]*domain.FilingRecord, []*domain.PaymentRecord) {
	var filings []*domain.FilingRecord
	var payments []*domain.PaymentRecord

	complianceRate := 0.75 + rng.Float64()*0.2
	if pattern == patternChronicNonFiler {
		complianceRate = 0.25 + rng.Float64()*0.15
	}

	monthlySalaries := float64(tp.EmployeeCount) * (3000 + rng.Float64()*5000)
	if pattern == patternGhostPayroll {
		// Payroll way out of line with declared turnover
		monthlySalaries = tp.AnnualTurnover * 0.09
	}

	quarterlySales := tp.AnnualTurnover / 4
	channelCount := 1 + rng.Intn(2)
	if pattern == patternErraticPayments {
		channelCount = 4 + rng.Intn(2)
	}
	taxpayerChannels := channels[:channelCount]

	totalMonths := int(end.Sub(start).Hours() / 24 / 30)

	for m := 0; m < totalMonths; m++ {
		periodStart := start.AddDate(0, m, 0)
		due := periodStart.AddDate(0, 1, 15)
		if !due.Before(end) {
			break
		}

		// Monthly PAYE return
		paye := &domain.FilingRecord{
			ReturnID:      uuid.New().String(),
			TaxpayerID:    tp.ID,
			Cadence:       domain.CadenceMonthly,
			PeriodYear:    periodStart.Year(),
			PeriodMonth:   int(periodStart.Month()),
			DueDate:       due,
			Status:        domain.FilingPending,
			GrossSalaries: jitter(rng, monthlySalaries, 0.1),
		}
		paye.PAYETax = paye.GrossSalaries * 0.15

		if rng.Float64() < complianceRate {
			lateDays := 0
			if rng.Float64() < 0.3 {
				lateDays = 1 + rng.Intn(45)
			}
			filed := due.AddDate(0, 0, lateDays-rng.Intn(5))
			paye.FilingDate = &filed
			paye.Status = domain.FilingFiled

			payments = append(payments, &domain.PaymentRecord{
				PaymentID:  uuid.New().String(),
				TaxpayerID: tp.ID,
				Date:       filed.AddDate(0, 0, rng.Intn(10)),
				Channel:    taxpayerChannels[rng.Intn(len(taxpayerChannels))],
				TaxType:    "PAYE",
				PeriodYear: paye.PeriodYear,
				Amount:     paymentAmount(rng, paye.PAYETax, pattern),
				Status:     domain.PaymentCompleted,
			})
		} else {
			paye.Status = domain.FilingOverdue
		}
		filings = append(filings, paye)

		// Quarterly VAT return on quarter boundaries
		if int(periodStart.Month())%3 != 1 {
			continue
		}
		quarter := (int(periodStart.Month())-1)/3 + 1
		sales := jitter(rng, quarterlySales, 0.15)
		if pattern == patternSalesCollapse && m >= totalMonths-6 {
			// Final two quarters collapse to under half the baseline
			sales *= 0.35
		}

		vat := &domain.FilingRecord{
			ReturnID:      uuid.New().String(),
			TaxpayerID:    tp.ID,
			Cadence:       domain.CadenceQuarterly,
			PeriodYear:    periodStart.Year(),
			PeriodQuarter: quarter,
			DueDate:       periodStart.AddDate(0, 3, 28),
			Status:        domain.FilingPending,
			TotalSales:    sales,
			TaxableSales:  sales * 0.9,
			NetVATPayable: sales * 0.9 * 0.15,
		}
		if vat.DueDate.After(end) {
			continue
		}

		if rng.Float64() < complianceRate {
			lateDays := 0
			if rng.Float64() < 0.25 {
				lateDays = 1 + rng.Intn(40)
			}
			filed := vat.DueDate.AddDate(0, 0, lateDays-rng.Intn(5))
			vat.FilingDate = &filed
			vat.Status = domain.FilingFiled

			payments = append(payments, &domain.PaymentRecord{
				PaymentID:  uuid.New().String(),
				TaxpayerID: tp.ID,
				Date:       filed.AddDate(0, 0, rng.Intn(15)),
				Channel:    taxpayerChannels[rng.Intn(len(taxpayerChannels))],
				TaxType:    "VAT",
				PeriodYear: vat.PeriodYear,
				Amount:     paymentAmount(rng, vat.NetVATPayable, pattern),
				Status:     domain.PaymentCompleted,
			})
		} else {
			vat.Status = domain.FilingOverdue
		}
		filings = append(filings, vat)
	}

	return filings, payments
}

func jitter(rng *rand.Rand, base, spread float64) float64 {
	return math.Round(base * (1 + (rng.Float64()*2-1)*spread))
}

func paymentAmount(rng *rand.Rand, assessed float64, pattern fraudPattern) float64 {
	if pattern == patternErraticPayments && rng.Float64() < 0.2 {
		// Occasional outsized lump keeps the series variance high
		return math.Round(assessed * (5 + rng.Float64()*10))
	}
	return math.Round(assessed * (0.8 + rng.Float64()*0.4))
}
