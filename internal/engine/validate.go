package engine

import (
	"fmt"

	"github.com/openrevenue/harrier/internal/domain"
)

// validateDataset rejects structurally impossible records before any
// scoring starts. Unknown taxpayer references are tolerated (the
// aggregator skips them), but missing or duplicate TINs, negative
// amounts and filings dated before the taxpayer's registration abort
// the whole run.
func validateDataset(ds *domain.Dataset) error {
	registered := make(map[string]*domain.TaxpayerProfile, len(ds.Taxpayers))
	seenTIN := make(map[string]string, len(ds.Taxpayers))
	for i := range ds.Taxpayers {
		tp := &ds.Taxpayers[i]
		if tp.TIN == "" {
			return fmt.Errorf("%w: taxpayer %s has no TIN", domain.ErrMalformedRecord, tp.ID)
		}
		if other, ok := seenTIN[tp.TIN]; ok {
			return fmt.Errorf("%w: taxpayers %s and %s share TIN %s",
				domain.ErrMalformedRecord, other, tp.ID, tp.TIN)
		}
		seenTIN[tp.TIN] = tp.ID
		registered[tp.ID] = tp
	}

	for i := range ds.Filings {
		f := &ds.Filings[i]
		if f.GrossSalaries < 0 || f.PAYETax < 0 || f.TotalSales < 0 ||
			f.TaxableSales < 0 || f.NetVATPayable < 0 {
			return fmt.Errorf("%w: filing %s for taxpayer %s has a negative amount",
				domain.ErrMalformedRecord, f.ReturnID, f.TaxpayerID)
		}
		if tp, ok := registered[f.TaxpayerID]; ok && f.FilingDate != nil {
			if f.FilingDate.Before(tp.RegistrationDate) {
				return fmt.Errorf("%w: filing %s predates registration of taxpayer %s",
					domain.ErrMalformedRecord, f.ReturnID, f.TaxpayerID)
			}
		}
	}

	for i := range ds.Payments {
		p := &ds.Payments[i]
		if p.Amount < 0 {
			return fmt.Errorf("%w: payment %s for taxpayer %s has a negative amount",
				domain.ErrMalformedRecord, p.PaymentID, p.TaxpayerID)
		}
	}

	return nil
}
