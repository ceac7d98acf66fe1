package service

import (
	"fmt"
	"math"

	"github.com/pimentellima/mockdata-server/internal/config"
	apperrors "github.com/pimentellima/mockdata-server/internal/errors"
	"github.com/pimentellima/mockdata-server/internal/model"
)

// CreditPolicy prices generation requests. It is pure: the only inputs are
// the request and a balance snapshot, and the gate is re-checked at debit
// time inside the commit transaction.
type CreditPolicy struct {
	itemsPerCredit int
}

func NewCreditPolicy(itemsPerCredit int) *CreditPolicy {
	return &CreditPolicy{itemsPerCredit: itemsPerCredit}
}

// Cost returns the price of the request in millicredits, rounded half up.
// One credit buys itemsPerCredit generated records across all specs.
func (p *CreditPolicy) Cost(req model.GenerationRequest) int64 {
	total := int64(req.TotalCount())
	ipc := int64(p.itemsPerCredit)
	return (total*config.CreditScale + ipc/2) / ipc
}

// Authorize fails with InsufficientCredits when the balance snapshot does not
// cover the request; otherwise it returns the computed cost for the caller to
// commit later. A non-positive cost means the request counts wrapped the
// arithmetic and is never authorized.
func (p *CreditPolicy) Authorize(balanceMilli int64, req model.GenerationRequest) (int64, error) {
	cost := p.Cost(req)
	if cost <= 0 {
		return 0, apperrors.InvalidInput("count", "request size is out of range")
	}
	if cost > balanceMilli {
		return 0, apperrors.InsufficientCredits()
	}
	return cost, nil
}

// CreditsDisplay converts millicredits to the float the HTTP boundary shows.
func CreditsDisplay(milli int64) float64 {
	return float64(milli) / config.CreditScale
}

// FormatCredits renders a balance the way the account UI shows it: two
// decimals below one credit, whole credits above.
func FormatCredits(milli int64) string {
	credits := CreditsDisplay(milli)
	if credits < 1 {
		return fmt.Sprintf("%.2f", credits)
	}
	return fmt.Sprintf("%.0f", math.Floor(credits))
}
