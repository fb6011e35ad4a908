package forecast

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"ledgercast/internal/models"
)

var (
	// ErrUnsupportedMethod is returned for method names that have no
	// backing calculation.
	ErrUnsupportedMethod = errors.New("unsupported projection method")
	// ErrMissingParameter is returned when a method's required
	// parameter is absent from the record.
	ErrMissingParameter = errors.New("missing method parameter")
)

var hundred = decimal.NewFromInt(100)

// Method is a projection calculation. Given a row's baseline value it
// produces the projected value for each month of the record's range,
// in order.
type Method interface {
	Name() models.ProjectionMethod
	Project(baseline decimal.Decimal, months int) []decimal.Decimal
}

// MethodFor resolves a record's method into its calculation. Unknown
// or not-yet-backed method names (seasonal, percentage_of_revenue,
// exponential_smoothing) are rejected rather than guessed.
func MethodFor(rec *models.ProjectionRecord) (Method, error) {
	switch rec.Method {
	case models.MethodGrowthRate:
		if rec.GrowthRate == nil {
			return nil, fmt.Errorf("%w: growth_rate", ErrMissingParameter)
		}
		return growthRate{rate: *rec.GrowthRate}, nil
	case models.MethodFixedAmount:
		if rec.FixedAmount == nil {
			return nil, fmt.Errorf("%w: fixed_amount", ErrMissingParameter)
		}
		return fixedAmount{amount: *rec.FixedAmount}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, rec.Method)
	}
}

// growthRate compounds a monthly percentage rate on the baseline:
// value(k) = baseline * (1 + rate/100)^(k+1) for zero-based month k.
type growthRate struct {
	rate decimal.Decimal
}

func (g growthRate) Name() models.ProjectionMethod { return models.MethodGrowthRate }

func (g growthRate) Project(baseline decimal.Decimal, months int) []decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(g.rate.Div(hundred))
	out := make([]decimal.Decimal, months)
	current := baseline
	for k := 0; k < months; k++ {
		current = current.Mul(factor)
		out[k] = current.Round(2)
	}
	return out
}

// fixedAmount replaces every month in range with a flat amount. The
// baseline is irrelevant.
type fixedAmount struct {
	amount decimal.Decimal
}

func (f fixedAmount) Name() models.ProjectionMethod { return models.MethodFixedAmount }

func (f fixedAmount) Project(_ decimal.Decimal, months int) []decimal.Decimal {
	out := make([]decimal.Decimal, months)
	for k := range out {
		out[k] = f.amount
	}
	return out
}
