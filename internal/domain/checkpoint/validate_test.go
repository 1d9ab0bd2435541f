package checkpoint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/core/id"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/ledger"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func saleOn(date string, qty int) ledger.SaleEvent {
	return ledger.SaleEvent{
		ID:        id.New(),
		Product:   "Widget",
		Category:  "Tools",
		Date:      day(date),
		Quantity:  qty,
		UnitPrice: types.MustMoney("1.00"),
		Total:     types.MustMoney("1.00"),
		CreatedAt: time.Now().UTC(),
	}
}

func severities(warnings []Warning) []Severity {
	out := make([]Severity, len(warnings))
	for i, w := range warnings {
		out[i] = w.Severity
	}
	return out
}

func TestValidate_MissingDateBlocksEverythingElse(t *testing.T) {
	warnings := Validate(ledger.StockCheckpoint{InitialQuantity: -5}, nil)

	require.Len(t, warnings, 1, "date-dependent checks are skipped without a date")
	assert.Equal(t, SeverityError, warnings[0].Severity)
}

func TestValidate_NegativeQuantities(t *testing.T) {
	cp := ledger.StockCheckpoint{
		InitialQuantity: -1,
		MinStock:        -2,
		EffectiveDate:   day("2024-06-01"),
	}

	warnings := Validate(cp, nil)

	assert.Contains(t, severities(warnings), SeverityError)
	assert.True(t, HasBlocking(warnings))

	var errorCount int
	for _, w := range warnings {
		if w.Severity == SeverityError {
			errorCount++
		}
	}
	assert.Equal(t, 2, errorCount)
}

func TestValidate_SalesBeforeEffectiveDateWarn(t *testing.T) {
	cp := ledger.StockCheckpoint{InitialQuantity: 10, EffectiveDate: day("2024-06-01")}
	events := []ledger.SaleEvent{
		saleOn("2024-05-10", 1),
		saleOn("2024-05-20", 2),
		saleOn("2024-06-05", 3),
	}

	warnings := Validate(cp, events)

	require.Len(t, warnings, 1)
	assert.Equal(t, SeverityWarning, warnings[0].Severity)
	assert.Contains(t, warnings[0].Message, "2 sale(s)")
	assert.False(t, HasBlocking(warnings))
}

func TestValidate_ProjectedNegativeStockWarns(t *testing.T) {
	cp := ledger.StockCheckpoint{InitialQuantity: 5, EffectiveDate: day("2024-06-01")}
	events := []ledger.SaleEvent{
		saleOn("2024-06-05", 8),
	}

	warnings := Validate(cp, events)

	require.Len(t, warnings, 1)
	assert.Equal(t, SeverityWarning, warnings[0].Severity)
	assert.False(t, HasBlocking(warnings), "warnings never block a save")
}

func TestValidate_NoEventsIsInformational(t *testing.T) {
	cp := ledger.StockCheckpoint{InitialQuantity: 5, EffectiveDate: day("2024-06-01")}

	warnings := Validate(cp, nil)

	require.Len(t, warnings, 1)
	assert.Equal(t, SeverityInfo, warnings[0].Severity)
}

func TestValidate_CleanCandidate(t *testing.T) {
	cp := ledger.StockCheckpoint{InitialQuantity: 50, EffectiveDate: day("2024-06-01")}
	events := []ledger.SaleEvent{
		saleOn("2024-06-05", 3),
	}

	warnings := Validate(cp, events)

	assert.Empty(t, warnings)
}

func TestFirstBlocking(t *testing.T) {
	warnings := []Warning{
		{Severity: SeverityWarning, Message: "w"},
		{Severity: SeverityError, Message: "first"},
		{Severity: SeverityError, Message: "second"},
	}

	assert.Equal(t, "first", FirstBlocking(warnings))
	assert.Equal(t, "", FirstBlocking(nil))
}
