package dto

import (
	"time"

	"stockbook/internal/domain/checkpoint"
	"stockbook/internal/domain/ledger"
)

// CheckpointRequest is a candidate stock checkpoint. EffectiveDate uses the
// "2006-01-02" layout; an empty date is passed through so validation can flag
// it as blocking rather than failing at bind time.
type CheckpointRequest struct {
	InitialQuantity int    `json:"initialQuantity"`
	EffectiveDate   string `json:"effectiveDate"`
	MinStock        int    `json:"minStock"`
}

// ToCheckpoint converts the request to a domain candidate. An unparsable
// date maps to the zero time, which validation reports as an error finding.
func (r CheckpointRequest) ToCheckpoint() ledger.StockCheckpoint {
	cp := ledger.StockCheckpoint{
		InitialQuantity: r.InitialQuantity,
		MinStock:        r.MinStock,
	}
	if t, err := time.Parse("2006-01-02", r.EffectiveDate); err == nil {
		cp.EffectiveDate = t
	}
	return cp
}

// CheckpointResponse is a stored checkpoint.
type CheckpointResponse struct {
	InitialQuantity int       `json:"initialQuantity"`
	EffectiveDate   time.Time `json:"effectiveDate"`
	MinStock        int       `json:"minStock"`
	Configured      bool      `json:"configured"`
}

// FromCheckpoint converts a checkpoint to its API shape.
func FromCheckpoint(cp ledger.StockCheckpoint) CheckpointResponse {
	return CheckpointResponse{
		InitialQuantity: cp.InitialQuantity,
		EffectiveDate:   cp.EffectiveDate,
		MinStock:        cp.MinStock,
		Configured:      cp.Configured,
	}
}

// WarningResponse is one validation finding.
type WarningResponse struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// FromWarnings converts validation findings to their API shape.
func FromWarnings(warnings []checkpoint.Warning) []WarningResponse {
	out := make([]WarningResponse, len(warnings))
	for i, w := range warnings {
		out[i] = WarningResponse{Severity: string(w.Severity), Message: w.Message}
	}
	return out
}

// CheckpointSaveResponse accompanies a successful save or a 422 rejection.
type CheckpointSaveResponse struct {
	Saved    bool              `json:"saved"`
	Warnings []WarningResponse `json:"warnings"`
}
