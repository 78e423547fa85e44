package handler

import (
	"time"

	"pinguard/internal/pinpolicy/service"
)

// StrengthResponse is the verdict for one PIN.
type StrengthResponse struct {
	Subject     string    `json:"subject,omitempty"`
	Strength    string    `json:"strength"`
	Reasons     []string  `json:"reasons"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// BatchResponse carries one result per request item, in request order.
type BatchResponse struct {
	Results []StrengthResponse `json:"results"`
}

// PolicyResponse describes the active rules.
type PolicyResponse struct {
	AcceptedLengths []int    `json:"accepted_lengths"`
	MaxSequenceStep int      `json:"max_sequence_step"`
	ReasonCodes     []string `json:"reason_codes"`
	BatchMaxItems   int      `json:"batch_max_items"`
}

func FromResult(subject string, result *service.CheckResult) StrengthResponse {
	return StrengthResponse{
		Subject:     subject,
		Strength:    result.Verdict.Strength.String(),
		Reasons:     result.Verdict.ReasonCodes(),
		EvaluatedAt: result.EvaluatedAt,
	}
}

func FromBatch(items []CheckStrengthRequest, results []*service.CheckResult) BatchResponse {
	resp := BatchResponse{Results: make([]StrengthResponse, len(results))}
	for i, result := range results {
		subject := ""
		if i < len(items) {
			subject = items[i].Subject
		}
		resp.Results[i] = FromResult(subject, result)
	}
	return resp
}

func FromPolicy(p service.Policy) PolicyResponse {
	codes := make([]string, 0, len(p.Reasons))
	for _, r := range p.Reasons {
		codes = append(codes, r.String())
	}
	return PolicyResponse{
		AcceptedLengths: p.AcceptedLengths,
		MaxSequenceStep: p.MaxSequenceStep,
		ReasonCodes:     codes,
		BatchMaxItems:   p.BatchMaxItems,
	}
}
