package handler

import (
	"fmt"
	"strings"

	"pinguard/internal/pinpolicy"
	"pinguard/internal/pinpolicy/service"
	dErrors "pinguard/pkg/domain-errors"
)

const (
	maxPINInputLength = 64
	maxSubjectLength  = 128
)

// CheckStrengthRequest is the HTTP request body for POST /pin/strength.
// Dates are optional; an impossible date is accepted and never matches.
type CheckStrengthRequest struct {
	Subject     string                  `json:"subject"`
	PIN         *string                 `json:"pin"`
	DOBSelf     *pinpolicy.CalendarDate `json:"dob_self"`
	DOBSpouse   *pinpolicy.CalendarDate `json:"dob_spouse"`
	Anniversary *pinpolicy.CalendarDate `json:"anniversary"`
}

// Validate checks presence and size only. PIN format is the classifier's
// concern and never produces a 400.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *CheckStrengthRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	return r.validate("")
}

func (r *CheckStrengthRequest) validate(field string) error {
	if r.PIN == nil {
		return dErrors.New(dErrors.CodeValidation, field+"pin is required")
	}
	if len(*r.PIN) > maxPINInputLength {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("%spin must be at most %d characters", field, maxPINInputLength))
	}
	r.Subject = strings.TrimSpace(r.Subject)
	if len(r.Subject) > maxSubjectLength {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("%ssubject must be at most %d characters", field, maxSubjectLength))
	}
	return nil
}

// ToServiceRequest converts the validated body into a service request.
func (r *CheckStrengthRequest) ToServiceRequest() service.CheckRequest {
	return service.CheckRequest{
		Subject: r.Subject,
		PIN:     *r.PIN,
		Dates: pinpolicy.Dates{
			Self:        r.DOBSelf,
			Spouse:      r.DOBSpouse,
			Anniversary: r.Anniversary,
		},
	}
}

// BatchRequest is the HTTP request body for POST /pin/strength/batch.
type BatchRequest struct {
	Items []CheckStrengthRequest `json:"items"`
}

// Validate validates every item. The batch size limit is enforced by the service.
func (r *BatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Items) == 0 {
		return dErrors.New(dErrors.CodeValidation, "items must not be empty")
	}
	for i := range r.Items {
		if err := r.Items[i].validate(fmt.Sprintf("items[%d].", i)); err != nil {
			return err
		}
	}
	return nil
}

// ToServiceRequests converts the validated items in order.
func (r *BatchRequest) ToServiceRequests() []service.CheckRequest {
	reqs := make([]service.CheckRequest, len(r.Items))
	for i := range r.Items {
		reqs[i] = r.Items[i].ToServiceRequest()
	}
	return reqs
}
