package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"pinguard/internal/pinpolicy"
	"pinguard/internal/pinpolicy/handler/mocks"
	"pinguard/internal/pinpolicy/service"
	dErrors "pinguard/pkg/domain-errors"
	"pinguard/pkg/requestcontext"
	"pinguard/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
type HandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
	now     time.Time
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(s.service, logger).Register(s.router)
}

func (s *HandlerSuite) result(strength pinpolicy.Strength, reasons ...pinpolicy.Reason) *service.CheckResult {
	if reasons == nil {
		reasons = []pinpolicy.Reason{}
	}
	return &service.CheckResult{
		Verdict:     pinpolicy.Verdict{Strength: strength, Reasons: reasons},
		EvaluatedAt: s.now,
	}
}

func (s *HandlerSuite) TestHandleCheck_Weak() {
	s.service.EXPECT().Check(gomock.Any(), service.CheckRequest{
		Subject: "user-1",
		PIN:     "0503",
		Dates: pinpolicy.Dates{
			Self: &pinpolicy.CalendarDate{Year: 1990, Month: 3, Day: 5},
		},
	}).Return(s.result(pinpolicy.StrengthWeak, pinpolicy.ReasonDOBSelf), nil)

	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/pin/strength",
		`{"subject":" user-1 ","pin":"0503","dob_self":{"year":1990,"month":3,"day":5},"dob_spouse":null}`)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[StrengthResponse](s.T(), rr)
	s.Equal("user-1", resp.Subject)
	s.Equal("WEAK", resp.Strength)
	s.Equal([]string{"DEMOGRAPHIC_DOB_SELF"}, resp.Reasons)
	s.Equal(s.now, resp.EvaluatedAt)
}

func (s *HandlerSuite) TestHandleCheck_StrongHasEmptyReasons() {
	s.service.EXPECT().Check(gomock.Any(), gomock.Any()).
		Return(s.result(pinpolicy.StrengthStrong), nil)

	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/pin/strength", `{"pin":"1358"}`)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Contains(rr.Body.String(), `"reasons":[]`)
	s.NotContains(rr.Body.String(), `"subject"`)
}

func (s *HandlerSuite) TestHandleCheck_MalformedPINReachesClassifier() {
	for _, pin := range []string{"", "12a4", "12345", " 1234"} {
		s.Run(pin, func() {
			s.service.EXPECT().Check(gomock.Any(), service.CheckRequest{PIN: pin}).
				Return(s.result(pinpolicy.StrengthStrong), nil)

			req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/pin/strength", map[string]any{"pin": pin})
			rr := testutil.DoRequest(s.router, req)
			testutil.AssertStatus(s.T(), rr, http.StatusOK)
		})
	}
}

func (s *HandlerSuite) TestHandleCheck_InvalidDateAccepted() {
	s.service.EXPECT().Check(gomock.Any(), service.CheckRequest{
		PIN:   "2902",
		Dates: pinpolicy.Dates{Self: &pinpolicy.CalendarDate{Year: 1999, Month: 2, Day: 29}},
	}).Return(s.result(pinpolicy.StrengthStrong), nil)

	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/pin/strength",
		`{"pin":"2902","dob_self":{"year":1999,"month":2,"day":29}}`)
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}

func (s *HandlerSuite) TestHandleCheck_BadRequests() {
	tests := []struct {
		name string
		body string
		code dErrors.Code
	}{
		{name: "missing pin", body: `{"subject":"user-1"}`, code: dErrors.CodeValidation},
		{name: "null pin", body: `{"pin":null}`, code: dErrors.CodeValidation},
		{name: "oversize pin", body: `{"pin":"` + strings.Repeat("1", 65) + `"}`, code: dErrors.CodeValidation},
		{name: "oversize subject", body: `{"pin":"1234","subject":"` + strings.Repeat("a", 129) + `"}`, code: dErrors.CodeValidation},
		{name: "malformed json", body: `{"pin":`, code: dErrors.CodeBadRequest},
		{name: "pin as number", body: `{"pin":1234}`, code: dErrors.CodeBadRequest},
		{name: "fractional date", body: `{"pin":"1234","dob_self":{"year":1990.5,"month":1,"day":1}}`, code: dErrors.CodeBadRequest},
		{name: "empty body", body: ``, code: dErrors.CodeBadRequest},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/pin/strength", tt.body)
			rr := testutil.DoRequest(s.router, req)
			testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(tt.code))
		})
	}
}

func (s *HandlerSuite) TestHandleCheck_ServiceError() {
	s.service.EXPECT().Check(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.Wrap(errors.New("store down"), dErrors.CodeInternal, "failed to record audit event"))

	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/pin/strength", `{"pin":"1234"}`)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusInternalServerError)
	errResp := testutil.UnmarshalErrorResponse(s.T(), rr)
	s.Equal(string(dErrors.CodeInternal), errResp["error"])
	s.Empty(errResp["error_description"])
}

func (s *HandlerSuite) TestHandleCheckBatch() {
	s.service.EXPECT().CheckBatch(gomock.Any(), []service.CheckRequest{
		{Subject: "a", PIN: "1234"},
		{Subject: "b", PIN: "1358"},
	}).Return([]*service.CheckResult{
		s.result(pinpolicy.StrengthWeak, pinpolicy.ReasonCommonlyUsed),
		s.result(pinpolicy.StrengthStrong),
	}, nil)

	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/pin/strength/batch",
		`{"items":[{"subject":"a","pin":"1234"},{"subject":"b","pin":"1358"}]}`)
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[BatchResponse](s.T(), rr)
	s.Require().Len(resp.Results, 2)
	s.Equal("a", resp.Results[0].Subject)
	s.Equal([]string{"COMMONLY_USED"}, resp.Results[0].Reasons)
	s.Equal("STRONG", resp.Results[1].Strength)
	s.Empty(resp.Results[1].Reasons)
}

func (s *HandlerSuite) TestHandleCheckBatch_Validation() {
	s.Run("empty items", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/pin/strength/batch", `{"items":[]}`)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	s.Run("item without pin names its index", func() {
		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/pin/strength/batch",
			`{"items":[{"pin":"1234"},{"subject":"b"}]}`)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
		errResp := testutil.UnmarshalErrorResponse(s.T(), rr)
		s.Equal("items[1].pin is required", errResp["error_description"])
	})

	s.Run("service rejects oversize batch", func() {
		s.service.EXPECT().CheckBatch(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeValidation, "batch exceeds maximum of 1 items"))

		req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/pin/strength/batch",
			`{"items":[{"pin":"1234"},{"pin":"5678"}]}`)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})
}

func (s *HandlerSuite) TestHandlePolicy() {
	s.service.EXPECT().Policy().Return(service.Policy{
		AcceptedLengths: []int{4, 6},
		MaxSequenceStep: 3,
		Reasons:         pinpolicy.AllReasons(),
		BatchMaxItems:   100,
	})

	rr := testutil.DoRequest(s.router, testutil.NewRequestWithBody(s.T(), http.MethodGet, "/pin/policy", ""))

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[PolicyResponse](s.T(), rr)
	s.Equal([]int{4, 6}, resp.AcceptedLengths)
	s.Equal(3, resp.MaxSequenceStep)
	s.Equal([]string{
		"COMMONLY_USED",
		"DEMOGRAPHIC_DOB_SELF",
		"DEMOGRAPHIC_DOB_SPOUSE",
		"DEMOGRAPHIC_ANNIVERSARY",
	}, resp.ReasonCodes)
}

func (s *HandlerSuite) TestHandleCheck_RequestIDInContext() {
	s.service.EXPECT().Check(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ service.CheckRequest) (*service.CheckResult, error) {
			s.Equal("req-42", requestcontext.RequestID(ctx))
			return s.result(pinpolicy.StrengthStrong), nil
		})

	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/pin/strength", `{"pin":"1358"}`)
	req = testutil.WithRequestID(req, "req-42")
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}
