package routemock

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/e2eflows/internal/handlers"
)

func TestMock_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mock    Mock
		wantErr error
	}{
		{
			name: "fulfill",
			mock: Fulfill("**/api", Response{Status: 200}),
		},
		{
			name: "abort",
			mock: Abort("**/api", FailureFailed),
		},
		{
			name:    "missing pattern",
			mock:    Mock{Failure: FailureFailed},
			wantErr: ErrMissingPattern,
		},
		{
			name:    "no outcome",
			mock:    Mock{Pattern: "**/api"},
			wantErr: ErrNoOutcome,
		},
		{
			name:    "both outcomes",
			mock:    Mock{Pattern: "**/api", Response: &Response{}, Failure: FailureFailed},
			wantErr: ErrBothOutcomes,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mock.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAbort_DefaultsToFailed(t *testing.T) {
	if m := Abort("**/api", ""); m.Failure != FailureFailed {
		t.Errorf("expected default failure code %q, got %q", FailureFailed, m.Failure)
	}
}

func TestWithDelay_DoesNotMutateOriginal(t *testing.T) {
	base := TransferSucceeded("67890")
	delayed := base.WithDelay(2 * time.Second)

	if base.Delay != 0 {
		t.Errorf("original delay changed to %s", base.Delay)
	}
	if delayed.Delay != 2*time.Second {
		t.Errorf("expected 2s delay, got %s", delayed.Delay)
	}
}

func TestFulfillJSON_RejectsUnencodableBody(t *testing.T) {
	if _, err := FulfillJSON("**/api", 200, make(chan int)); err == nil {
		t.Error("expected encoding error")
	}
}

func TestTransferPresets_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		mock       Mock
		wantStatus int
		check      func(t *testing.T, body []byte)
	}{
		{
			name:       "success",
			mock:       TransferSucceeded("12345"),
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var resp handlers.TransferResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("Failed to decode body: %v", err)
				}
				if resp.Status != "success" || resp.TransactionID != "12345" {
					t.Errorf("unexpected body %+v", resp)
				}
			},
		},
		{
			name:       "rejected",
			mock:       TransferRejected("Insufficient funds"),
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body []byte) {
				var resp handlers.ErrorResponse
				if err := json.Unmarshal(body, &resp); err != nil {
					t.Fatalf("Failed to decode body: %v", err)
				}
				if resp.Error != "Insufficient funds" {
					t.Errorf("unexpected body %+v", resp)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.mock)
			defer server.Close()

			resp, err := http.Post(server.URL+"/api/transfer", "application/json", nil)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected JSON content type, got %q", ct)
			}
			body, _ := io.ReadAll(resp.Body)
			tt.check(t, body)
		})
	}
}

func TestTransferNetworkFailure_ServeHTTP(t *testing.T) {
	server := httptest.NewServer(TransferNetworkFailure())
	defer server.Close()

	resp, err := http.Post(server.URL+"/api/transfer", "application/json", nil)
	if err == nil {
		resp.Body.Close()
		t.Fatal("expected the connection to be dropped")
	}
}

func TestMock_ServeHTTP_Delay(t *testing.T) {
	server := httptest.NewServer(TransferSucceeded("67890").WithDelay(200 * time.Millisecond))
	defer server.Close()

	start := time.Now()
	resp, err := http.Post(server.URL+"/api/transfer", "application/json", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()

	if elapsed := time.Since(start); elapsed < 200*time.Millisecond {
		t.Errorf("expected response to be held for 200ms, got %s", elapsed)
	}
}

// fakeRoute records how an intercepted request was answered
type fakeRoute struct {
	playwright.Route
	err       error
	fulfilled *playwright.RouteFulfillOptions
	aborted   string
}

func (r *fakeRoute) Fulfill(options ...playwright.RouteFulfillOptions) error {
	if len(options) > 0 {
		r.fulfilled = &options[0]
	}
	return r.err
}

func (r *fakeRoute) Abort(errorCode ...string) error {
	if len(errorCode) > 0 {
		r.aborted = errorCode[0]
	}
	return r.err
}

func TestMock_Answer(t *testing.T) {
	route := &fakeRoute{}
	if err := TransferRejected("Insufficient funds").answer(route); err != nil {
		t.Fatalf("answer() error = %v", err)
	}
	if route.fulfilled == nil || *route.fulfilled.Status != http.StatusBadRequest {
		t.Fatalf("Expected 400 fulfill, got %+v", route.fulfilled)
	}
	if *route.fulfilled.ContentType != "application/json" {
		t.Errorf("Expected JSON content type, got %s", *route.fulfilled.ContentType)
	}

	route = &fakeRoute{}
	if err := TransferNetworkFailure().answer(route); err != nil {
		t.Fatalf("answer() error = %v", err)
	}
	if route.aborted != FailureFailed {
		t.Errorf("Expected abort with %q, got %q", FailureFailed, route.aborted)
	}
}

func TestMock_HandlerLogsAnswerErrors(t *testing.T) {
	tests := []struct {
		name string
		mock Mock
		want string
	}{
		{name: "fulfill", mock: TransferSucceeded("12345"), want: "failed to fulfill request"},
		{name: "abort", mock: TransferNetworkFailure(), want: "failed to abort request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			logger := log.New(&out)

			tt.mock.handler(logger)(&fakeRoute{err: errors.New("target closed")})

			for _, want := range []string{tt.want, "target closed", TransferPattern} {
				if !strings.Contains(out.String(), want) {
					t.Errorf("Expected log to contain %q, got %q", want, out.String())
				}
			}
		})
	}
}
