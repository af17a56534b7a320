package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/paycore/payroll-engine-go/internal/domain/payroll"
	payrollservice "github.com/paycore/payroll-engine-go/internal/service/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPayrollService struct {
	view    payroll.View
	records []payroll.Payroll
	day     int
	err     error

	lastAmount decimal.Decimal
	lastActor  string
	lastTarget payroll.Status
}

func (s *stubPayrollService) Get(ctx context.Context, id string) (payroll.View, error) {
	return s.view, s.err
}

func (s *stubPayrollService) List(ctx context.Context, filter payroll.ListFilter) ([]payroll.Payroll, error) {
	return s.records, s.err
}

func (s *stubPayrollService) RecordPayment(ctx context.Context, payrollID string, amount decimal.Decimal, method, reference, actor string) (payroll.View, error) {
	s.lastAmount = amount
	s.lastActor = actor
	return s.view, s.err
}

func (s *stubPayrollService) SetStatus(ctx context.Context, payrollID string, target payroll.Status, actor string) (payroll.View, error) {
	s.lastTarget = target
	s.lastActor = actor
	return s.view, s.err
}

func (s *stubPayrollService) CutoffDay(ctx context.Context) (int, error) {
	return s.day, s.err
}

func (s *stubPayrollService) SetCutoffDay(ctx context.Context, day int) (payroll.Settings, error) {
	if s.err != nil {
		return payroll.Settings{}, s.err
	}
	s.day = day
	return payroll.Settings{ID: 1, SalaryCutoffDay: day, UpdatedAt: time.Now()}, nil
}

type stubRunner struct {
	summary payroll.RunSummary
	opts    payroll.RunOptions
	err     error
}

func (s *stubRunner) Run(ctx context.Context, opts payroll.RunOptions) (payroll.RunSummary, error) {
	s.opts = opts
	return s.summary, s.err
}

func newTestRouter(svc *stubPayrollService, runner *stubRunner) *httptest.Server {
	status := payrollservice.NewStatusStore(true, 1, 0, "UTC")
	handler := NewPayrollHandler(svc, runner, status)
	return httptest.NewServer(NewRouter("test", handler))
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRunEndpoint(t *testing.T) {
	runner := &stubRunner{summary: payroll.RunSummary{
		RunID:        "run-1",
		UsersScanned: 3,
		Created:      2,
		Errors:       []payroll.RunError{{EmployeeID: "emp-x", Month: 6, Year: 2025, Message: "boom"}},
		Reason:       "manual",
	}}
	server := newTestRouter(&stubPayrollService{}, runner)
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/v1/payroll/run", payroll.RunRequest{DryRun: true})
	assert.Equal(t, http.StatusOK, resp.StatusCode, "partial failures still return 200")

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "run-1", data["run_id"])
	assert.Len(t, data["errors"], 1)

	assert.True(t, runner.opts.DryRun)
	assert.Equal(t, "manual", runner.opts.Reason)
}

func TestRunEndpointValidatesPeriod(t *testing.T) {
	server := newTestRouter(&stubPayrollService{}, &stubRunner{})
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/v1/payroll/run", payroll.RunRequest{Month: 13, Year: 2025})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body := decodeBody(t, resp)
	errDetail := body["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_ERROR", errDetail["code"])
}

func TestAutomationStatusEndpoint(t *testing.T) {
	server := newTestRouter(&stubPayrollService{}, &stubRunner{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/payroll/automation/status")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["enabled"])
	assert.Equal(t, "UTC", data["timezone"])
	assert.Nil(t, data["last_run_at"])
}

func TestRecordPaymentEndpoint(t *testing.T) {
	svc := &stubPayrollService{view: payroll.View{
		Payroll:       payroll.Payroll{ID: "pr-1", Status: payroll.StatusPartial, TotalPay: decimal.RequireFromString("1000")},
		PendingAmount: decimal.RequireFromString("600"),
	}}
	server := newTestRouter(svc, &stubRunner{})
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/v1/payrolls/pr-1/payments", payroll.RecordPaymentRequest{
		Amount:    decimal.RequireFromString("400"),
		Method:    "bank",
		Reference: "ref-1",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	assert.Equal(t, "pr-1", data["id"])
	assert.Equal(t, "600", data["pending_amount"])
	assert.Equal(t, "api", svc.lastActor, "missing paid_by falls back to api")
}

func TestRecordPaymentEndpointRejectsBadBody(t *testing.T) {
	server := newTestRouter(&stubPayrollService{}, &stubRunner{})
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/v1/payrolls/pr-1/payments", payroll.RecordPaymentRequest{
		Amount: decimal.Zero,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSetStatusEndpoint(t *testing.T) {
	svc := &stubPayrollService{view: payroll.View{
		Payroll:       payroll.Payroll{ID: "pr-1", Status: payroll.StatusPaid},
		PendingAmount: decimal.Zero,
	}}
	server := newTestRouter(svc, &stubRunner{})
	defer server.Close()

	req, err := http.NewRequest(http.MethodPatch, server.URL+"/api/v1/payrolls/pr-1/status",
		bytes.NewReader([]byte(`{"status":"paid","actor":"ops"}`)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	assert.Equal(t, payroll.StatusPaid, svc.lastTarget)
	assert.Equal(t, "ops", svc.lastActor)
}

func TestLockedRecordMapsToConflict(t *testing.T) {
	svc := &stubPayrollService{err: payroll.ErrPayrollLocked}
	server := newTestRouter(svc, &stubRunner{})
	defer server.Close()

	resp := postJSON(t, server.URL+"/api/v1/payrolls/pr-1/payments", payroll.RecordPaymentRequest{
		Amount:    decimal.RequireFromString("10"),
		Method:    "bank",
		Reference: "ref-1",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestNotFoundMapsTo404(t *testing.T) {
	svc := &stubPayrollService{err: payroll.ErrPayrollNotFound}
	server := newTestRouter(svc, &stubRunner{})
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/payrolls/missing")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCutoffDayEndpoints(t *testing.T) {
	svc := &stubPayrollService{day: 1}
	server := newTestRouter(svc, &stubRunner{})
	defer server.Close()

	req, err := http.NewRequest(http.MethodPut, server.URL+"/api/v1/payroll/settings/cutoff-day",
		bytes.NewReader([]byte(`{"salary_cutoff_day":25}`)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/api/v1/payroll/settings/cutoff-day")
	require.NoError(t, err)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(25), data["salary_cutoff_day"])
}
