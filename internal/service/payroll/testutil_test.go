package payroll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/paycore/payroll-engine-go/internal/domain/finance"
	"github.com/paycore/payroll-engine-go/internal/domain/payroll"
	"github.com/paycore/payroll-engine-go/internal/domain/workforce"
	"github.com/shopspring/decimal"
)

// In-memory fakes for the repository, transaction runner, collaborators
// and sinks, so the state machine and runner are testable without a
// database.

type memRepo struct {
	mu       sync.Mutex
	settings payroll.Settings
	records  map[string]payroll.Payroll
	payments map[string][]payroll.Payment
}

func newMemRepo() *memRepo {
	return &memRepo{
		settings: payroll.Settings{ID: 1, SalaryCutoffDay: 1},
		records:  make(map[string]payroll.Payroll),
		payments: make(map[string][]payroll.Payment),
	}
}

func (m *memRepo) GetSettings(ctx context.Context) (payroll.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings, nil
}

func (m *memRepo) UpdateCutoffDay(ctx context.Context, day int) (payroll.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.SalaryCutoffDay = day
	m.settings.UpdatedAt = time.Now().UTC()
	return m.settings, nil
}

func (m *memRepo) Insert(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.records {
		if existing.EmployeeID == p.EmployeeID && existing.PeriodMonth == p.PeriodMonth && existing.PeriodYear == p.PeriodYear {
			return payroll.Payroll{}, payroll.ErrPayrollExists
		}
	}
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	m.records[p.ID] = p
	return p, nil
}

func (m *memRepo) UpdateAmounts(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.records[p.ID]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	existing.BasePay = p.BasePay
	existing.OvertimeHours = p.OvertimeHours
	existing.OvertimePay = p.OvertimePay
	existing.CommissionPay = p.CommissionPay
	existing.BonusPay = p.BonusPay
	existing.Deductions = p.Deductions
	existing.TotalPay = p.TotalPay
	existing.UpdatedAt = time.Now().UTC()
	m.records[p.ID] = existing
	return existing, nil
}

func (m *memRepo) UpdateSettlement(ctx context.Context, p payroll.Payroll) (payroll.Payroll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.records[p.ID]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	existing.Status = p.Status
	existing.PaidTransactionID = p.PaidTransactionID
	existing.PaidAt = p.PaidAt
	existing.PaidBy = p.PaidBy
	existing.UpdatedAt = time.Now().UTC()
	m.records[p.ID] = existing
	return existing, nil
}

func (m *memRepo) GetByID(ctx context.Context, id string) (payroll.Payroll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.records[id]
	if !ok {
		return payroll.Payroll{}, payroll.ErrPayrollNotFound
	}
	return p, nil
}

func (m *memRepo) GetByEmployeePeriod(ctx context.Context, employeeID string, period payroll.Period) (payroll.Payroll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.records {
		if p.EmployeeID == employeeID && p.PeriodMonth == period.Month && p.PeriodYear == period.Year {
			return p, nil
		}
	}
	return payroll.Payroll{}, payroll.ErrPayrollNotFound
}

func (m *memRepo) List(ctx context.Context, filter payroll.ListFilter) ([]payroll.Payroll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []payroll.Payroll
	for _, p := range m.records {
		if filter.EmployeeID != "" && p.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.Month != 0 && p.PeriodMonth != filter.Month {
			continue
		}
		if filter.Year != 0 && p.PeriodYear != filter.Year {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memRepo) InsertPayment(ctx context.Context, payment payroll.Payment) (payroll.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, list := range m.payments {
		for _, existing := range list {
			if existing.TransactionID == payment.TransactionID {
				return payroll.Payment{}, payroll.ErrDuplicateTransaction
			}
		}
	}
	m.payments[payment.PayrollID] = append(m.payments[payment.PayrollID], payment)
	return payment, nil
}

func (m *memRepo) ListPayments(ctx context.Context, payrollID string) ([]payroll.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]payroll.Payment(nil), m.payments[payrollID]...), nil
}

func (m *memRepo) PaymentsTotal(ctx context.Context, payrollID string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, p := range m.payments[payrollID] {
		total = total.Add(p.Amount)
	}
	return total, nil
}

func (m *memRepo) DeletePayments(ctx context.Context, payrollID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.payments, payrollID)
	return nil
}

// passTx satisfies TxRunner without transactional semantics; the memory
// repository is already atomic per call.
type passTx struct{}

func (passTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeJournal struct {
	mu    sync.Mutex
	posts []finance.Transaction
	err   error
}

func (f *fakeJournal) Post(ctx context.Context, tx finance.Transaction) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	f.posts = append(f.posts, tx)
	return fmt.Sprintf("txn-%d", len(f.posts)), nil
}

func (f *fakeJournal) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts)
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []finance.AuditEntry
}

func (f *fakeAudit) Record(ctx context.Context, entry finance.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

type fakeWorkforce struct {
	mu         sync.Mutex
	contracts  map[string]workforce.Contract
	attendance map[string][]workforce.AttendanceRecord
	leaves     map[string][]workforce.LeaveRequest
	sales      map[string]decimal.Decimal
}

func newFakeWorkforce() *fakeWorkforce {
	return &fakeWorkforce{
		contracts:  make(map[string]workforce.Contract),
		attendance: make(map[string][]workforce.AttendanceRecord),
		leaves:     make(map[string][]workforce.LeaveRequest),
		sales:      make(map[string]decimal.Decimal),
	}
}

func (f *fakeWorkforce) ListContractedEmployeeIDs(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for id := range f.contracts {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeWorkforce) GetByEmployee(ctx context.Context, employeeID string) (workforce.Contract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.contracts[employeeID]
	if !ok {
		return workforce.Contract{}, workforce.ErrContractNotFound
	}
	return c, nil
}

func (f *fakeWorkforce) ForPeriod(ctx context.Context, employeeID string, start, end time.Time) ([]workforce.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []workforce.AttendanceRecord
	for _, rec := range f.attendance[employeeID] {
		if !rec.CheckIn.Before(start) && rec.CheckIn.Before(end.AddDate(0, 0, 1)) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeWorkforce) ApprovedOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]workforce.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []workforce.LeaveRequest
	for _, lr := range f.leaves[employeeID] {
		if lr.Status == workforce.LeaveApproved && !lr.StartDate.After(end) && !lr.EndDate.Before(start) {
			out = append(out, lr)
		}
	}
	return out, nil
}

func (f *fakeWorkforce) VolumeForPeriod(ctx context.Context, employeeID string, start, end time.Time) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.sales[employeeID]; ok {
		return v, nil
	}
	return decimal.Zero, nil
}

func newTestService() (*Service, *memRepo, *fakeJournal, *fakeAudit) {
	repo := newMemRepo()
	journal := &fakeJournal{}
	audit := &fakeAudit{}
	svc := NewService(repo, passTx{}, journal, audit)
	return svc, repo, journal, audit
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
