package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/rehabib/plan-report-tourism/internal/model"
	"github.com/rehabib/plan-report-tourism/internal/repository"
	pkgerrors "github.com/rehabib/plan-report-tourism/pkg/errors"
)

var mockSeq int

func mockID(prefix string) string {
	mockSeq++
	return fmt.Sprintf("%s-%d", prefix, mockSeq)
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	depts *mockDeptRepo
}

func newMockUserRepo(depts *mockDeptRepo) *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User), depts: depts}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = "user-" + user.Username
	}
	if !user.IsActive {
		user.IsActive = true
	}
	cp := *user
	cp.Department = nil
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) withDept(u *model.User) *model.User {
	cp := *u
	if cp.DepartmentID != nil {
		if d, ok := m.depts.depts[*cp.DepartmentID]; ok {
			dc := *d
			cp.Department = &dc
		}
	}
	return &cp
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return m.withDept(u), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			return m.withDept(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock DepartmentRepository ──

type mockDeptRepo struct {
	depts map[string]*model.Department
}

func newMockDeptRepo() *mockDeptRepo {
	return &mockDeptRepo{depts: make(map[string]*model.Department)}
}

func (m *mockDeptRepo) Create(_ context.Context, dept *model.Department) error {
	if dept.DepartmentID == "" {
		dept.DepartmentID = "dept-" + dept.Name
	}
	m.depts[dept.DepartmentID] = dept
	return nil
}

func (m *mockDeptRepo) GetByID(_ context.Context, id string) (*model.Department, error) {
	if d, ok := m.depts[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) GetByName(_ context.Context, name string) (*model.Department, error) {
	for _, d := range m.depts {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) List(_ context.Context) ([]model.Department, error) {
	var out []model.Department
	for _, d := range m.depts {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── Mock PlanRepository ──

type mockPlanRepo struct {
	plans   map[string]*model.Plan
	users   *mockUserRepo
	reports *mockReportRepo
}

func newMockPlanRepo(users *mockUserRepo) *mockPlanRepo {
	return &mockPlanRepo{plans: make(map[string]*model.Plan), users: users}
}

func clonePlan(p *model.Plan, withTree bool) *model.Plan {
	cp := *p
	cp.Owner = nil
	cp.Goals, cp.KPIs, cp.MajorActivities = nil, nil, nil
	if !withTree {
		return &cp
	}
	cp.Goals = append([]model.StrategicGoal(nil), p.Goals...)
	cp.KPIs = append([]model.KPI(nil), p.KPIs...)
	for _, ma := range p.MajorActivities {
		mc := ma
		mc.Details = append([]model.DetailActivity(nil), ma.Details...)
		cp.MajorActivities = append(cp.MajorActivities, mc)
	}
	return &cp
}

func assignPlanIDs(p *model.Plan) {
	for i := range p.Goals {
		p.Goals[i].PlanID = p.PlanID
		if p.Goals[i].GoalID == "" {
			p.Goals[i].GoalID = mockID("goal")
		}
	}
	for i := range p.KPIs {
		p.KPIs[i].PlanID = p.PlanID
		if p.KPIs[i].KPIID == "" {
			p.KPIs[i].KPIID = mockID("kpi")
		}
	}
	for i := range p.MajorActivities {
		ma := &p.MajorActivities[i]
		ma.PlanID = p.PlanID
		if ma.MajorActivityID == "" {
			ma.MajorActivityID = mockID("ma")
		}
		for j := range ma.Details {
			ma.Details[j].MajorActivityID = ma.MajorActivityID
			if ma.Details[j].DetailActivityID == "" {
				ma.Details[j].DetailActivityID = mockID("da")
			}
		}
	}
}

func (m *mockPlanRepo) attach(p *model.Plan) *model.Plan {
	if u, ok := m.users.users[p.UserID]; ok {
		p.Owner = m.users.withDept(u)
	}
	return p
}

func (m *mockPlanRepo) CreateTree(_ context.Context, plan *model.Plan) error {
	if plan.PlanID == "" {
		plan.PlanID = mockID("plan")
	}
	if plan.Version == 0 {
		plan.Version = 1
	}
	if plan.Status == "" {
		plan.Status = model.StatusDraft
	}
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = plan.CreatedAt
	assignPlanIDs(plan)
	m.plans[plan.PlanID] = clonePlan(plan, true)
	return nil
}

func (m *mockPlanRepo) ReplaceTree(_ context.Context, plan *model.Plan) error {
	stored, ok := m.plans[plan.PlanID]
	if !ok || stored.Version != plan.Version {
		return pkgerrors.ErrOptimisticLock
	}
	plan.Version++
	assignPlanIDs(plan)
	next := clonePlan(plan, true)
	next.Status = stored.Status
	next.CurrentReviewerRole = stored.CurrentReviewerRole
	m.plans[plan.PlanID] = next
	return nil
}

func (m *mockPlanRepo) GetByID(_ context.Context, id string) (*model.Plan, error) {
	if p, ok := m.plans[id]; ok {
		return m.attach(clonePlan(p, false)), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPlanRepo) GetTree(_ context.Context, id string) (*model.Plan, error) {
	if p, ok := m.plans[id]; ok {
		return m.attach(clonePlan(p, true)), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPlanRepo) UpdateStatus(_ context.Context, plan *model.Plan) error {
	stored, ok := m.plans[plan.PlanID]
	if !ok || stored.Version != plan.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Status = plan.Status
	stored.CurrentReviewerRole = plan.CurrentReviewerRole
	stored.ReviewComments = plan.ReviewComments
	stored.Version++
	plan.Version = stored.Version
	return nil
}

func (m *mockPlanRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.plans[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.plans, id)
	if m.reports != nil {
		for rid, r := range m.reports.reports {
			if r.PlanID == id {
				delete(m.reports.reports, rid)
			}
		}
	}
	return nil
}

func (m *mockPlanRepo) ListVisible(_ context.Context, _ repository.Visibility, filter repository.PlanFilter) ([]model.Plan, error) {
	var out []model.Plan
	for _, p := range m.plans {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.PlanType != nil && p.PlanType != *filter.PlanType {
			continue
		}
		if filter.Level != nil && p.Level != *filter.Level {
			continue
		}
		out = append(out, *m.attach(clonePlan(p, false)))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlanID < out[j].PlanID })
	return out, nil
}

// ── Mock ReportRepository ──

type mockReportRepo struct {
	reports map[string]*model.Report
	plans   *mockPlanRepo
	users   *mockUserRepo

	// createHook runs before CreateTree stores anything; tests use it to
	// simulate a concurrent insert.
	createHook func(r *model.Report) error
}

func newMockReportRepo(plans *mockPlanRepo, users *mockUserRepo) *mockReportRepo {
	m := &mockReportRepo{reports: make(map[string]*model.Report), plans: plans, users: users}
	plans.reports = m
	return m
}

func cloneReport(r *model.Report) *model.Report {
	cp := *r
	cp.Owner, cp.Plan = nil, nil
	cp.KPIReports = nil
	for _, k := range r.KPIReports {
		k.KPI = nil
		cp.KPIReports = append(cp.KPIReports, k)
	}
	cp.ActivityReports = nil
	for _, a := range r.ActivityReports {
		a.MajorActivity = nil
		var details []model.DetailActivityReport
		for _, d := range a.DetailReports {
			d.DetailActivity = nil
			details = append(details, d)
		}
		a.DetailReports = details
		cp.ActivityReports = append(cp.ActivityReports, a)
	}
	return &cp
}

func (m *mockReportRepo) FindByKey(_ context.Context, planID, userID string, period model.PlanType) (*model.Report, error) {
	for _, r := range m.reports {
		if r.PlanID == planID && r.UserID == userID && r.ReportingPeriod == period {
			return cloneReport(r), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReportRepo) CreateTree(ctx context.Context, report *model.Report) error {
	if m.createHook != nil {
		if err := m.createHook(report); err != nil {
			return err
		}
	}
	if _, err := m.FindByKey(ctx, report.PlanID, report.UserID, report.ReportingPeriod); err == nil {
		return gorm.ErrDuplicatedKey
	}
	if report.ReportID == "" {
		report.ReportID = mockID("report")
	}
	if report.Version == 0 {
		report.Version = 1
	}
	report.CreatedAt = time.Now()
	for i := range report.KPIReports {
		report.KPIReports[i].ReportID = report.ReportID
		report.KPIReports[i].KPIReportID = mockID("kr")
	}
	for i := range report.ActivityReports {
		ar := &report.ActivityReports[i]
		ar.ReportID = report.ReportID
		ar.ActivityReportID = mockID("ar")
		for j := range ar.DetailReports {
			ar.DetailReports[j].ActivityReportID = ar.ActivityReportID
			ar.DetailReports[j].DetailReportID = mockID("dr")
		}
	}
	m.reports[report.ReportID] = cloneReport(report)
	return nil
}

func (m *mockReportRepo) attach(r *model.Report, withTree bool) *model.Report {
	if u, ok := m.users.users[r.UserID]; ok {
		r.Owner = m.users.withDept(u)
	}
	plan, err := m.plans.GetTree(context.Background(), r.PlanID)
	if err != nil {
		return r
	}
	r.Plan = plan
	if !withTree {
		return r
	}
	for i := range r.KPIReports {
		for j := range plan.KPIs {
			if plan.KPIs[j].KPIID == r.KPIReports[i].KPIID {
				k := plan.KPIs[j]
				r.KPIReports[i].KPI = &k
			}
		}
	}
	for i := range r.ActivityReports {
		ar := &r.ActivityReports[i]
		for j := range plan.MajorActivities {
			ma := plan.MajorActivities[j]
			if ma.MajorActivityID != ar.MajorActivityID {
				continue
			}
			ar.MajorActivity = &ma
			for k := range ar.DetailReports {
				for _, d := range ma.Details {
					if d.DetailActivityID == ar.DetailReports[k].DetailActivityID {
						dc := d
						ar.DetailReports[k].DetailActivity = &dc
					}
				}
			}
		}
	}
	return r
}

func (m *mockReportRepo) GetByID(_ context.Context, id string) (*model.Report, error) {
	if r, ok := m.reports[id]; ok {
		return m.attach(cloneReport(r), false), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReportRepo) GetTree(_ context.Context, id string) (*model.Report, error) {
	if r, ok := m.reports[id]; ok {
		return m.attach(cloneReport(r), true), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockReportRepo) UpdateContent(_ context.Context, report *model.Report) error {
	stored, ok := m.reports[report.ReportID]
	if !ok || stored.Version != report.Version {
		return pkgerrors.ErrOptimisticLock
	}
	status := stored.Status
	report.Version++
	next := cloneReport(report)
	next.Status = status
	m.reports[report.ReportID] = next
	return nil
}

func (m *mockReportRepo) UpdateStatus(_ context.Context, report *model.Report) error {
	stored, ok := m.reports[report.ReportID]
	if !ok || stored.Version != report.Version {
		return pkgerrors.ErrOptimisticLock
	}
	stored.Status = report.Status
	stored.ReviewerComment = report.ReviewerComment
	stored.Version++
	report.Version = stored.Version
	return nil
}

func (m *mockReportRepo) ListVisible(_ context.Context, _ repository.Visibility, filter repository.ReportFilter) ([]model.Report, error) {
	var out []model.Report
	for _, r := range m.reports {
		if filter.PlanID != nil && r.PlanID != *filter.PlanID {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		out = append(out, *m.attach(cloneReport(r), false))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReportID < out[j].ReportID })
	return out, nil
}

// ── Mock ApprovalLogRepository ──

type mockApprovalLogRepo struct {
	logs []model.ApprovalLog
}

func (m *mockApprovalLogRepo) Create(_ context.Context, log *model.ApprovalLog) error {
	if log.ApprovalLogID == "" {
		log.ApprovalLogID = mockID("log")
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockApprovalLogRepo) ListBySubject(_ context.Context, subjectType, subjectID string) ([]model.ApprovalLog, error) {
	var out []model.ApprovalLog
	for _, l := range m.logs {
		if l.SubjectType == subjectType && l.SubjectID == subjectID {
			out = append(out, l)
		}
	}
	return out, nil
}

// ── Mock Transactor ──

// mockTx runs fn against the same mock repositories. It does not roll
// back; rollback is covered by the SQLite repository tests.
type mockTx struct {
	repo *repository.Repository
}

func (m *mockTx) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *repository.Repository) error) error {
	return fn(ctx, m.repo)
}

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	revoked map[string]time.Duration
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	m.revoked[jti] = ttl
	return nil
}
