package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rehabib/plan-report-tourism/internal/dto"
	"github.com/rehabib/plan-report-tourism/internal/service"
)

// --- fakes ---

type fakeDepartments struct {
	created []dto.CreateDepartmentRequest
	list    []dto.DepartmentResponse
	err     error
}

func (f *fakeDepartments) Create(_ context.Context, req *dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, *req)
	return &dto.DepartmentResponse{ID: "dept-1", Name: req.Name, Pillar: req.Pillar}, nil
}

func (f *fakeDepartments) List(context.Context) ([]dto.DepartmentResponse, error) {
	return f.list, f.err
}

type fakeUsers struct {
	created []dto.CreateUserRequest
}

func (f *fakeUsers) CreateUser(_ context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	f.created = append(f.created, *req)
	return &dto.UserResponse{ID: "user-1", Username: req.Username, Role: req.Role}, nil
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*dto.UserResponse, error) {
	if username != "head" {
		return nil, service.ErrUserNotFound
	}
	return &dto.UserResponse{ID: "user-head", Username: username}, nil
}

type fakeExport struct {
	actorID string
}

func (f *fakeExport) ExportPlan(_ context.Context, actorID, id string) (*bytes.Buffer, string, error) {
	f.actorID = actorID
	return bytes.NewBufferString("plan:" + id), "plan.xlsx", nil
}

func (f *fakeExport) ExportReport(_ context.Context, actorID, id string) (*bytes.Buffer, string, error) {
	f.actorID = actorID
	return bytes.NewBufferString("report:" + id), "report.xlsx", nil
}

type testDeps struct {
	depts    *fakeDepartments
	users    *fakeUsers
	export   *fakeExport
	migrated bool
}

func testApp(t *testing.T) (*App, *testDeps) {
	t.Helper()
	deps := &testDeps{depts: &fakeDepartments{}, users: &fakeUsers{}, export: &fakeExport{}}
	app := &App{
		Departments: deps.depts,
		Users:       deps.users,
		Export:      deps.export,
		Migrate: func(context.Context) error {
			deps.migrated = true
			return nil
		},
	}
	return app, deps
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

// --- migrate ---

func TestMigrateCmd(t *testing.T) {
	app, deps := testApp(t)

	out, err := executeCmd(t, app, "migrate")
	require.NoError(t, err)
	assert.True(t, deps.migrated)
	assert.Contains(t, out, "up to date")
}

func TestMigrateCmd_Error(t *testing.T) {
	app, _ := testApp(t)
	app.Migrate = func(context.Context) error { return errors.New("dirty database version 3") }

	_, err := executeCmd(t, app, "migrate")
	assert.ErrorContains(t, err, "dirty")
}

// --- department ---

func TestDepartmentCreateCmd(t *testing.T) {
	app, deps := testApp(t)

	out, err := executeCmd(t, app, "department", "create", "--name", "Destination Development", "--pillar", "state-minister-destination")
	require.NoError(t, err)
	require.Len(t, deps.depts.created, 1)
	assert.Equal(t, "state-minister-destination", *deps.depts.created[0].Pillar)
	assert.Contains(t, out, "Destination Development")
}

func TestDepartmentCreateCmd_WithoutPillar(t *testing.T) {
	app, deps := testApp(t)

	_, err := executeCmd(t, app, "department", "create", "--name", "Finance")
	require.NoError(t, err)
	assert.Nil(t, deps.depts.created[0].Pillar)
}

func TestDepartmentCreateCmd_RequiresName(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "department", "create")
	assert.ErrorContains(t, err, "name")
}

func TestDepartmentListCmd(t *testing.T) {
	app, deps := testApp(t)
	pillar := "corporate"
	deps.depts.list = []dto.DepartmentResponse{{ID: "d1", Name: "Finance", Pillar: &pillar}}

	out, err := executeCmd(t, app, "department", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Finance")
	assert.Contains(t, out, "corporate")
}

// --- user ---

func TestUserCreateCmd(t *testing.T) {
	app, deps := testApp(t)

	out, err := executeCmd(t, app, "user", "create",
		"--username", "selam", "--role", "desk", "--department", "Finance", "--password", "Passw0rd!")
	require.NoError(t, err)
	require.Len(t, deps.users.created, 1)
	assert.Equal(t, "Finance", deps.users.created[0].Department)
	assert.Contains(t, out, "role desk")
}

func TestUserCreateCmd_MissingFlags(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "user", "create", "--username", "selam")
	assert.Error(t, err)
}

// --- export ---

func TestExportPlanCmd(t *testing.T) {
	app, deps := testApp(t)
	out := filepath.Join(t.TempDir(), "out.xlsx")

	_, err := executeCmd(t, app, "export", "plan", "plan-42", "--as", "head", "--out", out)
	require.NoError(t, err)
	assert.Equal(t, "user-head", deps.export.actorID)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "plan:plan-42", string(data))
}

func TestExportReportCmd_UnknownUser(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "export", "report", "r-1", "--as", "ghost", "--out", filepath.Join(t.TempDir(), "r.xlsx"))
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
