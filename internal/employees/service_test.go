package employees

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nippo-cloud/nippo/internal/shared"
)

func TestNormalizeEmail(t *testing.T) {
	// Full-width characters typed from a Japanese IME fold to ASCII so
	// the unique index treats both spellings as the same address.
	cases := []struct {
		in   string
		want string
	}{
		{"ｔａｒｏ＠ｅｘａｍｐｌｅ．ｃｏ．ｊｐ", "taro@example.co.jp"},
		{"taro@example.co.jp", "taro@example.co.jp"},
	}
	for _, c := range cases {
		if got := normalizeEmail(c.in); got != c.want {
			t.Fatalf("normalizeEmail(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

type fakeRepo struct {
	byID    map[int64]*Employee
	inUse   map[int64]bool
	updates map[string]any
}

func newFakeRepo(emps ...*Employee) *fakeRepo {
	r := &fakeRepo{byID: make(map[int64]*Employee), inUse: make(map[int64]bool)}
	for _, e := range emps {
		r.byID[e.ID] = e
	}
	return r
}

func (r *fakeRepo) Get(_ context.Context, id int64) (*Employee, error) {
	emp, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return emp, nil
}

func (r *fakeRepo) List(_ context.Context, _ ListEmployeesRequest, _, _ int) ([]Employee, int, error) {
	return nil, 0, nil
}

func (r *fakeRepo) Create(_ context.Context, emp Employee, _ string) (int64, error) {
	id := int64(len(r.byID) + 1)
	emp.ID = id
	r.byID[id] = &emp
	return id, nil
}

func (r *fakeRepo) Update(_ context.Context, id int64, updates map[string]any) error {
	if _, ok := r.byID[id]; !ok {
		return shared.ErrNotFound
	}
	r.updates = updates
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeRepo) InUse(_ context.Context, id int64) (bool, error) {
	return r.inUse[id], nil
}

func ptrInt64(v int64) *int64 { return &v }

func TestCreateRejectsInvalidManager(t *testing.T) {
	repo := newFakeRepo(
		&Employee{ID: 1, Name: "営業 一郎", Role: "sales", IsActive: true},
	)
	svc := NewService(repo)

	// A sales-role employee cannot be a manager.
	_, err := svc.Create(context.Background(), CreateEmployeeRequest{
		Name:      "営業 二郎",
		Email:     "jiro@example.co.jp",
		Password:  "password123",
		Role:      "sales",
		ManagerID: ptrInt64(1),
	})
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	// A missing manager is the caller's input being wrong, not a
	// missing target resource.
	_, err = svc.Create(context.Background(), CreateEmployeeRequest{
		Name:      "営業 三郎",
		Email:     "saburo@example.co.jp",
		Password:  "password123",
		Role:      "sales",
		ManagerID: ptrInt64(99),
	})
	require.ErrorIs(t, err, shared.ErrInvalidInput)
	require.NotErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateRejectsSelfManager(t *testing.T) {
	repo := newFakeRepo(
		&Employee{ID: 2, Name: "部長 花子", Role: "manager", IsActive: true},
	)
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), 2, UpdateEmployeeRequest{ManagerID: ptrInt64(2)})
	require.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestDeleteRefusesEmployeeInUse(t *testing.T) {
	repo := newFakeRepo(
		&Employee{ID: 3, Name: "営業 一郎", Role: "sales", IsActive: true},
	)
	repo.inUse[3] = true
	svc := NewService(repo)

	err := svc.Delete(context.Background(), 3)
	require.ErrorIs(t, err, shared.ErrInUse)
	require.Contains(t, repo.byID, int64(3))
}
