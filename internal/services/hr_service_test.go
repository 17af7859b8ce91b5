package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-erp-backend/internal/domain"
)

func seedEmployee(t *testing.T, s *HRService) *domain.Employee {
	t.Helper()
	e, err := s.Employees.Create(context.Background(), &domain.Employee{
		FirstName: "Grace", LastName: "Hopper", Email: "grace@x.io", Department: "Development",
	})
	require.NoError(t, err)
	return e
}

func TestHR_CreateLeave_FillsFromEmployee(t *testing.T) {
	db := newTestDB(t)
	s := NewHRService(db, nil)
	emp := seedEmployee(t, s)

	l, err := s.Leaves.Create(context.Background(), &domain.Leave{
		EmployeeID: emp.ID, Type: "Annual", StartDate: "2025-07-01", EndDate: "2025-07-05",
	})
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", l.EmployeeName)
	assert.Equal(t, "Development", l.Department)
	assert.Equal(t, domain.LeavePending, l.Status)
	assert.Equal(t, 5, l.Days)
}

func TestHR_CreateLeave_UnknownOrMissingEmployee(t *testing.T) {
	s := NewHRService(newTestDB(t), nil)
	ctx := context.Background()

	for _, id := range []string{"", "ghost"} {
		_, err := s.Leaves.Create(ctx, &domain.Leave{EmployeeID: id})
		var ve *domain.ValidationError
		require.True(t, errors.As(err, &ve), "employeeId %q: got %v", id, err)
		assert.Equal(t, "employeeId", ve.Field)
	}
}

func TestHR_EmployeeLeaves_OrderedByStartDate(t *testing.T) {
	db := newTestDB(t)
	s := NewHRService(db, nil)
	ctx := context.Background()
	emp := seedEmployee(t, s)

	for _, d := range []string{"2025-02-01", "2025-09-01", "2025-05-01"} {
		_, err := s.Leaves.Create(ctx, &domain.Leave{EmployeeID: emp.ID, StartDate: d, EndDate: d})
		require.NoError(t, err)
	}
	leaves, err := s.EmployeeLeaves(ctx, emp.ID)
	require.NoError(t, err)
	require.Len(t, leaves, 3)
	assert.Equal(t, "2025-09-01", leaves[0].StartDate)
	assert.Equal(t, "2025-02-01", leaves[2].StartDate)

	_, err = s.EmployeeLeaves(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHR_PendingLeavesAndStatus(t *testing.T) {
	db := newTestDB(t)
	s := NewHRService(db, nil)
	ctx := context.Background()
	emp := seedEmployee(t, s)

	a, err := s.Leaves.Create(ctx, &domain.Leave{EmployeeID: emp.ID})
	require.NoError(t, err)
	_, err = s.Leaves.Create(ctx, &domain.Leave{EmployeeID: emp.ID})
	require.NoError(t, err)

	_, err = s.Leaves.SetStatus(ctx, a.ID, domain.LeaveApproved)
	require.NoError(t, err)

	pending, err := s.PendingLeaves(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.NotEqual(t, a.ID, pending[0].ID)
}

func TestHR_DeleteEmployee_RemovesLeaves(t *testing.T) {
	db := newTestDB(t)
	s := NewHRService(db, nil)
	ctx := context.Background()
	emp := seedEmployee(t, s)
	_, err := s.Leaves.Create(ctx, &domain.Leave{EmployeeID: emp.ID})
	require.NoError(t, err)

	require.NoError(t, s.Employees.Delete(ctx, emp.ID))
	leaves, err := s.Leaves.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, leaves)
}
