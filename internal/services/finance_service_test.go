package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-erp-backend/internal/domain"
)

func TestFinance_CreateInvoice_TotalsAndNumber(t *testing.T) {
	db := newTestDB(t)
	s := NewFinanceService(db, nil)
	s.Now = clock()
	ctx := context.Background()

	pid := "prod-1"
	inv, err := s.CreateInvoice(ctx, InvoiceInput{
		Customer: "Acme",
		DueDate:  "2025-06-01",
		Items: []InvoiceLine{
			{ID: &pid, Name: "Widget", Price: 10, Quantity: 2},
			{Price: 50, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, float64(70), inv.Amount)
	assert.Equal(t, 2, inv.Items)
	assert.Equal(t, "INV-00001", inv.InvoiceNumber)
	assert.Equal(t, "Pending", inv.Status)
	assert.Equal(t, "2025-05-01", inv.Date)

	got, err := s.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, got.LineItems, 2)
	assert.Equal(t, "Widget", got.LineItems[0].Description)
	require.NotNil(t, got.LineItems[0].ProductID)
	assert.Equal(t, "prod-1", *got.LineItems[0].ProductID)
	assert.Equal(t, "Item", got.LineItems[1].Description)
	assert.Nil(t, got.LineItems[1].ProductID)
	assert.Equal(t, float64(20), got.LineItems[0].Amount)

	next, err := s.CreateInvoice(ctx, InvoiceInput{Customer: "Globex"})
	require.NoError(t, err)
	assert.Equal(t, "INV-00002", next.InvoiceNumber)
	assert.Equal(t, float64(0), next.Amount)

	empty, err := s.GetInvoice(ctx, next.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty.LineItems)
}

func TestFinance_CreateInvoice_ParallelNumbersAreUnique(t *testing.T) {
	s := NewFinanceService(newTestDB(t), nil)
	ctx := context.Background()
	const n = 20

	var wg sync.WaitGroup
	numbers := make([]string, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			inv, err := s.CreateInvoice(ctx, InvoiceInput{Customer: "Acme"})
			errs[i] = err
			if err == nil {
				numbers[i] = inv.InvoiceNumber
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for i := range numbers {
		require.NoError(t, errs[i])
		assert.False(t, seen[numbers[i]], "duplicate %s", numbers[i])
		seen[numbers[i]] = true
	}
	assert.Len(t, seen, n)
	assert.True(t, seen["INV-00001"])
	assert.True(t, seen["INV-00020"])

	list, err := s.Invoices.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, n)
}

func TestFinance_CreateInvoice_Rejections(t *testing.T) {
	s := NewFinanceService(newTestDB(t), nil)
	ctx := context.Background()

	_, err := s.CreateInvoice(ctx, InvoiceInput{Items: []InvoiceLine{{Quantity: -1, Price: 3}}})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "items[0]", ve.Field)

	_, err = s.CreateInvoice(ctx, InvoiceInput{Status: "Void"})
	assert.True(t, errors.As(err, &ve))

	rows, err := s.Invoices.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFinance_DeleteInvoice_RemovesLines(t *testing.T) {
	db := newTestDB(t)
	s := NewFinanceService(db, nil)
	ctx := context.Background()

	inv, err := s.CreateInvoice(ctx, InvoiceInput{Items: []InvoiceLine{{Price: 1, Quantity: 1}}})
	require.NoError(t, err)

	require.NoError(t, s.DeleteInvoice(ctx, inv.ID))
	require.NoError(t, s.DeleteInvoice(ctx, inv.ID), "second delete is still a success")

	var lines int64
	require.NoError(t, db.Model(&domain.InvoiceItem{}).Count(&lines).Error)
	assert.Zero(t, lines)
	_, err = s.GetInvoice(ctx, inv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFinance_InvoiceStatus(t *testing.T) {
	s := NewFinanceService(newTestDB(t), nil)
	ctx := context.Background()
	inv, err := s.CreateInvoice(ctx, InvoiceInput{Customer: "Acme"})
	require.NoError(t, err)

	out, err := s.Invoices.SetStatus(ctx, inv.ID, "Paid")
	require.NoError(t, err)
	assert.Equal(t, "Paid", out.Status)
	assert.Equal(t, inv.InvoiceNumber, out.InvoiceNumber)
}
