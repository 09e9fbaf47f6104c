package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoanHandler_Borrow(t *testing.T) {
	app, db := testApp(t)

	book := seedBook(t, db, "Dune", "978-0441172719", 1)
	member := seedMember(t, db, "Alice Johnson", "alice@example.com", true)
	inactive := seedMember(t, db, "Bob Smith", "bob@example.com", false)
	rival := seedMember(t, db, "Carol White", "carol@example.com", true)

	t.Run("member not found", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/v1/loans/borrow",
			map[string]uint{"member_id": 999, "book_id": book.ID})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, false, body["success"])
	})

	t.Run("inactive member", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/loans/borrow",
			map[string]uint{"member_id": inactive.ID, "book_id": book.ID})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("book not found", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/loans/borrow",
			map[string]uint{"member_id": member.ID, "book_id": 999})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("missing ids", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/loans/borrow",
			map[string]uint{"member_id": member.ID})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("successful borrow", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/v1/loans/borrow",
			map[string]uint{"member_id": member.ID, "book_id": book.ID})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		data := body["data"].(map[string]interface{})
		loan := data["loan"].(map[string]interface{})
		assert.NotEmpty(t, loan["reference"])
		assert.Nil(t, loan["returned_date"])
	})

	t.Run("duplicate active loan", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/loans/borrow",
			map[string]uint{"member_id": member.ID, "book_id": book.ID})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("no copies available", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/loans/borrow",
			map[string]uint{"member_id": rival.ID, "book_id": book.ID})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestLoanHandler_Return(t *testing.T) {
	app, db := testApp(t)

	book := seedBook(t, db, "Dune", "978-0441172719", 1)
	member := seedMember(t, db, "Alice Johnson", "alice@example.com", true)

	t.Run("no active loan", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/loans/return",
			map[string]uint{"member_id": member.ID, "book_id": book.ID})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("round trip", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/loans/borrow",
			map[string]uint{"member_id": member.ID, "book_id": book.ID})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, body := doJSON(t, app, http.MethodPost, "/api/v1/loans/return",
			map[string]uint{"member_id": member.ID, "book_id": book.ID})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		data := body["data"].(map[string]interface{})
		loan := data["loan"].(map[string]interface{})
		assert.NotNil(t, loan["returned_date"])
		assert.Equal(t, float64(0), loan["fine_amount"])
	})
}

func TestLoanHandler_GetActiveLoans(t *testing.T) {
	app, db := testApp(t)

	book := seedBook(t, db, "Dune", "978-0441172719", 1)
	member := seedMember(t, db, "Alice Johnson", "alice@example.com", true)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/v1/loans/borrow",
		map[string]uint{"member_id": member.ID, "book_id": book.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/v1/loans/member/%d", member.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["count"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/loans/member/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/loans/member/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoanHandler_GetFines(t *testing.T) {
	app, db := testApp(t)

	member := seedMember(t, db, "Alice Johnson", "alice@example.com", true)

	resp, body := doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/v1/loans/member/%d/fines", member.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["total_fines"])
	assert.Equal(t, float64(0), data["active_overdue_loans"])
	assert.Equal(t, float64(0), data["unpaid_returned_fines"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/v1/loans/member/999/fines", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
