package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qr-request-manager/models"
	"qr-request-manager/store"
	"qr-request-manager/testutil"
)

func TestAddRewardEntryValidation(t *testing.T) {
	s := testutil.NewTestStore(t)

	var verr *store.ValidationError
	_, err := s.AddRewardEntry("", "5550001111", 10, "bonus")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	_, err = s.AddRewardEntry("Ada", "  ", 10, "bonus")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "phone", verr.Field)

	entry, err := s.AddRewardEntry(" Ada ", " 5550001111 ", -5, " deduction ")
	require.NoError(t, err)
	assert.Equal(t, "Ada", entry.Name)
	assert.Equal(t, "5550001111", entry.Phone)
	assert.Equal(t, -5, entry.Points)
	assert.Equal(t, "deduction", entry.Reason)
}

func TestAdjustmentSumExactIdentity(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.AddRewardEntry("Ada", "5550001111", 10, "bonus")
	require.NoError(t, err)
	_, err = s.AddRewardEntry("Ada", "5550001111", -3, "correction")
	require.NoError(t, err)
	_, err = s.AddRewardEntry("ada", "5550001111", 100, "different identity")
	require.NoError(t, err)
	_, err = s.AddRewardEntry("Ada", "555-000-1111", 100, "different identity")
	require.NoError(t, err)

	sum, err := s.AdjustmentSum("Ada", "5550001111")
	require.NoError(t, err)
	assert.Equal(t, 7, sum, "case and formatting variants are separate identities")

	sum, err = s.AdjustmentSum("Nobody", "5559999999")
	require.NoError(t, err)
	assert.Zero(t, sum)
}

func TestBalanceFloorsAtZero(t *testing.T) {
	s := testutil.NewTestStore(t)

	req, err := s.CreateRequest("earn", "", store.RequestOptions{Points: 10})
	require.NoError(t, err)
	_, err = s.SubmitByToken(req.Token, "Ada", "5550001111", "")
	require.NoError(t, err)

	_, err = s.AddRewardEntry("Ada", "5550001111", -25, "big deduction")
	require.NoError(t, err)

	balance, err := s.Balance("Ada", "5550001111")
	require.NoError(t, err)
	assert.Zero(t, balance, "net negative floors at zero")

	assert.Equal(t, 0, store.ComputeBalance(10, -25))
	assert.Equal(t, 15, store.ComputeBalance(10, 5))
	assert.Equal(t, 0, store.ComputeBalance(0, 0))
}

func TestPayInFull(t *testing.T) {
	s := testutil.NewTestStore(t)

	req, err := s.CreateRequest("earn", "", store.RequestOptions{Points: 10})
	require.NoError(t, err)
	_, err = s.SubmitByToken(req.Token, "Ada", "5550001111", "")
	require.NoError(t, err)
	_, err = s.AddRewardEntry("Ada", "5550001111", 5, "bonus")
	require.NoError(t, err)

	paid, err := s.PayInFull("Ada", "5550001111")
	require.NoError(t, err)
	assert.Equal(t, 15, paid)

	balance, err := s.Balance("Ada", "5550001111")
	require.NoError(t, err)
	assert.Zero(t, balance)

	entries, err := s.ListRewardEntries("Ada", "5550001111")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, -15, entries[0].Points)
	assert.Equal(t, models.PayoutReason, entries[0].Reason)

	// Paying a zero balance appends nothing.
	paid, err = s.PayInFull("Ada", "5550001111")
	require.NoError(t, err)
	assert.Zero(t, paid)
	entries, err = s.ListRewardEntries("Ada", "5550001111")
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	// New earnings after payout are payable again.
	other, err := s.CreateRequest("more", "", store.RequestOptions{Points: 3})
	require.NoError(t, err)
	_, err = s.SubmitByToken(other.Token, "Ada", "5550001111", "")
	require.NoError(t, err)
	paid, err = s.PayInFull("Ada", "5550001111")
	require.NoError(t, err)
	assert.Equal(t, 3, paid)
}

func TestClearRewardEntries(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.AddRewardEntry("Ada", "5550001111", 10, "bonus")
	require.NoError(t, err)
	_, err = s.AddRewardEntry("Ada", "5550001111", -2, "correction")
	require.NoError(t, err)
	_, err = s.AddRewardEntry("Grace", "5550002222", 7, "bonus")
	require.NoError(t, err)

	removed, err := s.ClearRewardEntries("Ada", "5550001111")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	sum, err := s.AdjustmentSum("Ada", "5550001111")
	require.NoError(t, err)
	assert.Zero(t, sum)
	sum, err = s.AdjustmentSum("Grace", "5550002222")
	require.NoError(t, err)
	assert.Equal(t, 7, sum)
}

func TestAggregateIdentities(t *testing.T) {
	s := testutil.NewTestStore(t)

	high, err := s.CreateRequest("high value", "", store.RequestOptions{Points: 20})
	require.NoError(t, err)
	low, err := s.CreateRequest("low value", "", store.RequestOptions{Points: 2})
	require.NoError(t, err)

	_, err = s.SubmitByToken(high.Token, "Ada", "5550001111", "")
	require.NoError(t, err)
	_, err = s.SubmitByToken(low.Token, "Ada", "5550001111", "")
	require.NoError(t, err)
	_, err = s.SubmitByToken(low.Token, "Grace", "5550002222", "")
	require.NoError(t, err)
	_, err = s.AddRewardEntry("Grace", "5550002222", -1, "correction")
	require.NoError(t, err)

	rows, err := s.AggregateIdentities(store.IdentityFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Ada", rows[0].Name)
	assert.Equal(t, 2, rows[0].Submissions)
	assert.Equal(t, 22, rows[0].Earned)
	assert.Equal(t, 0, rows[0].Adjustments)
	assert.Equal(t, 22, rows[0].Balance)

	assert.Equal(t, "Grace", rows[1].Name)
	assert.Equal(t, 1, rows[1].Submissions)
	assert.Equal(t, 2, rows[1].Earned)
	assert.Equal(t, -1, rows[1].Adjustments)
	assert.Equal(t, 1, rows[1].Balance)
}

func TestAggregateIdentitiesFilters(t *testing.T) {
	s := testutil.NewTestStore(t)

	req, err := s.CreateRequest("filtered", "", store.RequestOptions{Points: 1})
	require.NoError(t, err)
	_, err = s.SubmitByToken(req.Token, "Ada Lovelace", "5550001111", "")
	require.NoError(t, err)
	_, err = s.SubmitByToken(req.Token, "Grace Hopper", "5550002222", "")
	require.NoError(t, err)

	rows, err := s.AggregateIdentities(store.IdentityFilter{Name: "ada"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ada Lovelace", rows[0].Name)

	rows, err = s.AggregateIdentities(store.IdentityFilter{Phone: "2222"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Grace Hopper", rows[0].Name)

	future := time.Now().Add(time.Hour)
	rows, err = s.AggregateIdentities(store.IdentityFilter{From: &future})
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = s.AggregateIdentities(store.IdentityFilter{To: &future})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
