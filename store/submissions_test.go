package store_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qr-request-manager/models"
	"qr-request-manager/store"
	"qr-request-manager/testutil"
)

func TestSubmitByToken(t *testing.T) {
	s := testutil.NewTestStore(t)

	req, err := s.CreateRequest("signup", "", store.RequestOptions{Points: 10})
	require.NoError(t, err)

	sub, err := s.SubmitByToken(req.Token, "  Ada Lovelace  ", " +1 (555) 000-1111 ", " ada@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", sub.Name)
	assert.Equal(t, "+1 (555) 000-1111", sub.Phone)
	assert.Equal(t, "15550001111", sub.PhoneNormalized)
	assert.Equal(t, "ada@example.com", sub.Email)

	got, err := s.GetRequest(req.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.UsedCount)
}

func TestSubmitValidation(t *testing.T) {
	s := testutil.NewTestStore(t)

	req, err := s.CreateRequest("strict", "", store.RequestOptions{})
	require.NoError(t, err)

	cases := []struct {
		label string
		name  string
		phone string
		email string
		field string
	}{
		{"empty name", "", "5550001111", "", "name"},
		{"one char name", "A", "5550001111", "", "name"},
		{"empty phone", "Ada", "", "", "phone"},
		{"letters in phone", "Ada", "555-CALL-NOW", "", "phone"},
		{"too few digits", "Ada", "12 345", "", "phone"},
		{"too many digits", "Ada", "123456789012345678901", "", "phone"},
		{"bad email", "Ada", "5550001111", "not-an-email", "email"},
		{"email without dot", "Ada", "5550001111", "ada@example", "email"},
	}
	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			_, err := s.SubmitByToken(req.Token, tc.name, tc.phone, tc.email)
			var verr *store.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}

	// Rejected submissions never consume the token.
	got, err := s.GetRequest(req.ID)
	require.NoError(t, err)
	assert.Zero(t, got.UsedCount)

	// Email is optional.
	_, err = s.SubmitByToken(req.Token, "Ada", "5550001111", "")
	assert.NoError(t, err)
}

func TestDuplicatePhoneFormattingVariants(t *testing.T) {
	s := testutil.NewTestStore(t)

	req, err := s.CreateRequest("dedupe", "", store.RequestOptions{})
	require.NoError(t, err)

	_, err = s.SubmitByToken(req.Token, "Ada", "+1 (555) 000-1111", "")
	require.NoError(t, err)

	// Same digits, different formatting, even a different name.
	for _, phone := range []string{"15550001111", "1-555-000-1111", "+1 555 000 1111"} {
		_, err = s.SubmitByToken(req.Token, "Grace", phone, "")
		var derr *store.DuplicateSubmissionError
		require.ErrorAs(t, err, &derr, "phone %q", phone)
	}

	// Duplicates never consume the token either.
	got, err := s.GetRequest(req.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.UsedCount)

	// The same phone is fine on a different request.
	other, err := s.CreateRequest("other", "", store.RequestOptions{})
	require.NoError(t, err)
	_, err = s.SubmitByToken(other.Token, "Ada", "15550001111", "")
	assert.NoError(t, err)
}

func TestTokenStates(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.SubmitByToken("deadbeefdeadbeefdeadbeefdeadbeef", "Ada", "5550001111", "")
	var terr *store.TokenStateError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, models.TokenUnknown, terr.State)

	closed, err := s.CreateRequest("closed", "", store.RequestOptions{})
	require.NoError(t, err)
	require.NoError(t, s.UpdateStatus(closed.ID, models.RequestStatusClosed))
	_, err = s.SubmitByToken(closed.Token, "Ada", "5550001111", "")
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, models.TokenClosed, terr.State)

	oneTime, err := s.CreateRequest("one shot", "", store.RequestOptions{OneTimeUse: true})
	require.NoError(t, err)
	_, err = s.SubmitByToken(oneTime.Token, "Ada", "5550001111", "")
	require.NoError(t, err)
	_, err = s.SubmitByToken(oneTime.Token, "Grace", "5550002222", "")
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, models.TokenExhausted, terr.State)

	// Closed wins over exhausted when both apply.
	require.NoError(t, s.UpdateStatus(oneTime.ID, models.RequestStatusClosed))
	_, err = s.SubmitByToken(oneTime.Token, "Grace", "5550002222", "")
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, models.TokenClosed, terr.State)
}

func TestOneTimeTokenRace(t *testing.T) {
	s := testutil.NewTestStore(t)

	req, err := s.CreateRequest("golden ticket", "", store.RequestOptions{OneTimeUse: true})
	require.NoError(t, err)

	const workers = 50
	var wins, exhausted atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			phone := fmt.Sprintf("55500011%02d", i)
			_, err := s.SubmitByToken(req.Token, "Racer", phone, "")
			if err == nil {
				wins.Add(1)
				return
			}
			var terr *store.TokenStateError
			if assert.ErrorAs(t, err, &terr) {
				exhausted.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins.Load(), "exactly one submission wins")
	assert.Equal(t, int64(workers-1), exhausted.Load())

	got, err := s.GetRequest(req.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.UsedCount)
	count, err := s.CountSubmissions(req.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDuplicateRollsBackConsume(t *testing.T) {
	s := testutil.NewTestStore(t)

	req, err := s.CreateRequest("rollback", "", store.RequestOptions{OneTimeUse: true})
	require.NoError(t, err)

	_, err = s.SubmitByToken(req.Token, "Ada", "5550001111", "")
	require.NoError(t, err)

	// Reopen the gate, then fail on the duplicate constraint. The consume
	// in the same transaction must be rolled back with it.
	require.NoError(t, s.SetOneTimeUse(req.ID, false))
	_, err = s.SubmitByToken(req.Token, "Ada", "(555) 000-1111", "")
	var derr *store.DuplicateSubmissionError
	require.ErrorAs(t, err, &derr)

	got, err := s.GetRequest(req.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.UsedCount)
}

func TestAddSubmissionBypassesGate(t *testing.T) {
	s := testutil.NewTestStore(t)

	req, err := s.CreateRequest("manual", "", store.RequestOptions{})
	require.NoError(t, err)
	require.NoError(t, s.UpdateStatus(req.ID, models.RequestStatusClosed))

	sub, err := s.AddSubmission(req.ID, "Ada", "5550001111", "")
	require.NoError(t, err)
	assert.Equal(t, req.ID, sub.RequestID)

	// Duplicate check still applies.
	_, err = s.AddSubmission(req.ID, "Ada", "555-000-1111", "")
	var derr *store.DuplicateSubmissionError
	assert.ErrorAs(t, err, &derr)

	_, err = s.AddSubmission(9999, "Ada", "5550002222", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListSubmissionsNewestFirst(t *testing.T) {
	s := testutil.NewTestStore(t)

	req, err := s.CreateRequest("order", "", store.RequestOptions{})
	require.NoError(t, err)

	_, err = s.SubmitByToken(req.Token, "First", "5550001111", "")
	require.NoError(t, err)
	_, err = s.SubmitByToken(req.Token, "Second", "5550002222", "")
	require.NoError(t, err)

	subs, err := s.ListSubmissions(req.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "Second", subs[0].Name)
	assert.Equal(t, "First", subs[1].Name)
}
