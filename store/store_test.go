package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qr-request-manager/models"
	"qr-request-manager/store"
	"qr-request-manager/testutil"
)

func TestSettingsUpsert(t *testing.T) {
	s := testutil.NewTestStore(t)

	val, err := s.GetSetting(models.SettingBaseURL, "http://localhost:5200")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5200", val, "default when unset")

	require.NoError(t, s.SetSetting(models.SettingBaseURL, "https://a.example.com"))
	require.NoError(t, s.SetSetting(models.SettingBaseURL, "https://b.example.com"))

	val, err = s.GetSetting(models.SettingBaseURL, "")
	require.NoError(t, err)
	assert.Equal(t, "https://b.example.com", val, "last write wins")

	settings, err := s.ListSettings()
	require.NoError(t, err)
	assert.Len(t, settings, 1)

	var verr *store.ValidationError
	assert.ErrorAs(t, s.SetSetting("", "x"), &verr)
}

func TestWipeRequiresConfirmation(t *testing.T) {
	s := testutil.NewTestStore(t)

	req, err := s.CreateRequest("to wipe", "", store.RequestOptions{Points: 1})
	require.NoError(t, err)
	_, err = s.SubmitByToken(req.Token, "Ada", "5550001111", "")
	require.NoError(t, err)
	_, err = s.AddRewardEntry("Ada", "5550001111", 5, "bonus")
	require.NoError(t, err)
	require.NoError(t, s.SetSetting(models.SettingBaseURL, "https://example.com"))

	assert.ErrorIs(t, s.Wipe(""), store.ErrWipeNotConfirmed)
	assert.ErrorIs(t, s.Wipe("delete"), store.ErrWipeNotConfirmed)

	// Nothing was touched.
	reqs, err := s.ListRequests("")
	require.NoError(t, err)
	assert.Len(t, reqs, 1)

	require.NoError(t, s.Wipe(store.WipeConfirmToken))

	reqs, err = s.ListRequests("")
	require.NoError(t, err)
	assert.Empty(t, reqs)
	subs, err := s.ListSubmissions(req.ID)
	require.NoError(t, err)
	assert.Empty(t, subs)
	sum, err := s.AdjustmentSum("Ada", "5550001111")
	require.NoError(t, err)
	assert.Zero(t, sum)
	val, err := s.GetSetting(models.SettingBaseURL, "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", val)
}

func TestMigrateIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	// NewTestDB already migrated once.
	require.NoError(t, store.Migrate(db))
	require.NoError(t, store.Migrate(db))
}
