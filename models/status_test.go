package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"donor", "volunteer", "admin"} {
		r, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, Role(s), r)
	}
	for _, s := range []string{"", "Admin", "superuser"} {
		_, err := ParseRole(s)
		assert.Error(t, err, s)
	}
}

func TestRoleIsStaff(t *testing.T) {
	assert.False(t, RoleDonor.IsStaff())
	assert.True(t, RoleVolunteer.IsStaff())
	assert.True(t, RoleAdmin.IsStaff())
}

func TestParseRequestStatus(t *testing.T) {
	st, err := ParseRequestStatus("in-progress")
	require.NoError(t, err)
	assert.Equal(t, RequestInProgress, st)

	st, err = ParseRequestStatus("done")
	require.NoError(t, err)
	assert.Equal(t, RequestDone, st)

	_, err = ParseRequestStatus("finished")
	assert.Error(t, err)
}

func TestParseStatuses(t *testing.T) {
	_, err := ParseUserStatus("blocked")
	assert.NoError(t, err)
	_, err = ParseUserStatus("banned")
	assert.Error(t, err)

	_, err = ParseBlogStatus("published")
	assert.NoError(t, err)
	_, err = ParseBlogStatus("archived")
	assert.Error(t, err)
}

func TestValidBloodGroup(t *testing.T) {
	assert.True(t, ValidBloodGroup("AB-"))
	assert.False(t, ValidBloodGroup("AB"))
	assert.False(t, ValidBloodGroup("a+"))
}

func TestProfileUpdateFields(t *testing.T) {
	fields := ProfileUpdate{Name: "N", Upazila: "U"}.Fields()
	assert.Equal(t, map[string]any{"name": "N", "upazila": "U"}, fields)
	assert.Empty(t, ProfileUpdate{}.Fields())
}

func TestDonationRequestUpdateFields(t *testing.T) {
	hospital := "H"
	status := "in-progress"
	fields, err := DonationRequestUpdate{HospitalName: &hospital, Status: &status}.Fields()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"hospitalName": "H", "status": RequestInProgress}, fields)

	bad := "lost"
	_, err = DonationRequestUpdate{Status: &bad}.Fields()
	assert.Error(t, err)
}

func TestPaymentAmount(t *testing.T) {
	price := 12.5
	assert.Equal(t, 12.5, Payment{Price: &price}.Amount())
	assert.Zero(t, Payment{}.Amount())
}

func TestRequestStatusNeedsDonor(t *testing.T) {
	assert.False(t, RequestPending.NeedsDonor())
	assert.False(t, RequestCanceled.NeedsDonor())
	assert.True(t, RequestInProgress.NeedsDonor())
	assert.True(t, RequestDone.NeedsDonor())
}
