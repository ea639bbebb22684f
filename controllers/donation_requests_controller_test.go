package controllers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/blood-donation-go/models"
)

func validRequestBody() gin.H {
	return gin.H{
		"recipientName":     "Rahim",
		"recipientDistrict": "Dhaka",
		"recipientUpazila":  "Dhanmondi",
		"hospitalName":      "Dhaka Medical",
		"fullAddress":       "Road 1",
		"bloodGroup":        "B-",
		"donationDate":      "2026-11-01",
		"donationTime":      "09:30",
		"requesterEmail":    "someone-else@example.com",
		"status":            "done",
	}
}

func TestCreateDonationRequest(t *testing.T) {
	h := newHarness(t)
	h.seedUser("me@example.com", models.RoleDonor, models.UserActive)

	w := h.do(http.MethodPost, "/donation-requests", "me@example.com", validRequestBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[map[string]any](t, w)["insertedId"].(string)

	req, err := h.env.Store.DonationRequests.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", req.RequesterEmail)
	assert.Equal(t, "User me@example.com", req.RequesterName)
	assert.Equal(t, models.RequestPending, req.Status)
}

func TestCreateDonationRequestBlockedUser(t *testing.T) {
	h := newHarness(t)
	h.seedUser("blocked@example.com", models.RoleDonor, models.UserBlocked)

	w := h.do(http.MethodPost, "/donation-requests", "blocked@example.com", validRequestBody())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "blocked users cannot create requests", decode[map[string]string](t, w)["message"])
	assert.Zero(t, h.mem.Calls("requests.Insert"))
}

func TestCreateDonationRequestUnregisteredOrAnonymous(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodPost, "/donation-requests", "", validRequestBody()).Code)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodPost, "/donation-requests", "ghost@example.com", validRequestBody()).Code)
	assert.Zero(t, h.mem.Mutations())
}

func TestCreateDonationRequestValidation(t *testing.T) {
	h := newHarness(t)
	h.seedUser("me@example.com", models.RoleDonor, models.UserActive)

	body := validRequestBody()
	body["bloodGroup"] = "Z"
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/donation-requests", "me@example.com", body).Code)

	body = validRequestBody()
	delete(body, "hospitalName")
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/donation-requests", "me@example.com", body).Code)

	assert.Zero(t, h.mem.Calls("requests.Insert"))
}

func TestRecentDonationRequests(t *testing.T) {
	h := newHarness(t)
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, h.seedRequest("me@example.com", models.RequestPending))
	}
	h.seedRequest("other@example.com", models.RequestPending)

	w := h.do(http.MethodGet, "/donation-requests/recent/me@example.com", "me@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[[]models.DonationRequest](t, w)
	require.Len(t, got, 3)
	assert.Equal(t, ids[4], got[0].ID.Hex())
	assert.Equal(t, ids[3], got[1].ID.Hex())
	assert.Equal(t, ids[2], got[2].ID.Hex())

	w = h.do(http.MethodGet, "/donation-requests/me@example.com", "me@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.DonationRequest](t, w), 5)
}

func TestListByRequesterIsOwnerOnly(t *testing.T) {
	h := newHarness(t)
	h.seedUser("admin@example.com", models.RoleAdmin, models.UserActive)
	h.seedRequest("me@example.com", models.RequestPending)

	assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/donation-requests/me@example.com", "intruder@example.com", nil).Code)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/donation-requests/recent/me@example.com", "admin@example.com", nil).Code)
}

func TestGetDonationRequest(t *testing.T) {
	h := newHarness(t)
	id := h.seedRequest("me@example.com", models.RequestPending)

	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodGet, "/donation-request-details/"+id, "", nil).Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/donation-request-details/"+id, "anyone@example.com", nil).Code)
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/donation-request-details/xyz", "anyone@example.com", nil).Code)
	missing := primitive.NewObjectID().Hex()
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodGet, "/donation-request-details/"+missing, "anyone@example.com", nil).Code)
}

func TestUpdateDonationRequest(t *testing.T) {
	h := newHarness(t)
	h.seedUser("vol@example.com", models.RoleVolunteer, models.UserActive)
	id := h.seedRequest("me@example.com", models.RequestPending)

	w := h.do(http.MethodPatch, "/donation-requests/"+id, "me@example.com", gin.H{
		"hospitalName":   "New Hospital",
		"requesterEmail": "thief@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.do(http.MethodPatch, "/donation-requests/"+id, "vol@example.com", gin.H{"status": "canceled"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	req, err := h.env.Store.DonationRequests.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "New Hospital", req.HospitalName)
	assert.Equal(t, "me@example.com", req.RequesterEmail)
	assert.Equal(t, models.RequestCanceled, req.Status)
}

func TestUpdateDonationRequestCannotForgeDonation(t *testing.T) {
	h := newHarness(t)
	h.seedUser("donor@example.com", models.RoleDonor, models.UserActive)
	id := h.seedRequest("me@example.com", models.RequestPending)

	for _, status := range []string{"done", "in-progress"} {
		w := h.do(http.MethodPatch, "/donation-requests/"+id, "me@example.com", gin.H{
			"status":     status,
			"donorEmail": "ghost@example.com",
			"donorName":  "Ghost",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, status)
	}

	// Donor fields alone are not part of the allowlist.
	w := h.do(http.MethodPatch, "/donation-requests/"+id, "me@example.com", gin.H{"donorEmail": "ghost@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, h.mem.Calls("requests.Update"))

	w = h.do(http.MethodGet, "/public-stats", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode[map[string]any](t, w)["doneDonations"])

	// Once a donor is attached the owner may close the request.
	require.Equal(t, http.StatusOK, h.do(http.MethodPatch, "/donation-requests/"+id+"/donate", "donor@example.com", nil).Code)
	w = h.do(http.MethodPatch, "/donation-requests/"+id, "me@example.com", gin.H{"status": "done", "donorEmail": "ghost@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	req, err := h.env.Store.DonationRequests.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.RequestDone, req.Status)
	assert.Equal(t, "donor@example.com", req.DonorEmail)
}

func TestUpdateDonationRequestRejects(t *testing.T) {
	h := newHarness(t)
	h.seedUser("don@example.com", models.RoleDonor, models.UserActive)
	id := h.seedRequest("me@example.com", models.RequestPending)

	assert.Equal(t, http.StatusForbidden,
		h.do(http.MethodPatch, "/donation-requests/"+id, "don@example.com", gin.H{"hospitalName": "X"}).Code)
	assert.Equal(t, http.StatusBadRequest,
		h.do(http.MethodPatch, "/donation-requests/"+id, "me@example.com", gin.H{"status": "lost"}).Code)
	assert.Equal(t, http.StatusBadRequest,
		h.do(http.MethodPatch, "/donation-requests/"+id, "me@example.com", gin.H{"_id": "x"}).Code)
	assert.Zero(t, h.mem.Calls("requests.Update"))
}

func TestDeleteDonationRequestByNonOwner(t *testing.T) {
	h := newHarness(t)
	h.seedUser("don@example.com", models.RoleDonor, models.UserActive)
	id := h.seedRequest("me@example.com", models.RequestPending)

	w := h.do(http.MethodDelete, "/donation-requests/"+id, "don@example.com", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	_, err := h.env.Store.DonationRequests.FindByID(context.Background(), id)
	assert.NoError(t, err)
	assert.Zero(t, h.mem.Calls("requests.Delete"))
}

func TestDeleteDonationRequestByOwnerAndStaff(t *testing.T) {
	h := newHarness(t)
	h.seedUser("admin@example.com", models.RoleAdmin, models.UserActive)
	mine := h.seedRequest("me@example.com", models.RequestPending)
	theirs := h.seedRequest("other@example.com", models.RequestPending)

	assert.Equal(t, http.StatusOK, h.do(http.MethodDelete, "/donation-requests/"+mine, "me@example.com", nil).Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodDelete, "/donation-requests/"+theirs, "admin@example.com", nil).Code)
	assert.Equal(t, http.StatusNotFound, h.do(http.MethodDelete, "/donation-requests/"+mine, "me@example.com", nil).Code)

	n, err := h.env.Store.DonationRequests.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListAllDonationRequests(t *testing.T) {
	h := newHarness(t)
	h.seedUser("vol@example.com", models.RoleVolunteer, models.UserActive)
	h.seedUser("don@example.com", models.RoleDonor, models.UserActive)
	h.seedRequest("a@example.com", models.RequestPending)
	h.seedRequest("b@example.com", models.RequestDone)

	assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/all-donation-requests", "don@example.com", nil).Code)

	w := h.do(http.MethodGet, "/all-donation-requests", "vol@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.DonationRequest](t, w), 2)

	w = h.do(http.MethodGet, "/all-donation-requests?status=done", "vol@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[[]models.DonationRequest](t, w)
	require.Len(t, got, 1)
	assert.Equal(t, "b@example.com", got[0].RequesterEmail)

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodGet, "/all-donation-requests?status=bogus", "vol@example.com", nil).Code)
}

func TestDonateToRequest(t *testing.T) {
	h := newHarness(t)
	h.seedUser("donor@example.com", models.RoleDonor, models.UserActive)
	h.seedUser("late@example.com", models.RoleDonor, models.UserActive)
	id := h.seedRequest("me@example.com", models.RequestPending)

	w := h.do(http.MethodPatch, "/donation-requests/"+id+"/donate", "donor@example.com", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	req, err := h.env.Store.DonationRequests.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.RequestInProgress, req.Status)
	assert.Equal(t, "donor@example.com", req.DonorEmail)
	assert.Equal(t, "User donor@example.com", req.DonorName)

	require.Len(t, h.mailer.sent, 1)
	assert.Equal(t, "me@example.com", h.mailer.sent[0].to)

	w = h.do(http.MethodPatch, "/donation-requests/"+id+"/donate", "late@example.com", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "donation request is no longer pending", decode[map[string]string](t, w)["message"])
}

func TestDonateToRequestRejects(t *testing.T) {
	h := newHarness(t)
	h.seedUser("me@example.com", models.RoleDonor, models.UserActive)
	h.seedUser("blocked@example.com", models.RoleDonor, models.UserBlocked)
	id := h.seedRequest("me@example.com", models.RequestPending)

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPatch, "/donation-requests/"+id+"/donate", "me@example.com", nil).Code)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodPatch, "/donation-requests/"+id+"/donate", "blocked@example.com", nil).Code)
	assert.Zero(t, h.mem.Calls("requests.UpdateIfStatus"))
}

func TestDonateSurvivesMailFailure(t *testing.T) {
	h := newHarness(t)
	h.mailer.err = errBoom
	h.seedUser("donor@example.com", models.RoleDonor, models.UserActive)
	id := h.seedRequest("me@example.com", models.RequestPending)

	w := h.do(http.MethodPatch, "/donation-requests/"+id+"/donate", "donor@example.com", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
