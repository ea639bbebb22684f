package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/blood-donation-go/auth"
	"github.com/phillip/blood-donation-go/controllers"
	"github.com/phillip/blood-donation-go/models"
	"github.com/phillip/blood-donation-go/payments"
	"github.com/phillip/blood-donation-go/routes"
	"github.com/phillip/blood-donation-go/store/memstore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// tokenVerifier accepts "valid-<email>" and rejects anything else.
var tokenVerifier = auth.VerifierFunc(func(_ context.Context, token string) (*auth.Identity, error) {
	email, ok := strings.CutPrefix(token, "valid-")
	if !ok || email == "" {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Identity{UID: "uid-" + email, Email: email, Name: "Caller " + email}, nil
})

type fakeProcessor struct {
	amounts []int64
	err     error
}

func (f *fakeProcessor) CreateIntent(_ context.Context, amountCents int64) (*payments.Intent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.amounts = append(f.amounts, amountCents)
	return &payments.Intent{ID: "pi_1", ClientSecret: "pi_1_secret", AmountCents: amountCents, Currency: "usd"}, nil
}

type fakeImages struct {
	mu      sync.Mutex
	uploads []string
	deleted []string
}

func (f *fakeImages) Upload(_ context.Context, file io.Reader, folder string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := io.ReadAll(file); err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, folder)
	return "https://res.cloudinary.com/demo/image/upload/v1/" + folder + "/img.png", nil
}

func (f *fakeImages) Delete(_ context.Context, imageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, imageURL)
	return nil
}

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, _, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type harness struct {
	t        *testing.T
	mem      *memstore.Memory
	env      *controllers.Env
	router   *gin.Engine
	payments *fakeProcessor
	images   *fakeImages
	mailer   *fakeMailer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	mem := memstore.New()
	h := &harness{
		t:        t,
		mem:      mem,
		payments: &fakeProcessor{},
		images:   &fakeImages{},
		mailer:   &fakeMailer{},
	}
	h.env = &controllers.Env{
		Store:    mem.Store(),
		Payments: h.payments,
		Images:   h.images,
		Mailer:   h.mailer,
	}
	h.router = routes.NewEngine(routes.Options{})
	routes.SetupRoutes(h.router, h.env, tokenVerifier)
	return h
}

func (h *harness) seedUser(email string, role models.Role, status models.UserStatus) string {
	h.t.Helper()
	id, err := h.env.Store.Users.Insert(context.Background(), &models.User{
		Name:      "User " + email,
		Email:     email,
		Role:      role,
		Status:    status,
		CreatedAt: time.Now(),
	})
	require.NoError(h.t, err)
	return id
}

func (h *harness) seedRequest(requester string, status models.RequestStatus) string {
	h.t.Helper()
	id, err := h.env.Store.DonationRequests.Insert(context.Background(), &models.DonationRequest{
		ID:             primitive.NewObjectID(),
		RequesterName:  "Requester",
		RequesterEmail: requester,
		RecipientName:  "Recipient",
		HospitalName:   "City Hospital",
		BloodGroup:     "O+",
		DonationDate:   "2026-11-01",
		DonationTime:   "10:00",
		Status:         status,
		CreatedAt:      time.Now(),
	})
	require.NoError(h.t, err)
	return id
}

func (h *harness) seedBlog(title string, status models.BlogStatus, thumbnail string) string {
	h.t.Helper()
	id, err := h.env.Store.Blogs.Insert(context.Background(), &models.Blog{
		Title:     title,
		Content:   "content of " + title,
		Thumbnail: thumbnail,
		Status:    status,
		CreatedAt: time.Now(),
	})
	require.NoError(h.t, err)
	return id
}

// do sends a JSON request; an empty email sends no Authorization header.
func (h *harness) do(method, path, email string, body any) *httptest.ResponseRecorder {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if email != "" {
		req.Header.Set("Authorization", "Bearer valid-"+email)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

var errBoom = errors.New("boom")
