package controllers_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phillip/blood-donation-go/models"
	"github.com/phillip/blood-donation-go/store"
)

func TestCreateBlog(t *testing.T) {
	h := newHarness(t)
	h.seedUser("vol@example.com", models.RoleVolunteer, models.UserActive)
	h.seedUser("don@example.com", models.RoleDonor, models.UserActive)

	body := gin.H{"title": "Why donate", "content": "Because.", "status": "published"}

	assert.Equal(t, http.StatusForbidden, h.do(http.MethodPost, "/blogs", "don@example.com", body).Code)
	assert.Zero(t, h.mem.Calls("blogs.Insert"))

	w := h.do(http.MethodPost, "/blogs", "vol@example.com", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode[map[string]any](t, w)["insertedId"].(string)

	blog, err := h.env.Store.Blogs.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.BlogDraft, blog.Status)
	assert.Equal(t, "vol@example.com", blog.AuthorEmail)
}

func TestFeaturedBlogs(t *testing.T) {
	h := newHarness(t)
	var published []string
	for i := 0; i < 5; i++ {
		h.seedBlog(fmt.Sprintf("draft %d", i), models.BlogDraft, "")
		published = append(published, h.seedBlog(fmt.Sprintf("post %d", i), models.BlogPublished, ""))
	}

	w := h.do(http.MethodGet, "/featured-blogs", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[[]models.Blog](t, w)
	require.Len(t, got, 3)
	for i, b := range got {
		assert.Equal(t, models.BlogPublished, b.Status)
		assert.Equal(t, published[4-i], b.ID.Hex())
	}
}

func TestListBlogsETag(t *testing.T) {
	h := newHarness(t)
	h.seedBlog("one", models.BlogDraft, "")
	h.seedBlog("two", models.BlogPublished, "")

	w := h.do(http.MethodGet, "/all-blogs", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Blog](t, w), 2)
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/all-blogs", nil)
	req.Header.Set("If-None-Match", etag)
	cached := httptest.NewRecorder()
	h.router.ServeHTTP(cached, req)
	assert.Equal(t, http.StatusNotModified, cached.Code)
	assert.Empty(t, cached.Body.String())

	h.seedBlog("three", models.BlogDraft, "")
	req = httptest.NewRequest(http.MethodGet, "/all-blogs", nil)
	req.Header.Set("If-None-Match", etag)
	fresh := httptest.NewRecorder()
	h.router.ServeHTTP(fresh, req)
	assert.Equal(t, http.StatusOK, fresh.Code)
	assert.NotEqual(t, etag, fresh.Header().Get("ETag"))

	w = h.do(http.MethodGet, "/all-blogs?status=published", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Blog](t, w), 1)
}

func TestSetBlogStatus(t *testing.T) {
	h := newHarness(t)
	h.seedUser("admin@example.com", models.RoleAdmin, models.UserActive)
	h.seedUser("vol@example.com", models.RoleVolunteer, models.UserActive)
	id := h.seedBlog("post", models.BlogDraft, "")

	assert.Equal(t, http.StatusForbidden,
		h.do(http.MethodPatch, "/blogs/"+id, "vol@example.com", gin.H{"status": "published"}).Code)
	assert.Equal(t, http.StatusBadRequest,
		h.do(http.MethodPatch, "/blogs/"+id, "admin@example.com", gin.H{"status": "archived"}).Code)
	require.Equal(t, http.StatusOK,
		h.do(http.MethodPatch, "/blogs/"+id, "admin@example.com", gin.H{"status": "published"}).Code)

	blog, err := h.env.Store.Blogs.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, models.BlogPublished, blog.Status)
}

func TestDeleteBlogRemovesHostedThumbnail(t *testing.T) {
	h := newHarness(t)
	h.seedUser("admin@example.com", models.RoleAdmin, models.UserActive)
	h.seedUser("vol@example.com", models.RoleVolunteer, models.UserActive)
	hosted := "https://res.cloudinary.com/demo/image/upload/v1/blogs/pic.jpg"
	id := h.seedBlog("post", models.BlogPublished, hosted)
	external := h.seedBlog("other", models.BlogPublished, "https://i.imgur.com/pic.jpg")

	assert.Equal(t, http.StatusForbidden, h.do(http.MethodDelete, "/blogs/"+id, "vol@example.com", nil).Code)

	require.Equal(t, http.StatusOK, h.do(http.MethodDelete, "/blogs/"+id, "admin@example.com", nil).Code)
	require.Equal(t, http.StatusOK, h.do(http.MethodDelete, "/blogs/"+external, "admin@example.com", nil).Code)

	_, err := h.env.Store.Blogs.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, []string{hosted}, h.images.deleted)
}
