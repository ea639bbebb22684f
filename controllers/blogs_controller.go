package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/phillip/blood-donation-go/apperrors"
	"github.com/phillip/blood-donation-go/logger"
	"github.com/phillip/blood-donation-go/models"
	"github.com/phillip/blood-donation-go/utils"
)

const featuredBlogsLimit = 3

// ---------------- CREATE ----------------
func CreateBlog(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := caller(c)
		if !ok {
			return
		}

		var input struct {
			Title     string `json:"title" binding:"required"`
			Thumbnail string `json:"thumbnail"`
			Content   string `json:"content" binding:"required"`
		}
		if !bindJSON(c, &input) {
			return
		}

		blog := &models.Blog{
			Title:       input.Title,
			Thumbnail:   input.Thumbnail,
			Content:     input.Content,
			Status:      models.BlogDraft,
			AuthorEmail: id.Email,
			CreatedAt:   time.Now().UTC(),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		insertedID, err := env.Store.Blogs.Insert(ctx, blog)
		if err != nil {
			apperrors.Respond(c, err, "blog")
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "blog created", "insertedId": insertedID})
	}
}

// ---------------- READ ----------------
func ListBlogs(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var status models.BlogStatus
		if s := c.Query("status"); s != "" {
			parsed, err := models.ParseBlogStatus(s)
			if err != nil {
				apperrors.Respond(c, apperrors.BadRequest(err.Error()), "")
				return
			}
			status = parsed
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		blogs, err := env.Store.Blogs.List(ctx, status, 0)
		if err != nil {
			apperrors.Respond(c, err, "blog")
			return
		}
		writeCached(c, blogs)
	}
}

// FeaturedBlogs serves the newest published posts only.
func FeaturedBlogs(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		blogs, err := env.Store.Blogs.List(ctx, models.BlogPublished, featuredBlogsLimit)
		if err != nil {
			apperrors.Respond(c, err, "blog")
			return
		}
		writeCached(c, blogs)
	}
}

// ---------------- UPDATE ----------------
func SetBlogStatus(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Status string `json:"status" binding:"required,blogstatus"`
		}
		if !bindJSON(c, &input) {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		if err := env.Store.Blogs.SetStatus(ctx, c.Param("id"), models.BlogStatus(input.Status)); err != nil {
			apperrors.Respond(c, err, "blog")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "blog status updated", "status": input.Status})
	}
}

// ---------------- DELETE ----------------
func DeleteBlog(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		blogID := c.Param("id")
		blog, err := env.Store.Blogs.FindByID(ctx, blogID)
		if err != nil {
			apperrors.Respond(c, err, "blog")
			return
		}

		if err := env.Store.Blogs.Delete(ctx, blogID); err != nil {
			apperrors.Respond(c, err, "blog")
			return
		}

		// --- Remove the hosted thumbnail; the post is already gone ---
		if env.Images != nil && utils.IsCloudinaryURL(blog.Thumbnail) {
			if err := env.Images.Delete(ctx, blog.Thumbnail); err != nil {
				logger.FromContext(ctx).Warn("thumbnail cleanup failed",
					zap.String("blog_id", blogID),
					zap.Error(err),
				)
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "blog deleted"})
	}
}
