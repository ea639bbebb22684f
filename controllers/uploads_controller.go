package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/phillip/blood-donation-go/apperrors"
)

const maxImageSize = 5 << 20

var uploadFolders = map[string]bool{"avatars": true, "blogs": true}

// UploadImage stores the multipart "image" file and returns its hosted
// URL, which clients then put in a profile avatar or blog thumbnail.
func UploadImage(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		if env.Images == nil {
			apperrors.Respond(c, apperrors.Unavailable("image uploads are not configured"), "")
			return
		}

		fileHeader, err := c.FormFile("image")
		if err != nil {
			apperrors.Respond(c, apperrors.BadRequest("image file is required"), "")
			return
		}
		if fileHeader.Size > maxImageSize {
			apperrors.Respond(c, apperrors.BadRequest("image must be 5MB or smaller"), "")
			return
		}
		if ct := fileHeader.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
			apperrors.Respond(c, apperrors.BadRequest("file must be an image"), "")
			return
		}

		folder := c.DefaultQuery("folder", "uploads")
		if folder != "uploads" && !uploadFolders[folder] {
			apperrors.Respond(c, apperrors.BadRequest("unknown upload folder"), "")
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			apperrors.Respond(c, apperrors.Internal(err), "")
			return
		}
		defer file.Close()

		// Upload applies its own deadline
		url, err := env.Images.Upload(c.Request.Context(), file, folder)
		if err != nil {
			apperrors.Respond(c, apperrors.Internal(err), "")
			return
		}

		c.JSON(http.StatusCreated, gin.H{"url": url})
	}
}
