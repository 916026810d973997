package storage

import (
	"mime/multipart"
	"net/http"

	"food-ordering-api/metrics"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const fileNameKey = "uploadedFileName"

// Saver persists one uploaded file.
type Saver interface {
	Save(fh *multipart.FileHeader) (string, error)
}

// SingleFile stores the file sent in field before the handler runs and
// records its assigned name on the context. Requests without the file, or
// whose body exceeds maxBytes, pass through untouched.
func SingleFile(saver Saver, field string, maxBytes int64, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		fh, err := c.FormFile(field)
		if err != nil {
			if err != http.ErrMissingFile {
				log.WithError(err).WithField("field", field).Warn("multipart upload not readable")
			}
			metrics.Upload("missing")
			c.Next()
			return
		}

		name, err := saver.Save(fh)
		if err != nil {
			log.WithError(err).WithField("filename", fh.Filename).Error("failed to store upload")
			metrics.Upload("failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Upload failed"})
			return
		}
		metrics.Upload("stored")
		c.Set(fileNameKey, name)
		c.Next()
	}
}

// FileName returns the name the upload was stored under, if a file was sent.
func FileName(c *gin.Context) (string, bool) {
	name := c.GetString(fileNameKey)
	return name, name != ""
}
