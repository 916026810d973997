// Package handlers holds the HTTP handlers. Every handler reads and writes
// through the repository store; none keeps state between requests.
package handlers

import (
	"net/http"

	"food-ordering-api/dberr"
	"food-ordering-api/logging"
	"food-ordering-api/metrics"
	"food-ordering-api/middleware"
	"food-ordering-api/repository"
	"food-ordering-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler carries the collaborators shared by all handlers.
type Handler struct {
	Store  *repository.Store
	Auth   *middleware.Auth
	Files  storage.Remover
	Log    logrus.FieldLogger
	WebDir string
}

func New(store *repository.Store, auth *middleware.Auth, files storage.Remover, log logrus.FieldLogger, webDir string) *Handler {
	return &Handler{Store: store, Auth: auth, Files: files, Log: log, WebDir: webDir}
}

func ok(c *gin.Context, status int, message string, data any) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func badRequest(c *gin.Context, err error) {
	fail(c, http.StatusBadRequest, err.Error())
}

var kindStatus = map[dberr.Kind]int{
	dberr.KindValidation:  http.StatusBadRequest,
	dberr.KindNotFound:    http.StatusNotFound,
	dberr.KindConflict:    http.StatusConflict,
	dberr.KindReference:   http.StatusUnprocessableEntity,
	dberr.KindUnavailable: http.StatusServiceUnavailable,
}

var kindMessage = map[dberr.Kind]string{
	dberr.KindValidation:  "Invalid input",
	dberr.KindNotFound:    "Not found",
	dberr.KindConflict:    "Already exists",
	dberr.KindReference:   "Referenced record does not exist",
	dberr.KindUnavailable: "Service unavailable",
}

// logStoreError records a failed store call in the logs and metrics and
// returns its kind.
func (h *Handler) logStoreError(c *gin.Context, op string, err error) dberr.Kind {
	kind := dberr.Classify(err)
	metrics.StoreError(op, kind)

	entry := logging.FromContext(c, h.Log).WithError(err).WithFields(logrus.Fields{"op": op, "kind": kind})
	switch kind {
	case dberr.KindNotFound, dberr.KindValidation, dberr.KindReference, dberr.KindConflict:
		entry.Warn("store operation rejected")
	default:
		entry.Error("store operation failed")
	}
	return kind
}

// storeError answers a failed store call with the status for its kind and a
// generic message. The underlying error only goes to the logs.
func (h *Handler) storeError(c *gin.Context, op string, err error) {
	kind := h.logStoreError(c, op, err)
	status, found := kindStatus[kind]
	if !found {
		status = http.StatusInternalServerError
	}
	msg, found := kindMessage[kind]
	if !found {
		msg = "Internal error"
	}
	fail(c, status, msg)
}
