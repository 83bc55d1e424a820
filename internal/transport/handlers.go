package transport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
	"github.com/ds124wfegd/WB_L3/editor/internal/pkg/geometry"
	"github.com/ds124wfegd/WB_L3/editor/internal/service"
)

type EditHandler struct {
	service service.EditService
}

func NewEditHandler(service service.EditService) *EditHandler {
	return &EditHandler{service: service}
}

type EditsRequest struct {
	Edits []entity.EditOperation `json:"edits"`
}

type EditsResponse struct {
	AssetID string                 `json:"assetId"`
	Edits   []entity.EditOperation `json:"edits"`
}

type RemapRequest struct {
	Reference   geometry.Dimensions    `json:"reference"`
	Annotations []entity.AnnotationBox `json:"annotations"`
}

// assetID reads and checks the :id path parameter, writing the 400 itself.
func assetID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid asset id"})
		return "", false
	}
	return id.String(), true
}

func respondError(c *gin.Context, err error) {
	var (
		ve *entity.ValidationError
		ie *entity.InternalInvariantError
	)

	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "reason": ve.Reason})
	case errors.Is(err, entity.ErrAssetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &ie):
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Invariant violated while handling request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
