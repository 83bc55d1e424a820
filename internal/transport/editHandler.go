package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ds124wfegd/WB_L3/editor/internal/entity"
)

// bindJSON writes the 400 itself. Decoding errors that already carry a
// validation reason (unknown action, bad parameters) keep it.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if entity.IsValidation(err) {
			respondError(c, err)
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		}
		return false
	}
	return true
}

func (h *EditHandler) EditAsset(c *gin.Context) {
	id, ok := assetID(c)
	if !ok {
		return
	}

	var req EditsRequest
	if !bindJSON(c, &req) {
		return
	}

	seq, err := h.service.ValidateAndStore(c.Request.Context(), id, req.Edits)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, seq)
}

func (h *EditHandler) GetAssetEdits(c *gin.Context) {
	id, ok := assetID(c)
	if !ok {
		return
	}

	ops, err := h.service.GetEdits(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, EditsResponse{AssetID: id, Edits: ops})
}

func (h *EditHandler) RemoveAssetEdits(c *gin.Context) {
	id, ok := assetID(c)
	if !ok {
		return
	}

	if err := h.service.RemoveEdits(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *EditHandler) RemapAnnotations(c *gin.Context) {
	id, ok := assetID(c)
	if !ok {
		return
	}

	var req RemapRequest
	if !bindJSON(c, &req) {
		return
	}

	partition, err := h.service.RemapAnnotations(c.Request.Context(), id, req.Annotations, req.Reference)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, partition)
}

func (h *EditHandler) GetAssetFaces(c *gin.Context) {
	id, ok := assetID(c)
	if !ok {
		return
	}

	partition, err := h.service.GetFaces(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, partition)
}

func (h *EditHandler) GetAssetOcr(c *gin.Context) {
	id, ok := assetID(c)
	if !ok {
		return
	}

	partition, err := h.service.GetOcr(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, partition)
}
