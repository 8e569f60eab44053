package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// parseFlags splits the comma-separated flags query parameter into the
// predicate map the store queries with. Every listed flag must hold.
func parseFlags(c *gin.Context) (map[string]bool, []string, bool) {
	raw := c.Query("flags")
	if raw == "" {
		return nil, nil, false
	}

	predicate := make(map[string]bool)
	var flags []string
	for _, flag := range strings.Split(raw, ",") {
		flag = strings.TrimSpace(flag)
		if flag == "" {
			continue
		}
		predicate[flag] = true
		flags = append(flags, flag)
	}
	if len(predicate) == 0 {
		return nil, nil, false
	}
	return predicate, flags, true
}

// GetCapabilities returns a user's capability snapshot for a piece or, with
// the edition_id query parameter, an edition
func (h *handler) GetCapabilities(c *gin.Context) {
	pieceID, err := strconv.ParseUint(c.Param("piece_id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid piece id")
		return
	}

	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "user_id query parameter is required")
		return
	}

	var editionID *uint64
	if raw := c.Query("edition_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondBadRequest(c, "Invalid edition id")
			return
		}
		editionID = &id
	}

	capabilities, err := h.ownership.CapabilitySnapshot(c.Request.Context(), userID, pieceID, editionID)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, CapabilitySnapshotResponse{
		UserID:       userID,
		PieceID:      pieceID,
		EditionID:    editionID,
		Capabilities: capabilities,
	})
}

// ListPiecesByCapability lists the pieces where a user's piece-level record
// carries every requested flag
func (h *handler) ListPiecesByCapability(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid user id")
		return
	}

	predicate, flags, ok := parseFlags(c)
	if !ok {
		respondValidationError(c, "flags query parameter is required")
		return
	}

	ids, err := h.store.ListPieceIDsByCapability(c.Request.Context(), userID, predicate)
	if err != nil {
		respondInternalError(c, err, "Failed to list pieces")
		return
	}

	c.JSON(http.StatusOK, CapabilityListResponse{
		UserID: userID,
		Flags:  flags,
		IDs:    ids,
	})
}

// ListEditionsByCapability lists the editions where a user's edition-level
// record carries every requested flag
func (h *handler) ListEditionsByCapability(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		respondBadRequest(c, "Invalid user id")
		return
	}

	predicate, flags, ok := parseFlags(c)
	if !ok {
		respondValidationError(c, "flags query parameter is required")
		return
	}

	ids, err := h.store.ListEditionIDsByCapability(c.Request.Context(), userID, predicate)
	if err != nil {
		respondInternalError(c, err, "Failed to list editions")
		return
	}

	c.JSON(http.StatusOK, CapabilityListResponse{
		UserID: userID,
		Flags:  flags,
		IDs:    ids,
	})
}
