package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kidverse/jigcraft-backend/internal/domain/assets"
	"github.com/kidverse/jigcraft-backend/internal/http/response"
	"github.com/kidverse/jigcraft-backend/internal/pkg/ctxutil"
	"github.com/kidverse/jigcraft-backend/internal/platform/logger"
	"github.com/kidverse/jigcraft-backend/internal/services"
)

type AssetHandler struct {
	log          *logger.Logger
	assetService services.AssetService
}

func NewAssetHandler(log *logger.Logger, assetService services.AssetService) *AssetHandler {
	return &AssetHandler{
		log:          log.With("handler", "AssetHandler"),
		assetService: assetService,
	}
}

func requestUser(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}

func (h *AssetHandler) Create(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	var params services.CreateAssetParams
	if err := c.ShouldBindJSON(&params); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	asset, err := h.assetService.Create(c.Request.Context(), nil, userID, params)
	if err != nil {
		h.log.Error("Create failed", "error", err, "user_id", userID)
		respondServiceError(c, "create_asset_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"id": asset.ID})
}

func (h *AssetHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	draftOrLive, err := assets.ParseDraftOrLive(c.DefaultQuery("draft_or_live", "live"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_draft_or_live", err)
		return
	}
	view, err := h.assetService.Get(c.Request.Context(), nil, id, draftOrLive)
	if err != nil {
		respondServiceError(c, "load_asset_failed", err)
		return
	}
	response.RespondOK(c, view)
}

func (h *AssetHandler) List(c *gin.Context) {
	var authorID *uuid.UUID
	if raw := c.Query("author_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_author_id", err)
			return
		}
		authorID = &id
	}
	page := intQuery(c, "page", 0)
	pageLimit := intQuery(c, "page_limit", 20)

	out, err := h.assetService.List(c.Request.Context(), nil, authorID, page, pageLimit)
	if err != nil {
		h.log.Error("List failed", "error", err)
		respondServiceError(c, "list_assets_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"assets": out})
}

func (h *AssetHandler) UpdateDraft(c *gin.Context) {
	if _, ok := requestUser(c); !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var params services.UpdateDraftParams
	if err := c.ShouldBindJSON(&params); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := h.assetService.UpdateDraft(c.Request.Context(), nil, id, params); err != nil {
		respondServiceError(c, "update_draft_failed", err)
		return
	}
	response.RespondNoContent(c)
}

func (h *AssetHandler) AddDraftResource(c *gin.Context) {
	if _, ok := requestUser(c); !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var params services.AddResourceParams
	if err := c.ShouldBindJSON(&params); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	resource, err := h.assetService.AddDraftResource(c.Request.Context(), nil, id, params)
	if err != nil {
		respondServiceError(c, "add_resource_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"id": resource.ID})
}

func (h *AssetHandler) Publish(c *gin.Context) {
	if _, ok := requestUser(c); !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.assetService.PublishDraftToLive(c.Request.Context(), nil, id); err != nil {
		respondServiceError(c, "publish_failed", err)
		return
	}
	response.RespondNoContent(c)
}

func (h *AssetHandler) Clone(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	newID, err := h.assetService.CloneAsset(c.Request.Context(), nil, id, userID)
	if err != nil {
		respondServiceError(c, "clone_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"id": newID})
}

func (h *AssetHandler) Delete(c *gin.Context) {
	if _, ok := requestUser(c); !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.assetService.Delete(c.Request.Context(), nil, id); err != nil {
		respondServiceError(c, "delete_asset_failed", err)
		return
	}
	response.RespondNoContent(c)
}

func (h *AssetHandler) Play(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.assetService.Play(c.Request.Context(), nil, id); err != nil {
		respondServiceError(c, "play_failed", err)
		return
	}
	response.RespondNoContent(c)
}

func (h *AssetHandler) Like(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.assetService.Like(c.Request.Context(), nil, userID, id); err != nil {
		respondServiceError(c, "like_failed", err)
		return
	}
	response.RespondNoContent(c)
}

func (h *AssetHandler) Unlike(c *gin.Context) {
	userID, ok := requestUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.assetService.Unlike(c.Request.Context(), nil, userID, id); err != nil {
		respondServiceError(c, "unlike_failed", err)
		return
	}
	response.RespondNoContent(c)
}
