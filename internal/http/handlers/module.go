package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kidverse/jigcraft-backend/internal/domain/assets"
	"github.com/kidverse/jigcraft-backend/internal/http/response"
	"github.com/kidverse/jigcraft-backend/internal/platform/logger"
	"github.com/kidverse/jigcraft-backend/internal/services"
)

type ModuleHandler struct {
	log           *logger.Logger
	moduleService services.ModuleService
}

func NewModuleHandler(log *logger.Logger, moduleService services.ModuleService) *ModuleHandler {
	return &ModuleHandler{
		log:           log.With("handler", "ModuleHandler"),
		moduleService: moduleService,
	}
}

func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func (h *ModuleHandler) Create(c *gin.Context) {
	if _, ok := requestUser(c); !ok {
		return
	}
	assetID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var params services.CreateModuleParams
	if err := c.ShouldBindJSON(&params); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	module, err := h.moduleService.Create(c.Request.Context(), nil, assetID, params)
	if err != nil {
		respondServiceError(c, "create_module_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"id": module.ID})
}

func (h *ModuleHandler) Get(c *gin.Context) {
	moduleID, ok := pathID(c, "module_id")
	if !ok {
		return
	}
	draftOrLive, err := assets.ParseDraftOrLive(c.DefaultQuery("draft_or_live", "live"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_draft_or_live", err)
		return
	}
	module, err := h.moduleService.Get(c.Request.Context(), nil, moduleID, draftOrLive)
	if err != nil {
		respondServiceError(c, "load_module_failed", err)
		return
	}
	response.RespondOK(c, module)
}

func (h *ModuleHandler) Update(c *gin.Context) {
	if _, ok := requestUser(c); !ok {
		return
	}
	assetID, ok := pathID(c, "id")
	if !ok {
		return
	}
	moduleID, ok := pathID(c, "module_id")
	if !ok {
		return
	}
	var params services.UpdateModuleParams
	if err := c.ShouldBindJSON(&params); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	found, err := h.moduleService.Update(c.Request.Context(), nil, assetID, moduleID, params)
	if err != nil {
		respondServiceError(c, "update_module_failed", err)
		return
	}
	if !found {
		response.RespondError(c, http.StatusNotFound, "not_found", nil)
		return
	}
	response.RespondNoContent(c)
}

func (h *ModuleHandler) Delete(c *gin.Context) {
	if _, ok := requestUser(c); !ok {
		return
	}
	assetID, ok := pathID(c, "id")
	if !ok {
		return
	}
	moduleID, ok := pathID(c, "module_id")
	if !ok {
		return
	}
	if err := h.moduleService.Delete(c.Request.Context(), nil, assetID, moduleID); err != nil {
		respondServiceError(c, "delete_module_failed", err)
		return
	}
	response.RespondNoContent(c)
}
