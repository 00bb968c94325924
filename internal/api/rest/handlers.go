package rest

import (
	"encoding/base64"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pcb-inspector/internal/container"
	"pcb-inspector/internal/domain/entity"
)

// Максимальный размер загружаемого снимка
const maxUploadSize = 20 << 20

type Handler struct {
	services *container.Container
}

func NewHandler(services *container.Container) *Handler {
	return &Handler{services: services}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/health", h.health)
	r.GET("/defects", h.defects)
	r.GET("/session", h.session)
	r.POST("/session/navigate", h.navigate)
	r.POST("/signup", h.signUp)
	r.POST("/login", h.logIn)
	r.POST("/logout", h.logOut)
	r.POST("/detect", h.detect)
}

type sessionResponse struct {
	entity.Session
	EffectivePage entity.Page `json:"effective_page"`
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type navigateRequest struct {
	Event string `json:"event"`
}

type defectResponse struct {
	Key           string `json:"key"`
	DisplayName   string `json:"display_name"`
	Description   string `json:"description"`
	SolutionSteps string `json:"solution_steps"`
}

type detectResponse struct {
	*entity.InspectionResult
	Report         *entity.DefectReport `json:"report"`
	Description    string               `json:"description"`
	AnnotatedImage string               `json:"annotated_image,omitempty"`
}

func newSessionResponse(s *entity.Session) sessionResponse {
	return sessionResponse{Session: *s, EffectivePage: s.Effective()}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"model_loaded": h.services.InspectionService.Available(),
	})
}

func (h *Handler) defects(c *gin.Context) {
	records := h.services.Table.Records()
	out := make([]defectResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, defectResponse{
			Key:           rec.DefectKey,
			DisplayName:   entity.DisplayName(rec.DefectKey),
			Description:   rec.Description,
			SolutionSteps: rec.SolutionSteps,
		})
	}
	c.JSON(http.StatusOK, gin.H{"defects": out})
}

func (h *Handler) session(c *gin.Context) {
	s, err := h.services.SessionService.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(s))
}

func (h *Handler) navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, codeInvalidRequest, "Expected {\"event\": \"...\"}")
		return
	}
	kind, ok := entity.ParseEventKind(req.Event)
	if !ok {
		abortWithError(c, http.StatusBadRequest, codeInvalidRequest, "Unknown event "+strconv.Quote(req.Event))
		return
	}

	s, err := h.services.SessionService.Navigate(c.Request.Context(), sessionID(c), kind)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(s))
}

func (h *Handler) signUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, codeInvalidRequest, "Expected {\"username\", \"password\"}")
		return
	}

	s, err := h.services.SessionService.SignUp(c.Request.Context(), sessionID(c), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newSessionResponse(s))
}

func (h *Handler) logIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, codeInvalidRequest, "Expected {\"username\", \"password\"}")
		return
	}

	s, err := h.services.SessionService.LogIn(c.Request.Context(), sessionID(c), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(s))
}

func (h *Handler) logOut(c *gin.Context) {
	s, err := h.services.SessionService.LogOut(c.Request.Context(), sessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(s))
}

func (h *Handler) detect(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, codeInvalidRequest, "Expected multipart field \"file\"")
		return
	}
	if fh.Size > maxUploadSize {
		abortWithError(c, http.StatusBadRequest, codeInvalidImage, "File is too large")
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		writeError(c, err)
		return
	}

	ctx := c.Request.Context()
	out, err := h.services.InspectionService.Inspect(ctx, sessionID(c), data)
	if err != nil {
		writeError(c, err)
		return
	}

	desc, err := h.services.Describer.Describe(ctx, out.Result, out.Report)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := detectResponse{
		InspectionResult: out.Result,
		Report:           out.Report,
		Description:      desc.Text,
	}
	if annotated, _ := strconv.ParseBool(c.Query("annotated")); annotated && len(out.Highlighted) > 0 {
		resp.AnnotatedImage = base64.StdEncoding.EncodeToString(out.Highlighted)
	}
	c.JSON(http.StatusOK, resp)
}
