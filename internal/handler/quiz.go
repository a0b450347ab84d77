package handler

import (
	"veda-quiz/internal/domain"
	"veda-quiz/internal/dto"
	"veda-quiz/internal/middleware"
	"veda-quiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz-related HTTP requests. Errors are returned to the
// centralized error handler rather than rendered inline.
type QuizHandler struct {
	library  service.LibraryService
	sessions service.SessionService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(library service.LibraryService, sessions service.SessionService) *QuizHandler {
	return &QuizHandler{
		library:  library,
		sessions: sessions,
	}
}

// GetDocuments handles GET /api/documents
func (h *QuizHandler) GetDocuments(c *fiber.Ctx) error {
	infos, err := h.library.ListDocuments(c.Context())
	if err != nil {
		return err
	}

	resp := make([]dto.DocumentResponse, 0, len(infos))
	for _, info := range infos {
		resp = append(resp, dto.DocumentResponse{
			Name:        info.Name,
			DisplayName: info.DisplayName,
			Questions:   info.Questions,
			Sets:        info.Sets,
		})
	}
	return c.JSON(resp)
}

// StartSession handles POST /api/sessions
func (h *QuizHandler) StartSession(c *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	state, err := h.sessions.StartSession(c.Context(), middleware.PlayerID(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(state)
}

// GetSession handles GET /api/sessions/:id
func (h *QuizHandler) GetSession(c *fiber.Ctx) error {
	state, err := h.sessions.GetState(c.Context(), middleware.PlayerID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(state)
}

// SubmitAnswer handles POST /api/sessions/:id/answer
func (h *QuizHandler) SubmitAnswer(c *fiber.Ctx) error {
	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	result, err := h.sessions.SubmitAnswer(c.Context(), middleware.PlayerID(c), c.Params("id"), req.Label)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Advance handles POST /api/sessions/:id/advance
func (h *QuizHandler) Advance(c *fiber.Ctx) error {
	state, err := h.sessions.Advance(c.Context(), middleware.PlayerID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(state)
}

// GetSummary handles GET /api/sessions/:id/summary
func (h *QuizHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.sessions.GetSummary(c.Context(), middleware.PlayerID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// RegisterRoutes wires the quiz endpoints onto the given router group.
func (h *QuizHandler) RegisterRoutes(api fiber.Router) {
	api.Get("/documents", h.GetDocuments)
	api.Post("/sessions", h.StartSession)
	api.Get("/sessions/:id", h.GetSession)
	api.Post("/sessions/:id/answer", h.SubmitAnswer)
	api.Post("/sessions/:id/advance", h.Advance)
	api.Get("/sessions/:id/summary", h.GetSummary)
}
