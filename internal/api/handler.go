package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-parser/internal/models"
	"github.com/insightdelivered/statement-parser/internal/parser"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// ErrorResponse is the body of every non-200 response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// StatementStore persists parsed statements.
type StatementStore interface {
	Save(ctx context.Context, source string, result *models.StatementResult) (uuid.UUID, error)
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Parser parser.Parser
	// Store is optional; when set, successful parses are saved.
	Store StatementStore
	Log   zerolog.Logger
}

// NewApp builds the fiber application with all routes registered.
func NewApp(h *Handler, maxUploadMB int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "statement-parser",
		BodyLimit:    maxUploadMB << 20,
		ErrorHandler: h.handleError,
	})
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Use(h.requestID)
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/parse-statement", h.HandleParse)
}

func (h *Handler) requestID(c *fiber.Ctx) error {
	id := uuid.NewString()
	c.Locals("request_id", id)
	c.Set("X-Request-ID", id)
	return c.Next()
}

func (h *Handler) logger(c *fiber.Ctx) zerolog.Logger {
	id, _ := c.Locals("request_id").(string)
	return h.Log.With().Str("request_id", id).Logger()
}

// HandleHealth confirms the service is running.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": Version,
		"engine":  "fiber",
	})
}

// HandleParse accepts a multipart form with "file" (a PDF) and "password"
// and returns the parsed statement.
func (h *Handler) HandleParse(c *fiber.Ctx) (err error) {
	log := h.logger(c)

	// Recover from any panics to prevent server crash
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("parse handler crashed")
			err = writeError(c, fiber.StatusInternalServerError, "An unexpected internal server error occurred.")
		}
	}()

	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file'.")
	}
	log = log.With().Str("file", fh.Filename).Logger()
	log.Info().Msg("received parsing request")

	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".pdf") {
		log.Warn().Msg("invalid file type")
		return writeError(c, fiber.StatusBadRequest, "Invalid file type. Only PDF files are accepted.")
	}

	password := c.FormValue("password")
	if password == "" {
		return writeError(c, fiber.StatusBadRequest, "Missing form field 'password'.")
	}

	f, err := fh.Open()
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to read uploaded file.")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "Failed to read uploaded file.")
	}

	log.Info().Int("bytes", len(data)).Msg("parsing PDF")
	result, err := h.Parser.Parse(data, password)
	if err != nil {
		var credErr *parser.CredentialError
		var structErr *parser.StructuralError
		switch {
		case errors.As(err, &credErr):
			log.Warn().Msg("invalid password attempt")
			return writeError(c, fiber.StatusBadRequest, "Invalid password provided for the PDF.")
		case errors.As(err, &structErr):
			log.Error().Err(err).Msg("failed to parse PDF structure")
			return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("Failed to parse PDF: %v", err))
		default:
			log.Error().Err(err).Msg("unexpected parse error")
			return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("An unexpected error occurred: %v", err))
		}
	}

	if h.Store != nil {
		id, serr := h.Store.Save(c.UserContext(), fh.Filename, result)
		if serr != nil {
			log.Error().Err(serr).Msg("failed to store statement")
		} else {
			c.Set("X-Statement-ID", id.String())
		}
	}

	log.Info().Int("transactions", len(result.Transactions)).Msg("parsed statement")
	return c.JSON(result)
}

// handleError turns errors that escape handlers (body too large, unknown
// route) into the same JSON shape the handlers use.
func (h *Handler) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		h.Log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return writeError(c, code, err.Error())
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{Detail: msg})
}
