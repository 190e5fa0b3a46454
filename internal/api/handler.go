package api

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"eyeai/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Classifier labels a stored fundus image.
type Classifier interface {
	ClassifyFile(ctx context.Context, path string) (*models.ClassificationResult, error)
}

// Answerer produces treatment and cause text for a patient.
type Answerer interface {
	Answer(ctx context.Context, pc models.PatientContext) (treatment, cause string, err error)
}

// Handler serves the HTTP API
type Handler struct {
	Classifier Classifier
	Answerer   Answerer
	UploadDir  string
	Logger     *slog.Logger
}

// RegisterRoutes mounts the API routes on app
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/health", h.Health)
	app.Post("/predict", h.Predict)
	app.Post("/api/do_all", h.DoAll)
}

// Health reports that the service is up
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Predict stores the uploaded image and returns its top-1 classification
func (h *Handler) Predict(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		// A file part sent with filename="" is parsed as a plain form value
		if form, ferr := c.MultipartForm(); ferr == nil && len(form.Value["file"]) > 0 {
			return &ValidationError{Message: "No file selected"}
		}
		return &ValidationError{Message: "No file uploaded"}
	}
	if fh.Filename == "" || fh.Size == 0 {
		return &ValidationError{Message: "No file selected"}
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	// Client file names are never used on disk
	path := filepath.Join(h.UploadDir, uuid.NewString()+strings.ToLower(filepath.Ext(fh.Filename)))
	if err := c.SaveFile(fh, path); err != nil {
		return fmt.Errorf("failed to save upload: %w", err)
	}

	result, err := h.Classifier.ClassifyFile(c.UserContext(), path)
	if err != nil {
		return err
	}

	h.logger().Info("image classified", "file", filepath.Base(path), "label", result.Label, "probability", result.Probability)
	return c.JSON(result)
}

// DoAll runs the answer pipeline for a diagnosis and patient history
func (h *Handler) DoAll(c *fiber.Ctx) error {
	var req models.DoAllRequest
	if len(c.Body()) == 0 {
		return &ValidationError{Message: "Diagnosis and history are required"}
	}
	if err := c.App().Config().JSONDecoder(c.Body(), &req); err != nil {
		return &ValidationError{Message: "Invalid JSON body"}
	}
	if strings.TrimSpace(req.Diagnosis) == "" || strings.TrimSpace(req.History) == "" {
		return &ValidationError{Message: "Diagnosis and history are required"}
	}

	treatment, cause, err := h.Answerer.Answer(c.UserContext(), models.PatientContext{
		Diagnosis: req.Diagnosis,
		History:   req.History,
		Language:  req.Language,
	})
	if err != nil {
		return err
	}

	return c.JSON(models.DoAllResponse{
		Causes:     cause,
		Treatments: treatment,
	})
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
