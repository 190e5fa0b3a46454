package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"eyeai/internal/labels"
	"eyeai/internal/models"
)

// Service turns image bytes into a top-1 diagnosis. It is immutable after
// construction and shared by all requests.
type Service struct {
	model  Model
	labels *labels.LabelMap
	log    *slog.Logger
}

// NewService creates a classification service
func NewService(model Model, labelMap *labels.LabelMap, logger *slog.Logger) (*Service, error) {
	if model == nil {
		return nil, errors.New("model is required")
	}
	if labelMap == nil {
		return nil, errors.New("label map is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{model: model, labels: labelMap, log: logger}, nil
}

// Labels returns the label map the service predicts over
func (s *Service) Labels() *labels.LabelMap {
	return s.labels
}

// ClassifyFile classifies the image stored at path
func (s *Service) ClassifyFile(ctx context.Context, path string) (*models.ClassificationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return s.Classify(ctx, data)
}

// Classify decodes, preprocesses and classifies one image
func (s *Service) Classify(ctx context.Context, data []byte) (*models.ClassificationResult, error) {
	start := time.Now()

	img, err := Decode(data)
	if err != nil {
		return nil, err
	}

	input := Preprocess(img)

	logits, err := s.model.Forward(ctx, input)
	if err != nil {
		return nil, &InferenceError{Err: err}
	}
	if len(logits) != s.labels.Len() {
		return nil, &InferenceError{Err: fmt.Errorf("model returned %d logits for %d labels", len(logits), s.labels.Len())}
	}

	probs, err := Softmax(logits)
	if err != nil {
		return nil, &InferenceError{Err: err}
	}
	idx, prob := Argmax(probs)

	label, ok := s.labels.Label(idx)
	if !ok {
		return nil, &InferenceError{Err: fmt.Errorf("no label for class %d", idx)}
	}

	s.log.Debug("image classified",
		slog.String("label", label),
		slog.Float64("probability", prob),
		slog.Duration("elapsed", time.Since(start)))

	return &models.ClassificationResult{Probability: prob, Label: label}, nil
}

// Softmax converts logits into probabilities. It fails on non-finite input.
func Softmax(logits []float32) ([]float64, error) {
	if len(logits) == 0 {
		return nil, errors.New("no logits")
	}
	maxLogit := math.Inf(-1)
	for i, l := range logits {
		v := float64(l)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("logit %d is not finite", i)
		}
		if v > maxLogit {
			maxLogit = v
		}
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		probs[i] = math.Exp(float64(l) - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs, nil
}

// Argmax returns the index and value of the largest probability. Ties go to
// the lowest index.
func Argmax(probs []float64) (int, float64) {
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return best, probs[best]
}
