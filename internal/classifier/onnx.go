package classifier

import (
	"context"
	"errors"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Model runs the network forward on one preprocessed image and returns the
// raw logits.
type Model interface {
	Forward(ctx context.Context, input []float32) ([]float32, error)
}

// ONNXConfig describes an exported network.
type ONNXConfig struct {
	// SharedLibraryPath points at the onnxruntime shared library. Empty uses
	// the platform default search path.
	SharedLibraryPath string
	ModelPath         string
	// InputName and OutputName are discovered from the model when empty.
	InputName  string
	OutputName string
	NumClasses int
}

// ONNXModel runs the exported classifier with onnxruntime.
// Tensors are allocated per call, so Forward is safe for concurrent use.
type ONNXModel struct {
	session    *ort.DynamicAdvancedSession
	numClasses int
}

var ortInit struct {
	once sync.Once
	err  error
}

// initEnvironment initializes onnxruntime once per process.
func initEnvironment(libPath string) error {
	ortInit.once.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		ortInit.err = ort.InitializeEnvironment()
	})
	return ortInit.err
}

// NewONNXModel loads the network from cfg.ModelPath.
func NewONNXModel(cfg ONNXConfig) (*ONNXModel, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("model path is required")
	}
	if cfg.NumClasses <= 0 {
		return nil, fmt.Errorf("invalid class count %d", cfg.NumClasses)
	}
	if err := initEnvironment(cfg.SharedLibraryPath); err != nil {
		return nil, fmt.Errorf("failed to initialize onnxruntime: %w", err)
	}

	inputName, outputName := cfg.InputName, cfg.OutputName
	if inputName == "" || outputName == "" {
		inputs, outputs, err := ort.GetInputOutputInfo(cfg.ModelPath)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect model: %w", err)
		}
		if len(inputs) != 1 || len(outputs) != 1 {
			return nil, fmt.Errorf("expected one input and one output, got %d and %d", len(inputs), len(outputs))
		}
		if inputName == "" {
			inputName = inputs[0].Name
		}
		if outputName == "" {
			outputName = outputs[0].Name
		}
	}

	session, err := ort.NewDynamicAdvancedSession(cfg.ModelPath,
		[]string{inputName}, []string{outputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &ONNXModel{session: session, numClasses: cfg.NumClasses}, nil
}

// Forward implements Model.
func (m *ONNXModel) Forward(ctx context.Context, input []float32) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(input) != 3*InputSize*InputSize {
		return nil, fmt.Errorf("input has %d values, want %d", len(input), 3*InputSize*InputSize)
	}

	in, err := ort.NewTensor(ort.NewShape(1, 3, InputSize, InputSize), input)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer in.Destroy()

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(m.numClasses)))
	if err != nil {
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer out.Destroy()

	if err := m.session.Run([]ort.Value{in}, []ort.Value{out}); err != nil {
		return nil, fmt.Errorf("failed to run session: %w", err)
	}

	logits := make([]float32, m.numClasses)
	copy(logits, out.GetData())
	return logits, nil
}

// Close releases the onnxruntime session.
func (m *ONNXModel) Close() error {
	if m == nil || m.session == nil {
		return nil
	}
	err := m.session.Destroy()
	m.session = nil
	return err
}
