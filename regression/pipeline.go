package regression

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
)

// Format identifies the artifact layout written by Save.
const Format = "salescast/lag-ols/v1"

var (
	// ErrNotFitted is returned when predicting with an unfitted pipeline.
	ErrNotFitted = errors.New("pipeline not fitted")
	// ErrFormat is returned when loading an artifact of another format.
	ErrFormat = errors.New("unknown pipeline artifact format")
)

// Pipeline scales lag features and regresses the next value on them.
type Pipeline struct {
	ID        string          `json:"id"`
	Format    string          `json:"format"`
	CreatedAt time.Time       `json:"created_at"`
	Lags      int             `json:"lags"`
	Scaler    *StandardScaler `json:"scaler"`
	Model     *LinearModel    `json:"model"`
}

// NewPipeline creates an unfitted pipeline over lags lag features.
func NewPipeline(lags int) *Pipeline {
	if lags < 1 {
		lags = DefaultLags
	}
	return &Pipeline{
		ID:        uuid.NewString(),
		Format:    Format,
		CreatedAt: time.Now().UTC(),
		Lags:      lags,
	}
}

// Fit trains the scaler and the regressor on X and y.
func (p *Pipeline) Fit(X [][]float64, y []float64) error {
	scaler := &StandardScaler{}
	if err := scaler.Fit(X); err != nil {
		return err
	}
	if len(scaler.Mean) != p.Lags {
		return fmt.Errorf("pipeline expects %d features, got %d", p.Lags, len(scaler.Mean))
	}
	scaled, err := scaler.Transform(X)
	if err != nil {
		return err
	}
	model := &LinearModel{}
	if err := model.Fit(scaled, y); err != nil {
		return err
	}
	p.Scaler, p.Model = scaler, model
	return nil
}

// Predict returns one prediction per feature row.
func (p *Pipeline) Predict(X [][]float64) ([]float64, error) {
	if p.Scaler == nil || p.Model == nil {
		return nil, ErrNotFitted
	}
	scaled, err := p.Scaler.Transform(X)
	if err != nil {
		return nil, err
	}
	return p.Model.Predict(scaled)
}

// Forecast predicts h values after history, feeding each prediction back
// as the next lag.
func (p *Pipeline) Forecast(history []float64, h int) ([]float64, error) {
	if len(history) < p.Lags {
		return nil, fmt.Errorf("%w: %d values for %d lags", ErrInsufficientData, len(history), p.Lags)
	}
	if h < 1 {
		return nil, fmt.Errorf("horizon must be at least 1, got %d", h)
	}

	window := make([]float64, len(history), len(history)+h)
	copy(window, history)
	out := make([]float64, h)
	for i := range out {
		pred, err := p.Predict([][]float64{lagRow(window, p.Lags)})
		if err != nil {
			return nil, err
		}
		out[i] = pred[0]
		window = append(window, pred[0])
	}
	return out, nil
}

// Write encodes the pipeline as JSON.
func (p *Pipeline) Write(w io.Writer) error {
	if p.Scaler == nil || p.Model == nil {
		return ErrNotFitted
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// Save writes the pipeline artifact to path.
func (p *Pipeline) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := p.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("encode pipeline: %w", err)
	}
	return f.Close()
}

// Read decodes a pipeline written by Write.
func Read(r io.Reader) (*Pipeline, error) {
	var p Pipeline
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode pipeline: %w", err)
	}
	if p.Format != Format {
		return nil, fmt.Errorf("%w: %q", ErrFormat, p.Format)
	}
	if p.Scaler == nil || p.Model == nil ||
		len(p.Scaler.Mean) != p.Lags || len(p.Scaler.Scale) != p.Lags || len(p.Model.Coef) != p.Lags {
		return nil, fmt.Errorf("%w: inconsistent lag dimensions", ErrFormat)
	}
	return &p, nil
}

// Load reads a pipeline artifact from path.
func Load(path string) (*Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
