package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"hrconsole/internal/employee"
)

// RiskLevel is assigned by the backend from the probability.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Prediction is the model output for one employee.
type Prediction struct {
	Prediction  int       `json:"prediction"`
	Probability float64   `json:"probability"`
	RiskLevel   RiskLevel `json:"riskLevel"`
}

// WillLeave reports whether the model predicts attrition.
func (p Prediction) WillLeave() bool {
	return p.Prediction == 1
}

// BatchRow is one uploaded CSV row echoed back with its prediction.
type BatchRow struct {
	Prediction
	Columns map[string]any
}

func (r *BatchRow) UnmarshalJSON(data []byte) error {
	var cols map[string]any
	if err := json.Unmarshal(data, &cols); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &r.Prediction); err != nil {
		return err
	}
	for _, key := range []string{"prediction", "probability", "riskLevel"} {
		delete(cols, key)
	}
	r.Columns = cols
	return nil
}

type BatchResult struct {
	Total       int        `json:"total"`
	Predictions []BatchRow `json:"predictions"`
}

// Scalar holds a history value the backend may send as a number or a string.
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = Scalar(v)
		return nil
	}
	*s = Scalar(data)
	return nil
}

type HistoryEntry struct {
	ID          int64   `json:"id"`
	EmployeeID  *int64  `json:"employee_id,omitempty"`
	ModelID     *int64  `json:"model_id,omitempty"`
	Probability float64 `json:"probability"`
	Prediction  Scalar  `json:"prediction"`
	Feedback    *string `json:"feedback,omitempty"`
}

type PredictionService struct {
	client *Client
}

// Single posts the feature vector; unset model fields are filled with defaults first.
func (s *PredictionService) Single(ctx context.Context, features employee.Features) (*Prediction, error) {
	var out Prediction
	req := Request{Method: http.MethodPost, Path: "/predict/single", Body: features.WithDefaults()}
	if err := s.client.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Batch uploads a CSV as the single multipart "file" field.
func (s *PredictionService) Batch(ctx context.Context, filename string, content io.Reader) (*BatchResult, error) {
	if content == nil {
		return nil, &Error{Message: fmt.Sprintf("no content for %s", filename)}
	}
	var out BatchResult
	req := Request{
		Method: http.MethodPost,
		Path:   "/predict/batch",
		Upload: &Upload{Filename: filename, Content: content},
	}
	if err := s.client.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History returns the most recent predictions, newest first. limit <= 0 uses the backend default.
func (s *PredictionService) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	req := Request{Method: http.MethodGet, Path: "/predict/history"}
	if limit > 0 {
		req.Query = url.Values{"limit": {strconv.Itoa(limit)}}
	}
	var out []HistoryEntry
	if err := s.client.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return out, nil
}
