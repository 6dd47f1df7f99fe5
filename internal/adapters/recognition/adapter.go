package recognition

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/faceid-cli/internal/domain"
	"github.com/bnema/faceid-cli/internal/ports"
)

const (
	maxResponseBytes      = 1 << 20
	defaultRequestTimeout = 30 * time.Second
)

type API struct {
	BaseURL      string
	IdentifyPath string
	AnalyzePath  string
	RegisterPath string
	PeoplePath   string
}

func DefaultAPI(baseURL string) API {
	return API{
		BaseURL:      baseURL,
		IdentifyPath: "identify-base64",
		AnalyzePath:  "analyze-base64",
		RegisterPath: "register-multi",
		PeoplePath:   "people",
	}
}

// Adapter talks to the face-recognition backend over HTTP. Every call runs under
// RequestTimeout unless the caller's context already carries a deadline.
type Adapter struct {
	API            API
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

var _ ports.RecognitionClient = Adapter{}

type base64Request struct {
	ImgBase64 string `json:"img_base64"`
}

type identifyResponse struct {
	Match      bool     `json:"match"`
	PersonName string   `json:"person_name"`
	Distance   *float64 `json:"distance"`
	Confidence *float64 `json:"confidence"`
	Error      string   `json:"error"`
}

type analyzeResponse struct {
	Age             *float64 `json:"age"`
	Gender          string   `json:"gender"`
	DominantEmotion string   `json:"dominant_emotion"`
}

type registerResponse struct {
	Message *string  `json:"message"`
	Errors  []string `json:"errors"`
}

type peopleResponse struct {
	People           []string `json:"people"`
	Count            int      `json:"count"`
	TotalObjectsInDB int      `json:"total_objects_in_db"`
}

type errorResponse struct {
	Detail any `json:"detail"`
}

func (a Adapter) Identify(ctx context.Context, frame domain.Frame) (domain.IdentificationOutcome, error) {
	var payload identifyResponse
	if err := a.postJSON(ctx, a.API.IdentifyPath, base64Request{ImgBase64: string(frame)}, &payload); err != nil {
		return domain.IdentificationOutcome{}, domain.NewNetworkError(domain.FailureIdentification, err)
	}

	return domain.IdentificationOutcome{
		Matched:    payload.Match,
		Subject:    payload.PersonName,
		Distance:   payload.Distance,
		Confidence: payload.Confidence,
		Detail:     payload.Error,
	}, nil
}

func (a Adapter) Analyze(ctx context.Context, frame domain.Frame) (domain.BiometricEstimate, error) {
	var payload analyzeResponse
	if err := a.postJSON(ctx, a.API.AnalyzePath, base64Request{ImgBase64: string(frame)}, &payload); err != nil {
		return domain.BiometricEstimate{}, domain.NewNetworkError(domain.FailureAnalysis, err)
	}
	if payload.Age == nil {
		return domain.BiometricEstimate{}, domain.NewNetworkError(domain.FailureAnalysis, errors.New("analysis response missing age"))
	}

	return domain.BiometricEstimate{
		Age:             int(*payload.Age),
		Gender:          payload.Gender,
		DominantEmotion: payload.DominantEmotion,
	}, nil
}

func (a Adapter) RegisterBatch(ctx context.Context, subject string, images []domain.ImagePayload) (domain.RegistrationSummary, error) {
	summary, err := a.registerBatch(ctx, subject, images)
	if err != nil {
		return domain.RegistrationSummary{}, domain.NewNetworkError(domain.FailureEnrollment, err)
	}
	return summary, nil
}

func (a Adapter) registerBatch(ctx context.Context, subject string, images []domain.ImagePayload) (domain.RegistrationSummary, error) {
	if len(images) == 0 {
		return domain.RegistrationSummary{}, errors.New("no images to register")
	}

	body, contentType, err := encodeBatch(subject, images)
	if err != nil {
		return domain.RegistrationSummary{}, err
	}

	var payload registerResponse
	if err := a.do(ctx, http.MethodPost, a.API.RegisterPath, bytes.NewReader(body), contentType, &payload); err != nil {
		return domain.RegistrationSummary{}, err
	}
	if payload.Message == nil {
		return domain.RegistrationSummary{}, errors.New("register response missing message")
	}

	return domain.RegistrationSummary{
		Subject:  subject,
		Message:  *payload.Message,
		Rejected: payload.Errors,
	}, nil
}

func (a Adapter) ListSubjects(ctx context.Context) (domain.SubjectRegistry, error) {
	var payload peopleResponse
	if err := a.do(ctx, http.MethodGet, a.API.PeoplePath, nil, "", &payload); err != nil {
		return domain.SubjectRegistry{}, domain.NewNetworkError(domain.FailureList, err)
	}

	return domain.SubjectRegistry{
		Subjects:  payload.People,
		Templates: payload.TotalObjectsInDB,
	}, nil
}

func (a Adapter) postJSON(ctx context.Context, path string, requestBody any, result any) error {
	encoded, err := json.Marshal(requestBody)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	return a.do(ctx, http.MethodPost, path, bytes.NewReader(encoded), "application/json", result)
}

func (a Adapter) do(ctx context.Context, method, path string, body io.Reader, contentType string, result any) error {
	endpoint, err := buildAPIURL(a.API.BaseURL, path)
	if err != nil {
		return err
	}

	requestCtx, cancel := a.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	started := time.Now()
	resp, err := a.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	a.logger().Debug("recognition: response received",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"elapsed", time.Since(started),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("request failed: %s", decodeErrorBody(resp))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (a Adapter) httpClient() *http.Client {
	if a.HTTPClient != nil {
		return a.HTTPClient
	}
	return http.DefaultClient
}

func (a Adapter) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (a Adapter) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := a.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	return context.WithTimeout(ctx, requestTimeout)
}

// decodeErrorBody renders the FastAPI {"detail": ...} body when there is one.
func decodeErrorBody(resp *http.Response) string {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}

	var payload errorResponse
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Detail == nil {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}

	switch detail := payload.Detail.(type) {
	case string:
		return fmt.Sprintf("status %d: %s", resp.StatusCode, detail)
	default:
		encoded, _ := json.Marshal(detail)
		return fmt.Sprintf("status %d: %s", resp.StatusCode, encoded)
	}
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	return parsed.JoinPath(strings.TrimPrefix(path, "/")).String(), nil
}
