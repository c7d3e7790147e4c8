package quizapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
)

const (
	GenerateQuizPath = "/api/generateQuiz"
	ReadImagePath    = "/api/readImage"

	// responses larger than this are treated as malformed
	maxResponseBytes = 4 << 20
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.Default().WithPrefix("quizapi"),
	}
}

// NewWithHTTPClient lets callers supply their own transport.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	c := New(baseURL, 0)
	c.httpClient = hc
	return c
}

type generateRequest struct {
	Topic        string  `json:"topic"`
	NumQuestions int     `json:"num_questions"`
	Difficulty   string  `json:"difficulty"`
	Context      *string `json:"context"`
}

type generateResponse struct {
	Questions *[]models.Question `json:"questions"`
}

type readImageResponse struct {
	ExtractedText *string `json:"extracted_text"`
}

// GenerateQuiz asks the remote service for a question set. The request is
// issued once; there are no retries.
func (c *Client) GenerateQuiz(ctx context.Context, req models.QuizRequest) (models.QuizData, error) {
	log := logger.FromContext(ctx).WithPrefix("quizapi").WithFields(map[string]any{
		"topic":      req.Topic,
		"count":      req.NumberOfQuestions,
		"difficulty": string(req.Difficulty),
	})

	body := generateRequest{
		Topic:        req.Topic,
		NumQuestions: req.NumberOfQuestions,
		Difficulty:   string(req.Difficulty),
	}
	if req.Context != "" {
		body.Context = &req.Context
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return models.QuizData{}, errors.NewInternalError(err)
	}

	raw, err := c.post(ctx, log, GenerateQuizPath, "application/json", bytes.NewReader(payload))
	if err != nil {
		return models.QuizData{}, err
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Error("failed to decode quiz response: %v", err)
		return models.QuizData{}, errors.NewMalformedResponseError(GenerateQuizPath, err)
	}
	if out.Questions == nil {
		log.Error("quiz response has no questions field")
		return models.QuizData{}, errors.NewMalformedResponseError(GenerateQuizPath, fmt.Errorf("missing questions"))
	}
	for i, q := range *out.Questions {
		if err := ValidateQuestion(q); err != nil {
			log.Error("question %d invalid: %v", i, err)
			return models.QuizData{}, errors.NewMalformedResponseError(GenerateQuizPath, fmt.Errorf("question %d: %w", i, err))
		}
	}

	log.Info("received %d questions", len(*out.Questions))
	return models.QuizData{Topic: req.Topic, Questions: *out.Questions}, nil
}

// ReadImage uploads an image for text extraction. A response without
// extracted_text means no text was found and yields "".
func (c *Client) ReadImage(ctx context.Context, filename string, image io.Reader) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("quizapi").WithField("filename", filename)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return "", errors.NewInternalError(err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return "", errors.NewBadRequestError("could not read uploaded image")
	}
	if err := mw.Close(); err != nil {
		return "", errors.NewInternalError(err)
	}

	raw, err := c.post(ctx, log, ReadImagePath, mw.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}

	var out readImageResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Error("failed to decode read image response: %v", err)
		return "", errors.NewMalformedResponseError(ReadImagePath, err)
	}
	if out.ExtractedText == nil {
		log.Info("no text found in image")
		return "", nil
	}

	log.Info("extracted %d bytes of text", len(*out.ExtractedText))
	return *out.ExtractedText, nil
}

func (c *Client) post(ctx context.Context, log *logger.Logger, path, contentType string, body io.Reader) ([]byte, error) {
	url := c.baseURL + path
	log.Debug("POST %s", url)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return nil, errors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("request failed: %v", err)
		return nil, errors.NewNetworkError(path, err)
	}
	defer resp.Body.Close()

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("request failed: status=%d, body=%s", resp.StatusCode, string(snippet))
		return nil, errors.NewNetworkError(path, fmt.Errorf("status %d: %s", resp.StatusCode, string(snippet)))
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		log.Error("failed to read response body: %v", err)
		return nil, errors.NewNetworkError(path, err)
	}
	if len(raw) > maxResponseBytes {
		return nil, errors.NewMalformedResponseError(path, fmt.Errorf("response exceeds %d bytes", maxResponseBytes))
	}
	return raw, nil
}
