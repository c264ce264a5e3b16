package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
	"github.com/ignatzorin/tribaldesk-backend/internal/pkg/apperror"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 60 * time.Second
)

// Client — клиент OpenAI-совместимого API (chat/completions).
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient создаёт экземпляр клиента. Без ключа API клиент не создаётся:
// ошибка конфигурации возвращается сразу, а не при первом запросе.
func NewClient(baseURL, apiKey, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apperror.Wrap(
			errors.New("ai: OPENAI_API_KEY не задан"),
			apperror.ErrCodeConfiguration,
			"OpenAI API key is not configured",
		)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Model возвращает идентификатор модели клиента.
func (c *Client) Model() string {
	return c.model
}

type chatRequest struct {
	Model    string               `json:"model"`
	Messages []entity.ChatMessage `json:"messages"`
	Stream   bool                 `json:"stream,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// do отправляет запрос на chat/completions и проверяет код ответа.
func (c *Client) do(ctx context.Context, payload chatRequest) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: сериализация: %w", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: создание запроса: %w", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload.Stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: запрос к сервису: %w", ErrRequestFailed, err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	return resp, nil
}

// errorMessage достаёт error.message из тела ошибки, если оно в формате OpenAI.
func errorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 4096))
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error.Message != "" {
		return body.Error.Message
	}
	return strings.TrimSpace(string(raw))
}

// chatCompletion выполняет обычный (не потоковый) запрос.
func (c *Client) chatCompletion(ctx context.Context, messages []entity.ChatMessage) (string, error) {
	resp, err := c.do(ctx, chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("%w: пустой список choices", ErrMalformedResponse)
	}

	return result.Choices[0].Message.Content, nil
}

// streamChat выполняет запрос с stream=true и передаёт текстовые чанки в onDelta.
func (c *Client) streamChat(ctx context.Context, messages []entity.ChatMessage, onDelta func(chunk string) error) error {
	resp, err := c.do(ctx, chatRequest{Model: c.model, Messages: messages, Stream: true})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); strings.HasPrefix(line, "data:") {
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				return nil
			}
			if data != "" {
				var chunk streamChunk
				if jsonErr := json.Unmarshal([]byte(data), &chunk); jsonErr != nil {
					return fmt.Errorf("%w: %v", ErrMalformedResponse, jsonErr)
				}
				if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
					text := chunk.Choices[0].Delta.Content
					if !utf8.ValidString(text) {
						text = strings.ToValidUTF8(text, "")
					}
					if cbErr := onDelta(text); cbErr != nil {
						return cbErr
					}
				}
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("%w: чтение потока: %w", ErrRequestFailed, err)
		}
	}
}
