package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/tribaldesk-backend/internal/domain/entity"
	"github.com/ignatzorin/tribaldesk-backend/internal/pkg/apperror"
)

// Тестовые данные
var (
	testDraft = "# Health Initiative — Proposal Draft\nOrganization: Example Nation\n\n## Summary\nImprove clinic access\n"
	testKey   = "sk-test"
)

// newTestClient поднимает фейковый OpenAI-совместимый сервер.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, testKey, "gpt-4o-mini", 5*time.Second)
	require.NoError(t, err)
	return client
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"choices":[{"message":{"role":"assistant","content":%q}}]}`, content)
}

// ============ ТЕСТЫ ============

func TestNewClient_MissingKey(t *testing.T) {
	client, err := NewClient("", "  ", "", 0)

	assert.Nil(t, client)
	require.Error(t, err)
	assert.True(t, apperror.IsConfiguration(err))
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient("", testKey, "", 0)

	require.NoError(t, err)
	assert.Equal(t, DefaultModel, client.Model())
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
}

func TestEnhanceProposal_SendsSingleUserMessage(t *testing.T) {
	var got chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer "+testKey, r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeCompletion(w, "# Better draft")
	})

	result, err := client.EnhanceProposal(context.Background(), testDraft)

	require.NoError(t, err)
	assert.Equal(t, "# Better draft", result)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, entity.ChatRoleUser, got.Messages[0].Role)
	assert.Equal(t, EnhancePrompt+testDraft, got.Messages[0].Content)
	assert.True(t, strings.HasSuffix(EnhancePrompt, "Return clean Markdown.\n\n"))
}

func TestEnhanceProposal_ResponseReturnedVerbatim(t *testing.T) {
	reply := "## Only one section\n\n- a list the exporter will not render\n"
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeCompletion(w, reply)
	})

	result, err := client.EnhanceProposal(context.Background(), testDraft)

	require.NoError(t, err)
	assert.Equal(t, reply, result)
}

func TestClassify_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   FailureReason
	}{
		{"unauthorized", http.StatusUnauthorized, ReasonAuthentication},
		{"forbidden", http.StatusForbidden, ReasonAuthentication},
		{"quota", http.StatusTooManyRequests, ReasonQuota},
		{"server error", http.StatusInternalServerError, ReasonUpstream},
		{"bad request", http.StatusBadRequest, ReasonUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"message":"nope"}}`))
			})

			_, err := client.EnhanceProposal(context.Background(), testDraft)

			require.Error(t, err)
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, "nope", apiErr.Message)
			assert.Equal(t, tt.want, Classify(err))
		})
	}
}

func TestClassify_MalformedResponse(t *testing.T) {
	t.Run("bad json", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		})
		_, err := client.EnhanceProposal(context.Background(), testDraft)
		assert.Equal(t, ReasonMalformedResponse, Classify(err))
	})

	t.Run("empty choices", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		})
		_, err := client.EnhanceProposal(context.Background(), testDraft)
		assert.Equal(t, ReasonMalformedResponse, Classify(err))
	})
}

func TestClassify_Network(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, err := NewClient(url, testKey, "", time.Second)
	require.NoError(t, err)

	_, err = client.EnhanceProposal(context.Background(), testDraft)

	require.Error(t, err)
	assert.Equal(t, ReasonNetwork, Classify(err))
}

func TestStreamChat_Deltas(t *testing.T) {
	var got chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "text/event-stream")
		for _, part := range []string{"Start ", "with ", "the need."} {
			fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", part)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"ignored\"}}]}\n\n")
	})

	messages := []entity.ChatMessage{
		{Role: entity.ChatRoleSystem, Content: SystemPrompt("ctx")},
		{Role: entity.ChatRoleUser, Content: "How do I structure a DOJ CTAS proposal?"},
	}

	var chunks []string
	err := client.StreamChat(context.Background(), messages, func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Start ", "with ", "the need."}, chunks)
	assert.True(t, got.Stream)
	assert.Len(t, got.Messages, 2)
}

func TestStreamChat_CallbackErrorStops(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"b\"}}]}\n\n")
	})
	stop := errors.New("client gone")

	calls := 0
	err := client.StreamChat(context.Background(),
		[]entity.ChatMessage{{Role: entity.ChatRoleUser, Content: "hi"}},
		func(string) error { calls++; return stop })

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestChat_EmptyHistory(t *testing.T) {
	client, err := NewClient("", testKey, "", 0)
	require.NoError(t, err)

	_, err = client.Chat(context.Background(), nil)
	assert.Error(t, err)
}

func TestSystemPrompt(t *testing.T) {
	prompt := SystemPrompt("We serve Tribal nations.")

	assert.True(t, strings.HasPrefix(prompt, "You are TribalDesk AI"))
	assert.True(t, strings.HasSuffix(prompt, "\n\nWe serve Tribal nations."))
}

func TestSettings_Client(t *testing.T) {
	s := Settings{APIKey: testKey, DefaultModel: "gpt-4o", Allowed: []string{"gpt-4o", "gpt-4o-mini"}}

	client, err := s.Client("")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", client.Model())

	client, err = s.Client(" gpt-4o-mini ")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", client.Model())

	_, err = s.Client("o1-pro")
	assert.True(t, apperror.IsValidation(err))

	_, err = Settings{}.Client("")
	assert.True(t, apperror.IsConfiguration(err))
	assert.False(t, Settings{APIKey: " "}.Configured())
}

func TestPublicMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"api message", &APIError{StatusCode: 429, Message: "quota exceeded"}, "OpenAI error: quota exceeded"},
		{"api status only", &APIError{StatusCode: 502}, "OpenAI error: 502 Bad Gateway"},
		{"malformed", fmt.Errorf("%w: пустой список choices", ErrMalformedResponse), "OpenAI error: the service returned a response that could not be read"},
		{"deadline", fmt.Errorf("%w: %w", ErrRequestFailed, context.DeadlineExceeded), "OpenAI error: the request timed out"},
		{"cancelled", fmt.Errorf("%w: %w", ErrRequestFailed, context.Canceled), "OpenAI error: the request was cancelled"},
		{"other", errors.New("boom"), "OpenAI error: boom"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicMessage(tt.err))
		})
	}
}

func TestPublicMessage_HidesClientWrapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, err := NewClient(url, testKey, "", time.Second)
	require.NoError(t, err)

	_, err = client.EnhanceProposal(context.Background(), testDraft)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Equal(t, "OpenAI error: could not reach the service", PublicMessage(err))
}

func TestPublicMessage_ClientTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		writeCompletion(w, "late")
	})
	client.httpClient.Timeout = 50 * time.Millisecond

	_, err := client.EnhanceProposal(context.Background(), testDraft)

	require.Error(t, err)
	assert.Equal(t, ReasonNetwork, Classify(err))
	assert.Equal(t, "OpenAI error: the request timed out", PublicMessage(err))
}
