package translator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider 记录调用次数的假提供商
type stubProvider struct {
	mu     sync.Mutex
	calls  []Request
	result string
	err    error
}

func (p *stubProvider) Translate(_ context.Context, req Request) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, req)
	return p.result, p.err
}

func (p *stubProvider) Model(src, tgt string) string { return ModelID(DefaultModelPrefix, src, tgt) }
func (p *stubProvider) Name() string                 { return "stub" }

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

type memoryCache struct {
	data map[string]string
}

func (c *memoryCache) Get(_ context.Context, key string) (string, bool) {
	v, ok := c.data[key]
	return v, ok
}

func (c *memoryCache) Set(_ context.Context, key, value string) error {
	c.data[key] = value
	return nil
}

func TestModelID(t *testing.T) {
	assert.Equal(t, "Helsinki-NLP/opus-mt-en-es", ModelID(DefaultModelPrefix, "en", "es"))
}

func TestClientTranslate(t *testing.T) {
	provider := &stubProvider{result: "Hola"}
	client := NewClient(provider, nil, "", nil)

	got, err := client.Translate(context.Background(), "Hello", "en", "es")
	require.NoError(t, err)
	assert.Equal(t, "Hola", got)
	require.Len(t, provider.calls, 1)
	assert.Equal(t, Request{Text: "Hello", SourceLanguage: "en", TargetLanguage: "es"}, provider.calls[0])
}

func TestClientTranslateMissingParameters(t *testing.T) {
	provider := &stubProvider{result: "x"}
	client := NewClient(provider, nil, "", nil)

	cases := [][3]string{
		{"", "en", "es"},
		{"Hello", "", "es"},
		{"Hello", "en", ""},
	}
	for _, c := range cases {
		_, err := client.Translate(context.Background(), c[0], c[1], c[2])
		require.Error(t, err)
		kind, ok := kindOf(err)
		require.True(t, ok)
		assert.Equal(t, KindValidation, kind)
	}
	assert.Zero(t, provider.callCount())
}

func TestClientTranslateProviderFailure(t *testing.T) {
	cause := errors.New("model Helsinki-NLP/opus-mt-en-xx does not exist")
	client := NewClient(&stubProvider{err: cause}, nil, "", nil)

	_, err := client.Translate(context.Background(), "Hello", "en", "xx")
	require.Error(t, err)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindTranslation, e.Kind)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to translate text")
	assert.Contains(t, err.Error(), "does not exist")
	assert.NotContains(t, e.Public(), "does not exist")
}

func TestClientSameLanguagePolicy(t *testing.T) {
	t.Run("translate", func(t *testing.T) {
		provider := &stubProvider{result: "Hello!"}
		got, err := NewClient(provider, nil, SameLanguageTranslate, nil).Translate(context.Background(), "Hello", "en", "en")
		require.NoError(t, err)
		assert.Equal(t, "Hello!", got)
		assert.Equal(t, 1, provider.callCount())
	})

	t.Run("passthrough", func(t *testing.T) {
		provider := &stubProvider{result: "unused"}
		got, err := NewClient(provider, nil, SameLanguagePassthrough, nil).Translate(context.Background(), "Hello", "en", "EN")
		require.NoError(t, err)
		assert.Equal(t, "Hello", got)
		assert.Zero(t, provider.callCount())
	})

	t.Run("reject", func(t *testing.T) {
		provider := &stubProvider{result: "unused"}
		_, err := NewClient(provider, nil, SameLanguageReject, nil).Translate(context.Background(), "Hello", "en", "en")
		require.Error(t, err)
		kind, _ := kindOf(err)
		assert.Equal(t, KindValidation, kind)
		assert.Zero(t, provider.callCount())
	})
}

func TestClientUsesCache(t *testing.T) {
	provider := &stubProvider{result: "Hola"}
	cache := &memoryCache{data: map[string]string{}}
	client := NewClient(provider, cache, "", nil)

	for i := 0; i < 3; i++ {
		got, err := client.Translate(context.Background(), "Hello", "en", "es")
		require.NoError(t, err)
		assert.Equal(t, "Hola", got)
	}
	assert.Equal(t, 1, provider.callCount())

	// 不同语言对不共享缓存
	_, err := client.Translate(context.Background(), "Hello", "en", "fr")
	require.NoError(t, err)
	assert.Equal(t, 2, provider.callCount())
}

func TestClientDoesNotCacheFailures(t *testing.T) {
	provider := &stubProvider{err: errors.New("quota exceeded")}
	cache := &memoryCache{data: map[string]string{}}
	client := NewClient(provider, cache, "", nil)

	_, err := client.Translate(context.Background(), "Hello", "en", "es")
	require.Error(t, err)
	assert.Empty(t, cache.data)
}

func TestHuggingFaceProvider(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"translation_text":"Hola mundo"}]`))
	}))
	defer srv.Close()

	provider, err := NewProvider(context.Background(), ProviderConfig{
		Type:   ProviderHuggingFace,
		APIKey: "hf_secret",
		APIURL: srv.URL + "/",
	})
	require.NoError(t, err)

	got, err := provider.Translate(context.Background(), Request{Text: "Hello world", SourceLanguage: "en", TargetLanguage: "es"})
	require.NoError(t, err)
	assert.Equal(t, "Hola mundo", got)
	assert.Equal(t, "/models/Helsinki-NLP/opus-mt-en-es", gotPath)
	assert.Equal(t, "Bearer hf_secret", gotAuth)
	assert.Equal(t, "Hello world", gotBody["inputs"])
}

func TestHuggingFaceProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "unknown model", status: http.StatusNotFound, body: `{"error":"Model Helsinki-NLP/opus-mt-en-zz does not exist"}`, wantErr: "does not exist"},
		{name: "quota", status: http.StatusTooManyRequests, body: `{"error":{"message":"rate limit reached"}}`, wantErr: "rate limit reached"},
		{name: "malformed", status: http.StatusOK, body: `{"unexpected":true}`, wantErr: "decoding response"},
		{name: "empty", status: http.StatusOK, body: `[]`, wantErr: "returned no translation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			provider, err := NewProvider(context.Background(), ProviderConfig{Type: ProviderHuggingFace, APIURL: srv.URL})
			require.NoError(t, err)

			client := NewClient(provider, nil, "", nil)
			_, err = client.Translate(context.Background(), "Hello", "en", "zz")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			kind, _ := kindOf(err)
			assert.Equal(t, KindTranslation, kind)
		})
	}
}

func TestHuggingFaceProviderHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	provider, err := NewProvider(context.Background(), ProviderConfig{Type: ProviderHuggingFace, APIURL: srv.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = provider.Translate(ctx, Request{Text: "Hello", SourceLanguage: "en", TargetLanguage: "es"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLibreTranslateProvider(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"translatedText":"Bonjour"}`))
	}))
	defer srv.Close()

	provider, err := NewProvider(context.Background(), ProviderConfig{
		Type:   ProviderLibreTranslate,
		APIURL: srv.URL,
		APIKey: "lt-key",
	})
	require.NoError(t, err)

	out, err := provider.Translate(context.Background(), Request{Text: "Hello", SourceLanguage: "en", TargetLanguage: "fr"})
	require.NoError(t, err)
	assert.Equal(t, "Bonjour", out)
	assert.Equal(t, "Hello", got["q"])
	assert.Equal(t, "en", got["source"])
	assert.Equal(t, "fr", got["target"])
	assert.Equal(t, "lt-key", got["api_key"])
}

func TestNewProviderUnknownType(t *testing.T) {
	_, err := NewProvider(context.Background(), ProviderConfig{Type: "babelfish"})
	assert.Error(t, err)
}

func TestOpenAIProviderModel(t *testing.T) {
	p := NewOpenAIProvider(ProviderConfig{APIKey: "sk-test"})
	assert.Equal(t, "openai", p.Name())
	assert.Equal(t, "gpt-4o-mini-en-de", p.Model("en", "de"))
}
