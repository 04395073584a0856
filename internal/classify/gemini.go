package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"budgetin/internal/cache"
	"budgetin/internal/core"
)

const defaultGeminiModel = "gemini-2.0-flash"

// ErrNoCandidates is returned when the model answers with an empty
// candidate list, usually because of safety filtering.
var ErrNoCandidates = errors.New("gemini returned no candidates")

// GeminiConfig holds settings for the Gemini classifier.
type GeminiConfig struct {
	APIKey   string
	Model    string
	BaseURL  string // overridable for tests
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Gemini is the AI tier: it asks the Gemini generateContent endpoint to
// pick a category. Treat it as unreliable; wrap it with WithFallback.
type Gemini struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
	answers    *cache.LRU[core.Category]
}

// NewGemini creates the AI classifier. The API key is required; other
// fields default.
func NewGemini(cfg GeminiConfig) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Hour
	}
	return &Gemini{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    baseURL,
		answers:    cache.New[core.Category](512, cacheTTL),
	}, nil
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Classify asks Gemini for the category of a description. Identical
// descriptions are served from the cache without a second request.
func (g *Gemini) Classify(ctx context.Context, description string) (core.Category, error) {
	key := strings.ToLower(strings.TrimSpace(description))
	if cat, ok := g.answers.Get(key); ok {
		return cat, nil
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: buildPrompt(description)}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoCandidates
	}

	cat, err := extractCategory(parsed.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		return "", err
	}
	g.answers.Set(key, cat)
	return cat, nil
}

func buildPrompt(description string) string {
	var b strings.Builder
	b.WriteString("Klasifikasikan pengeluaran berikut ke dalam salah satu kategori yang tersedia.\n\n")
	fmt.Fprintf(&b, "PENGELUARAN: %q\n\nKATEGORI YANG TERSEDIA:\n", description)
	for _, cat := range core.Categories {
		fmt.Fprintf(&b, "- %s\n", cat)
	}
	b.WriteString(`
ATURAN:
1. Pilih HANYA SATU kategori yang paling sesuai
2. Jawab dengan nama kategori PERSIS seperti dalam daftar
3. Jika ragu antara 2 kategori, pilih yang lebih spesifik
4. Gunakan "Other" hanya jika benar-benar tidak cocok kategori lain

JAWABAN (hanya nama kategori):`)
	return b.String()
}

// synonyms maps the Indonesian words the model tends to answer with back
// to canonical category names. Ordered so matching is deterministic.
var synonyms = []struct {
	word     string
	category core.Category
}{
	{"kebutuhan", core.CategoryDailyNeeds},
	{"harian", core.CategoryDailyNeeds},
	{"makanan", core.CategoryDailyNeeds},
	{"makan", core.CategoryDailyNeeds},
	{"transportasi", core.CategoryTransportation},
	{"transport", core.CategoryTransportation},
	{"kendaraan", core.CategoryTransportation},
	{"utilitas", core.CategoryUtilities},
	{"listrik", core.CategoryUtilities},
	{"internet", core.CategoryUtilities},
	{"kesehatan", core.CategoryHealth},
	{"medis", core.CategoryHealth},
	{"obat", core.CategoryHealth},
	{"darurat", core.CategoryUrgent},
	{"emergency", core.CategoryUrgent},
	{"hiburan", core.CategoryEntertainment},
	{"pendidikan", core.CategoryEducation},
	{"sekolah", core.CategoryEducation},
	{"belanja", core.CategoryShopping},
	{"tagihan", core.CategoryBills},
	{"lainnya", core.CategoryOther},
}

// extractCategory pulls a canonical category out of a model answer. The
// model is asked for the bare name but often decorates it, so matching is
// by containment, exact names before synonyms.
func extractCategory(answer string) (core.Category, error) {
	lowered := strings.ToLower(strings.TrimSpace(answer))
	if lowered == "" {
		return "", fmt.Errorf("%w: empty answer", core.ErrUnknownCategory)
	}
	for _, cat := range core.Categories {
		if strings.Contains(lowered, strings.ToLower(string(cat))) {
			return cat, nil
		}
	}
	for _, s := range synonyms {
		if strings.Contains(lowered, s.word) {
			return s.category, nil
		}
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownCategory, answer)
}
