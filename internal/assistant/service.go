package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ubqurrotul/koperasi-backend/pkg/config"
	"github.com/ubqurrotul/koperasi-backend/pkg/logger"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// systemInstruction primes the model with the cooperative's house rules so
// answers stay on topic. Kept in Indonesian, the language members use.
const systemInstruction = `Anda adalah Asisten Virtual Cerdas untuk Koperasi "UB Qurrotul 'Ibaad".
Tugas anda adalah membantu Anggota dan Admin dengan informasi seputar koperasi.

Informasi Penting Koperasi:
1. Simpanan Wajib: Harus dibayar paling lambat tanggal 10 setiap bulan. Jika telat, tidak dihitung dalam SHU Jasa Modal bulan tersebut.
2. SHU (Sisa Hasil Usaha):
   - Jasa Modal (30%): Dibagikan berdasarkan proporsi simpanan.
   - Jasa Transaksi (20%): Dibagikan berdasarkan proporsi belanja/transaksi.
   - Cadangan Modal (25%), Jasa Pengurus (15%), Pendidikan (5%), Infaq (5%).
3. Unit Usaha: "UB. Store" menyediakan kebutuhan pokok dan barang lainnya.
4. Transaksi: Pembelian dan simpanan bisa dilakukan via aplikasi dan dikonfirmasi via WhatsApp Admin.

Gaya Komunikasi:
- Ramah, sopan, dan profesional.
- Gunakan Bahasa Indonesia yang baik.
- Jawaban harus singkat dan padat (maksimal 3-4 kalimat kecuali diminta detail).`

// Fixed replies shown instead of an error. The assistant is a convenience
// feature and must never surface a 5xx to the member.
const (
	fallbackNoKey     = "Maaf, API Key AI belum dikonfigurasi oleh Admin di server."
	fallbackUpstream  = "Maaf, saya sedang mengalami gangguan koneksi. Mohon coba lagi nanti."
	fallbackNoContent = "Maaf, saya tidak dapat menjawab pertanyaan itu saat ini."
)

// Turn is one prior exchange in the conversation, replayed so the model
// keeps context across messages.
type Turn struct {
	Role string `json:"role" validate:"required,oneof=user model"`
	Text string `json:"text" validate:"required"`
}

// ChatInput carries the member's message plus optional history.
type ChatInput struct {
	Message string `json:"message" validate:"required,max=4000"`
	History []Turn `json:"history" validate:"max=40,dive"`
}

// ChatResult is always populated; Fallback marks canned replies.
type ChatResult struct {
	Reply    string `json:"reply"`
	Fallback bool   `json:"fallback"`
}

// Service proxies member chat messages to the Gemini API.
type Service interface {
	Chat(ctx context.Context, input ChatInput) *ChatResult
}

type service struct {
	cfg     config.GeminiConfig
	client  *http.Client
	baseURL string
	logg    *logger.Logger
}

// Option tweaks the service, used by tests to point at a stub server.
type Option func(*service)

// WithBaseURL overrides the Gemini endpoint.
func WithBaseURL(u string) Option {
	return func(s *service) { s.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the outbound client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *service) { s.client = c }
}

func NewService(cfg config.GeminiConfig, logg *logger.Logger, opts ...Option) Service {
	s := &service{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: defaultBaseURL,
		logg:    logg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// generateContent request/response mirror the REST shapes of the
// models.generateContent endpoint. Only the fields we use are declared.

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (s *service) Chat(ctx context.Context, input ChatInput) *ChatResult {
	if s.cfg.APIKey == "" {
		return &ChatResult{Reply: fallbackNoKey, Fallback: true}
	}

	reply, err := s.generate(ctx, input)
	if err != nil {
		s.warn(ctx, err)
		return &ChatResult{Reply: fallbackUpstream, Fallback: true}
	}
	if reply == "" {
		return &ChatResult{Reply: fallbackNoContent, Fallback: true}
	}
	return &ChatResult{Reply: reply}
}

func (s *service) generate(ctx context.Context, input ChatInput) (string, error) {
	contents := make([]geminiContent, 0, len(input.History)+1)
	for _, turn := range input.History {
		contents = append(contents, geminiContent{
			Role:  turn.Role,
			Parts: []geminiPart{{Text: turn.Text}},
		})
	}
	contents = append(contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: input.Message}},
	})

	body, err := json.Marshal(generateRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: systemInstruction}}},
		Contents:          contents,
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	var sb strings.Builder
	for _, candidate := range parsed.Candidates {
		for _, part := range candidate.Content.Parts {
			sb.WriteString(part.Text)
		}
		break
	}
	return strings.TrimSpace(sb.String()), nil
}

func (s *service) warn(ctx context.Context, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "assistant upstream failure")
}
