package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	draftDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "presensi",
		Subsystem: "ai",
		Name:      "draft_duration_seconds",
		Help:      "Duration of report drafting requests",
	}, []string{"model"})

	draftFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "presensi",
		Subsystem: "ai",
		Name:      "draft_failures_total",
		Help:      "Number of report drafting failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI drafter.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIDrafter implements Drafter against the OpenAI chat completion API.
type OpenAIDrafter struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIDrafter builds a drafter using the provided configuration.
func NewOpenAIDrafter(cfg OpenAIConfig) (*OpenAIDrafter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 512
	}

	tracer := otel.Tracer("github.com/noah-isme/presensi-go-api/pkg/ai/openai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIDrafter{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Draft sends the notes to OpenAI and returns the formal report paragraph.
func (d *OpenAIDrafter) Draft(parent context.Context, input DraftInput) (DraftResult, error) {
	ctx, span := d.tracer.Start(parent, "openai.draft", trace.WithAttributes(
		attribute.String("model", d.cfg.Model),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       d.cfg.Model,
		MaxTokens:   d.cfg.MaxTokens,
		Temperature: d.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: drafterSystemPrompt(input),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Catatan mentah: %q", input.Notes),
			},
		},
	}

	resp, err := d.client.CreateChatCompletion(ctx, request)
	draftDuration.WithLabelValues(d.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		draftFailures.WithLabelValues(d.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return DraftResult{}, fmt.Errorf("openai draft: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		draftFailures.WithLabelValues(d.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return DraftResult{}, err
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		err := fmt.Errorf("empty draft returned from openai")
		draftFailures.WithLabelValues(d.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return DraftResult{}, err
	}

	return DraftResult{Text: text, Model: d.cfg.Model}, nil
}

func drafterSystemPrompt(input DraftInput) string {
	builder := strings.Builder{}
	builder.WriteString("Anda adalah asisten administrasi untuk mahasiswa KKN (Kuliah Kerja Nyata). ")
	builder.WriteString("Tugas anda adalah mengubah catatan poin-poin kegiatan mentah menjadi satu paragraf ")
	builder.WriteString("laporan kegiatan harian yang formal, rapi, dan profesional dalam Bahasa Indonesia.\n")
	if input.Village != "" {
		builder.WriteString("Lokasi: ")
		builder.WriteString(input.Village)
		builder.WriteString("\n")
	}
	if input.ProgramName != "" {
		builder.WriteString("Kegiatan: ")
		builder.WriteString(input.ProgramName)
		builder.WriteString("\n")
	}
	builder.WriteString("Output: hanya satu paragraf teks laporan formal, tanpa pembuka atau penutup lain.")
	return builder.String()
}
