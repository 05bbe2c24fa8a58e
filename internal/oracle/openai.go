package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/fleetdocs/certintake/constants"
)

// Config for the OpenAI-backed oracle client.
type Config struct {
	APIKey      string
	Model       string        // e.g. "gpt-4o-mini"
	Temperature float32       // 0..2
	Timeout     time.Duration // per-call deadline
}

// Client implements FieldExtractor against the OpenAI chat API.
type Client struct {
	cfg    Config
	api    *openai.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		api:    openai.NewClient(cfg.APIKey),
		logger: logger,
	}
}

func certTypeLabels() []string {
	out := make([]string, 0, len(constants.CertTypes))
	for _, t := range constants.CertTypes {
		out = append(out, string(t))
	}
	return out
}

// ExtractFields sends the document text to the oracle with the
// certificate JSON-schema contract and parses the reply. Any failure is
// returned to the caller; the pipeline owns the filename fallback.
func (c *Client) ExtractFields(ctx context.Context, req ExtractRequest) (ExtractedFieldSet, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("oracle.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"text_len", len(req.Text),
		"filename", req.Filename,
	)

	types := certTypeLabels()
	schema := BuildCertificateJSONSchema(types)

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: buildSystemPrompt(types)},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(req.Text, req.Filename) +
				"\n\nReturn ONLY JSON that matches the provided schema."},
			{Role: openai.ChatMessageRoleSystem, Content: "JSON Schema:\n" + mustJSON(schema)},
		},
	})
	if err != nil {
		c.logger.Error("oracle.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return ExtractedFieldSet{}, nil, fmt.Errorf("oracle completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		c.logger.Error("oracle.extract.no_choices", "req_id", rid)
		return ExtractedFieldSet{}, nil, fmt.Errorf("no choices in oracle response")
	}

	// Providers wrap JSON in code fences; strip before parsing.
	content := []byte(StripJSONFences(resp.Choices[0].Message.Content))

	cleaned, dropped, err := NormalizeAndSanitizeJSON(content, c.logger)
	if err != nil {
		c.logger.Error("oracle.extract.sanitize_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return ExtractedFieldSet{}, content, fmt.Errorf("sanitize oracle reply: %w", err)
	}
	if err := ValidateJSONAgainstSchema(schema, cleaned); err != nil {
		c.logger.Error("oracle.extract.schema_validation_failed",
			"req_id", rid, "error", err, "content", string(cleaned),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return ExtractedFieldSet{}, cleaned, fmt.Errorf("schema validation failed: %w", err)
	}

	var out ExtractedFieldSet
	if err := json.Unmarshal(cleaned, &out); err != nil {
		c.logger.Error("oracle.extract.unmarshal_failed", "req_id", rid, "error", err)
		return ExtractedFieldSet{}, cleaned, fmt.Errorf("unmarshal fields: %w", err)
	}

	c.logger.Info("oracle.extract.ok",
		"req_id", rid,
		"certificate", out.CertificateName,
		"number", out.CertificateNumber,
		"valid_date", out.ValidDate,
		"authority", out.IssuingAuthority,
		"confidence", out.Confidence,
		"dropped_keys", len(dropped),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, cleaned, nil
}
