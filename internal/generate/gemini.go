// Package generate sends prompts to the Gemini API.
package generate

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/genai"
)

type Kind string

const (
	KindInit       Kind = "init"
	KindCredential Kind = "credential"
	KindNetwork    Kind = "network"
	KindService    Kind = "service"
	KindEmpty      Kind = "empty_response"
)

// Failure is the error returned by a generator. Callers branch on Kind.
type Failure struct {
	Kind   Kind
	Detail string
	Err    error
}

func (f *Failure) Error() string {
	if f.Detail == "" {
		return fmt.Sprintf("generation failed (%s)", f.Kind)
	}
	return fmt.Sprintf("generation failed (%s): %s", f.Kind, f.Detail)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// KindOf reports the failure kind of err, or "" when err is not a Failure.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

type Options struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type Gemini struct {
	models *genai.Models
	model  string
}

// NewGemini configures a Gemini API client. No request is made here.
func NewGemini(ctx context.Context, opts Options) (*Gemini, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, &Failure{Kind: KindInit, Detail: "api key is empty"}
	}
	if strings.TrimSpace(opts.Model) == "" {
		return nil, &Failure{Kind: KindInit, Detail: "model name is empty"}
	}
	cc := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: opts.Timeout},
	}
	if opts.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, &Failure{Kind: KindInit, Detail: err.Error(), Err: err}
	}
	return &Gemini{models: client.Models, model: opts.Model}, nil
}

func (g *Gemini) Model() string {
	return g.model
}

// Generate sends one prompt and blocks until the completion or a failure arrives.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", classify(err)
	}
	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		detail := "model returned no text"
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			detail = fmt.Sprintf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", &Failure{Kind: KindEmpty, Detail: detail}
	}
	return text, nil
}

func classify(err error) *Failure {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiFailure(apiErr, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiFailure(*apiErrPtr, err)
	}

	var urlErr *url.Error
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &Failure{Kind: KindNetwork, Detail: err.Error(), Err: err}
	case errors.As(err, &urlErr), errors.As(err, &netErr):
		return &Failure{Kind: KindNetwork, Detail: err.Error(), Err: err}
	}
	return &Failure{Kind: KindService, Detail: err.Error(), Err: err}
}

func apiFailure(apiErr genai.APIError, err error) *Failure {
	detail := fmt.Sprintf("%d %s: %s", apiErr.Code, apiErr.Status, apiErr.Message)
	kind := KindService
	switch {
	case apiErr.Code == http.StatusUnauthorized, apiErr.Code == http.StatusForbidden:
		kind = KindCredential
	case apiErr.Code == http.StatusBadRequest && strings.Contains(strings.ToLower(apiErr.Message), "api key"):
		kind = KindCredential
	}
	return &Failure{Kind: kind, Detail: detail, Err: err}
}
