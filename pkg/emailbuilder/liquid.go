package emailbuilder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/osteele/liquid"
)

// Limits applied to Liquid personalisation of previews.
const (
	DefaultLiquidTimeout = 5 * time.Second
	// Embedded images make generated emails large, hence the generous limit.
	DefaultLiquidMaxSize = 2 * 1024 * 1024
)

// LiquidRenderer personalises generated HTML with Liquid test data.
type LiquidRenderer struct {
	engine  *liquid.Engine
	timeout time.Duration
	maxSize int
}

// NewLiquidRenderer creates a renderer with the default limits.
func NewLiquidRenderer() *LiquidRenderer {
	return &LiquidRenderer{
		engine:  liquid.NewEngine(),
		timeout: DefaultLiquidTimeout,
		maxSize: DefaultLiquidMaxSize,
	}
}

// NewLiquidRendererWithOptions creates a renderer with custom limits.
func NewLiquidRendererWithOptions(timeout time.Duration, maxSize int) *LiquidRenderer {
	r := NewLiquidRenderer()
	if timeout > 0 {
		r.timeout = timeout
	}
	if maxSize > 0 {
		r.maxSize = maxSize
	}
	return r
}

// Render evaluates the Liquid markup of content against data.
func (r *LiquidRenderer) Render(ctx context.Context, content string, data map[string]interface{}) (string, error) {
	if !strings.Contains(content, "{{") && !strings.Contains(content, "{%") {
		return content, nil
	}
	if len(content) > r.maxSize {
		return "", fmt.Errorf("template size (%d bytes) exceeds maximum allowed size (%d bytes)", len(content), r.maxSize)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resultChan := make(chan string, 1)
	errorChan := make(chan error, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				errorChan <- fmt.Errorf("panic during liquid rendering: %v", rec)
			}
		}()
		rendered, err := r.engine.ParseAndRenderString(content, data)
		if err != nil {
			errorChan <- fmt.Errorf("liquid rendering failed: %w", err)
			return
		}
		resultChan <- rendered
	}()

	select {
	case result := <-resultChan:
		return result, nil
	case err := <-errorChan:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("liquid rendering aborted: %w", ctx.Err())
	}
}

// GenerateWithData generates the email and personalises it with data. When
// Liquid evaluation fails the unrendered HTML is returned with the error.
func (r *LiquidRenderer) GenerateWithData(ctx context.Context, doc *Document, data map[string]interface{}) (string, error) {
	out := Generate(doc)
	if data == nil {
		data = map[string]interface{}{}
	}
	rendered, err := r.Render(ctx, out, data)
	if err != nil {
		return out, err
	}
	return rendered, nil
}
