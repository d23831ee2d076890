package ai

import (
	"encoding/json"
	"fmt"

	"github.com/talentsift/resume-parser/internal/domain"
)

const enhanceMaxTokens = 1200

// Enhancer implements domain.ContentEnhancer on top of an AIClient.
type Enhancer struct {
	client domain.AIClient
}

// NewEnhancer constructs an Enhancer.
func NewEnhancer(client domain.AIClient) *Enhancer {
	return &Enhancer{client: client}
}

// Enhance asks the model for improved resume content.
func (e *Enhancer) Enhance(ctx domain.Context, resume domain.ParsedResume) (domain.Enhancement, error) {
	raw, err := e.client.ChatJSON(ctx, enhanceSystemPrompt, buildEnhancePrompt(resume), enhanceMaxTokens)
	if err != nil {
		return domain.Enhancement{}, err
	}
	if isRefusal(raw) {
		return domain.Enhancement{}, fmt.Errorf("op=ai.enhance: %w: model refused", domain.ErrAIInvalidResponse)
	}
	var out domain.Enhancement
	if err := json.Unmarshal([]byte(CleanJSONResponse(raw)), &out); err != nil {
		return domain.Enhancement{}, fmt.Errorf("op=ai.enhance: %w: invalid JSON", domain.ErrAIInvalidResponse)
	}
	return out, nil
}
