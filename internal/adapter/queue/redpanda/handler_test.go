package redpanda

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentsift/resume-parser/internal/domain"
)

type stubRunner struct {
	ids []string
	err error
}

func (s *stubRunner) Process(_ domain.Context, resumeID string) error {
	s.ids = append(s.ids, resumeID)
	return s.err
}

func TestParseHandlerRunsJob(t *testing.T) {
	runner := &stubRunner{}
	h := &ParseHandler{Runner: runner}

	err := h.Handle(context.Background(), domain.ParseTaskPayload{ResumeID: "r-1"})

	require.NoError(t, err)
	assert.Equal(t, []string{"r-1"}, runner.ids)
}

func TestParseHandlerPropagatesFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("boom")}
	h := &ParseHandler{Runner: runner}

	err := h.Handle(context.Background(), domain.ParseTaskPayload{ResumeID: "r-2"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestParseTaskPayloadRoundTrip(t *testing.T) {
	payload := domain.ParseTaskPayload{ResumeID: "abc-123"}

	b, err := json.Marshal(payload)
	require.NoError(t, err)

	var got domain.ParseTaskPayload
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, payload, got)
}
