package fixtures

import (
	"context"

	"github.com/stretchr/testify/mock"

	"yt-insights-go/internal/types"
)

// MockModel implements llm.Model for testing
type MockModel struct {
	mock.Mock
}

func (m *MockModel) Invoke(ctx context.Context, prompt string) (any, error) {
	args := m.Called(ctx, prompt)
	return args.Get(0), args.Error(1)
}

// MockSearcher implements youtube.Searcher for testing
type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, query string, limit int) ([]types.SearchHit, error) {
	args := m.Called(ctx, query, limit)
	hits, _ := args.Get(0).([]types.SearchHit)
	return hits, args.Error(1)
}

// MockMetadata implements youtube.MetadataFetcher for testing
type MockMetadata struct {
	mock.Mock
}

func (m *MockMetadata) Fetch(ctx context.Context, videoID string) (types.VideoRecord, error) {
	args := m.Called(ctx, videoID)
	return args.Get(0).(types.VideoRecord), args.Error(1)
}

// MockTranscripts implements processor.TranscriptFetcher for testing
type MockTranscripts struct {
	mock.Mock
}

func (m *MockTranscripts) Fetch(ctx context.Context, videoID string) (string, error) {
	args := m.Called(ctx, videoID)
	return args.String(0), args.Error(1)
}

// MockComments implements processor.CommentFetcher for testing
type MockComments struct {
	mock.Mock
}

func (m *MockComments) Fetch(ctx context.Context, videoID string) ([]string, error) {
	args := m.Called(ctx, videoID)
	comments, _ := args.Get(0).([]string)
	return comments, args.Error(1)
}
