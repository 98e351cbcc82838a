package usecase

import (
	"context"

	"github.com/compozy/releaseprep/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockGitRepository struct {
	mock.Mock
}

func (m *mockGitRepository) ChangedFiles(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	files, _ := args.Get(0).([]string)
	return files, args.Error(1)
}

func (m *mockGitRepository) IsClean(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *mockGitRepository) CurrentBranch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockGitRepository) Tags(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	tags, _ := args.Get(0).([]string)
	return tags, args.Error(1)
}

func (m *mockGitRepository) CreateBranch(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *mockGitRepository) AddFiles(ctx context.Context, paths ...string) error {
	args := m.Called(ctx, paths)
	return args.Error(0)
}

func (m *mockGitRepository) Commit(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *mockGitRepository) PushHead(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type mockChangelogService struct {
	mock.Mock
}

func (m *mockChangelogService) Generate(ctx context.Context, version domain.Version) (string, error) {
	args := m.Called(ctx, version)
	return args.String(0), args.Error(1)
}

type mockPrompter struct {
	mock.Mock
}

func (m *mockPrompter) Confirm(ctx context.Context, question string, defaultYes bool) (bool, error) {
	args := m.Called(ctx, question, defaultYes)
	return args.Bool(0), args.Error(1)
}

func (m *mockPrompter) Ask(ctx context.Context, question string, validate func(string) error) (string, error) {
	args := m.Called(ctx, question, validate)
	return args.String(0), args.Error(1)
}

func (m *mockPrompter) Select(ctx context.Context, question string, choices []string) (string, error) {
	args := m.Called(ctx, question, choices)
	return args.String(0), args.Error(1)
}
