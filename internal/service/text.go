// Package service contains the business logic layer: validation, password
// gating, and orchestration of the code generator, expiry policy and
// repository. Handlers translate HTTP to these calls; the repository
// translates these calls to storage. Neither side leaks into the other.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/textshare/internal/apperror"
	"github.com/sakif/textshare/internal/auth"
	"github.com/sakif/textshare/internal/code"
	"github.com/sakif/textshare/internal/expiry"
	"github.com/sakif/textshare/internal/model"
	"github.com/sakif/textshare/internal/repository"
)

// MaxTextLength bounds snippet content (~1MB), mirroring the HTTP body limit.
const MaxTextLength = 1 << 20

// DefaultSyntax is used when the client doesn't pick a highlighting mode.
const DefaultSyntax = "plain"

// TextService handles the snippet lifecycle.
type TextService struct {
	repo      repository.TextRepository
	codes     *code.Generator
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewTextService wires the service. The repository arrives as an interface so
// tests can inject a mock and main can pick the sqlite or file backend.
func NewTextService(
	repo repository.TextRepository,
	codes *code.Generator,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *TextService {
	return &TextService{
		repo:      repo,
		codes:     codes,
		passwords: passwords,
		logger:    logger,
	}
}

// CreateResult is what a successful create reports back: enough for the
// client to build the share URL, nothing from inside the record.
type CreateResult struct {
	ID          string
	ExpiresAt   *time.Time
	IsProtected bool
}

// Create validates and persists a new snippet.
//
// The expiration option is honored verbatim — including "10m", which happens
// to equal the activity-refresh window. Unknown options mean "never".
func (s *TextService) Create(ctx context.Context, text, password, expiration, syntax string) (*CreateResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperror.ValidationFailed("text", "Text content is required")
	}
	if len(text) > MaxTextLength {
		return nil, apperror.ValidationFailed("text",
			fmt.Sprintf("text must be %d bytes or less", MaxTextLength))
	}
	if syntax == "" {
		syntax = DefaultSyntax
	}

	id, err := s.codes.Generate(ctx)
	if err != nil {
		s.logger.Error("code generation failed", slog.String("error", err.Error()))
		return nil, apperror.Internal("Failed to save text", err)
	}

	now := time.Now()
	snippet := &model.Snippet{
		ID:           id,
		Text:         text,
		Syntax:       syntax,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    expiry.For(expiration),
	}

	if password != "" {
		hash, salt, err := s.passwords.Hash(password)
		if err != nil {
			s.logger.Error("password hashing failed", slog.String("error", err.Error()))
			return nil, apperror.Internal("Failed to save text", err)
		}
		snippet.IsProtected = true
		snippet.PasswordHash = hash
		snippet.PasswordSalt = salt
	}

	if err := s.repo.Save(ctx, snippet); err != nil {
		s.logger.Error("failed to save text",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Internal("Failed to save text", err)
	}

	s.logger.Info("text created",
		slog.String("id", id),
		slog.String("syntax", syntax),
		slog.Bool("protected", snippet.IsProtected),
	)

	return &CreateResult{
		ID:          id,
		ExpiresAt:   snippet.ExpiresAt,
		IsProtected: snippet.IsProtected,
	}, nil
}

// Get loads a snippet, enforcing password gating. The password check guards
// the whole payload: an unauthorized caller of a protected snippet learns
// only that it is protected, never its text or syntax.
func (s *TextService) Get(ctx context.Context, id, password string) (*model.Snippet, error) {
	snippet, err := s.repo.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(snippet, password); err != nil {
		return nil, err
	}
	return snippet, nil
}

// Delete removes a snippet, with the same not-found and password rules as
// Get.
func (s *TextService) Delete(ctx context.Context, id, password string) error {
	snippet, err := s.repo.Load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(snippet, password); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete text",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return apperror.Internal("Failed to delete text", err)
	}

	s.logger.Info("text deleted", slog.String("id", id))
	return nil
}

// Touch is the activity refresh: any realtime interaction (join, edit, chat)
// stamps LastActivity and moves the deadline to now + the refresh window.
// This overrides whatever expiration the snippet was created with — active
// snippets are kept on a short leash until saved again.
//
// A missing snippet is not an error; there's just nothing to refresh.
func (s *TextService) Touch(ctx context.Context, id string) error {
	snippet, err := s.repo.Load(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("touching text %s: %w", id, err)
	}

	now := time.Now()
	snippet.LastActivity = now
	snippet.ExpiresAt = expiry.Refresh(now)

	if err := s.repo.Save(ctx, snippet); err != nil {
		return fmt.Errorf("touching text %s: %w", id, err)
	}
	return nil
}

// authorize applies the password gate. "No password given" and "wrong
// password" are distinct errors so clients know whether to prompt or to
// report a bad guess.
func (s *TextService) authorize(snippet *model.Snippet, password string) error {
	if !snippet.IsProtected {
		return nil
	}
	if password == "" {
		return apperror.PasswordRequired()
	}
	if !s.passwords.Verify(snippet.PasswordHash, snippet.PasswordSalt, password) {
		return apperror.InvalidPassword()
	}
	return nil
}
