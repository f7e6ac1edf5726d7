package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Laisfaustt/ProjetoCamali/internal/domain/user"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/media"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/observability/logging"
	"github.com/Laisfaustt/ProjetoCamali/internal/infrastructure/persistence/docstore"
)

// ProfileService manages account profiles: basic data, avatars, advisor
// notes and the anxiety questionnaire.
type ProfileService struct {
	store   docstore.Store
	avatars *media.AvatarProcessor
	logger  *logging.ChanneledLogger
}

// NewProfileService creates a new profile service.
func NewProfileService(store docstore.Store, avatars *media.AvatarProcessor, logger *logging.ChanneledLogger) *ProfileService {
	return &ProfileService{
		store:   store,
		avatars: avatars,
		logger:  logger,
	}
}

// Get loads one profile by id.
func (p *ProfileService) Get(ctx context.Context, userID string) (*user.Profile, error) {
	doc, err := p.store.Get(ctx, userCollection, userID)
	if err != nil {
		return nil, err
	}
	profile := user.FromFields(doc.ID, doc.Fields)
	return &profile, nil
}

// UpdateBasics changes the editable profile fields. Empty values are left
// untouched.
func (p *ProfileService) UpdateBasics(ctx context.Context, userID, name, course string) error {
	updates := map[string]any{}
	if name = strings.TrimSpace(name); name != "" {
		updates["nome"] = name
	}
	if course = strings.TrimSpace(course); course != "" {
		updates["curso"] = course
	}
	if len(updates) == 0 {
		return nil
	}

	if err := p.store.Update(ctx, userCollection, userID, updates); err != nil {
		p.logger.Auth().Error("Profile update failed", "error", err, "userId", userID)
		return err
	}
	return nil
}

// UploadAvatar decodes a base64 image, normalizes it and stores the result,
// then points the profile at the new URL.
func (p *ProfileService) UploadAvatar(ctx context.Context, userID, base64Data string) (string, error) {
	url, err := p.avatars.ProcessBase64(userID, base64Data)
	if err != nil {
		p.logger.Blob().Error("Avatar processing failed", "error", err, "userId", userID)
		return "", err
	}

	if err := p.store.Update(ctx, userCollection, userID, map[string]any{"avatarUrl": url}); err != nil {
		p.logger.Blob().Error("Avatar URL update failed", "error", err, "userId", userID)
		return "", err
	}

	p.logger.Blob().Info("Avatar updated", "userId", userID, "url", url)
	return url, nil
}

// SetNotes stores an advisor's free-form notes about a student.
func (p *ProfileService) SetNotes(ctx context.Context, studentID, notes string) error {
	if err := p.store.Update(ctx, userCollection, studentID, map[string]any{"anotacoes": notes}); err != nil {
		p.logger.Auth().Error("Notes update failed", "error", err, "studentId", studentID)
		return err
	}
	return nil
}

// Questionnaire thresholds over the summed answers (7 questions, 0..3 each,
// GAD-7 style).
const (
	questionnaireQuestions = 7
	anxietyMediumFloor     = 8
	anxietyHighFloor       = 15
)

// ApplyQuestionnaire scores the anxiety questionnaire and records the
// resulting level on the student's profile.
func (p *ProfileService) ApplyQuestionnaire(ctx context.Context, userID string, answers []int) (string, error) {
	if len(answers) != questionnaireQuestions {
		return "", fmt.Errorf("expected %d answers, got %d", questionnaireQuestions, len(answers))
	}

	total := 0
	for i, answer := range answers {
		if answer < 0 || answer > 3 {
			return "", fmt.Errorf("answer %d out of range", i)
		}
		total += answer
	}

	level := user.AnxietyLow
	switch {
	case total >= anxietyHighFloor:
		level = user.AnxietyHigh
	case total >= anxietyMediumFloor:
		level = user.AnxietyMedium
	}

	if err := p.store.Update(ctx, userCollection, userID, map[string]any{"nivelAnsiedade": level}); err != nil {
		p.logger.Auth().Error("Questionnaire update failed", "error", err, "userId", userID)
		return "", err
	}

	p.logger.Auth().Info("Questionnaire applied", "userId", userID, "score", total, "level", level)
	return level, nil
}
