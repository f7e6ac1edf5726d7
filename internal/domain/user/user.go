// Package user defines the account entities shared by the student and advisor
// sides of the app.
package user

import "strings"

// Role separates the two user types. Stored as the `tipo` field on the user
// document.
type Role string

const (
	RoleStudent Role = "aluno"
	RoleAdvisor Role = "orientadora"
)

// Anxiety levels assigned from the questionnaire.
const (
	AnxietyLow    = "baixo"
	AnxietyMedium = "medio"
	AnxietyHigh   = "alto"
)

// Profile is a user document. PasswordHash never leaves the server.
type Profile struct {
	ID           string `json:"id"`
	Name         string `json:"nome"`
	Email        string `json:"email"`
	Role         Role   `json:"tipo"`
	Course       string `json:"curso,omitempty"`
	AvatarURL    string `json:"avatarUrl,omitempty"`
	Notes        string `json:"anotacoes,omitempty"`
	AnxietyLevel string `json:"nivelAnsiedade,omitempty"`
	PasswordHash string `json:"-"`
}

// DisplayName prefers the registered name, falling back to the email's local
// part the way the client greeting does.
func (p *Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if at := strings.Index(p.Email, "@"); at > 0 {
		return p.Email[:at]
	}
	return p.Email
}

// FromFields hydrates a profile from a schemaless user document.
func FromFields(id string, fields map[string]any) Profile {
	p := Profile{ID: id}
	p.Name, _ = fields["nome"].(string)
	p.Email, _ = fields["email"].(string)
	if tipo, ok := fields["tipo"].(string); ok {
		p.Role = Role(tipo)
	}
	p.Course, _ = fields["curso"].(string)
	p.AvatarURL, _ = fields["avatarUrl"].(string)
	p.Notes, _ = fields["anotacoes"].(string)
	p.AnxietyLevel, _ = fields["nivelAnsiedade"].(string)
	p.PasswordHash, _ = fields["passwordHash"].(string)
	return p
}

// Fields flattens a profile into its document representation.
func (p *Profile) Fields() map[string]any {
	return map[string]any{
		"nome":           p.Name,
		"email":          p.Email,
		"tipo":           string(p.Role),
		"curso":          p.Course,
		"avatarUrl":      p.AvatarURL,
		"anotacoes":      p.Notes,
		"nivelAnsiedade": p.AnxietyLevel,
		"passwordHash":   p.PasswordHash,
	}
}
