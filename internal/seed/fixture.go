package seed

import (
	"context"
	"fmt"
	"os"
	"strings"

	"vibeconnect/internal/models"

	"gopkg.in/yaml.v3"
)

// Fixture is a hand-written data set, usually loaded from YAML:
//
//	profiles:
//	  - user_id: 1
//	    display_name: Ava
//	requests:
//	  - from: 1
//	    to: 2
//	    message: "coffee?"
type Fixture struct {
	Profiles []FixtureProfile `yaml:"profiles"`
	Requests []FixtureRequest `yaml:"requests"`
}

// FixtureProfile is one profile entry.
type FixtureProfile struct {
	UserID      uint     `yaml:"user_id"`
	DisplayName string   `yaml:"display_name"`
	Avatar      string   `yaml:"avatar"`
	Bio         string   `yaml:"bio"`
	Location    string   `yaml:"location"`
	Interests   []string `yaml:"interests"`
}

// FixtureRequest is one pending request. A nil Message uses the default note.
type FixtureRequest struct {
	From    uint    `yaml:"from"`
	To      uint    `yaml:"to"`
	Message *string `yaml:"message"`
}

// LoadFixture reads and parses a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(raw)
}

// ParseFixture parses YAML fixture data.
func ParseFixture(raw []byte) (*Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	for i, p := range fx.Profiles {
		if p.UserID == 0 || p.DisplayName == "" {
			return nil, fmt.Errorf("fixture profile %d: user_id and display_name are required", i)
		}
	}
	for i, r := range fx.Requests {
		if r.From == 0 || r.To == 0 {
			return nil, fmt.Errorf("fixture request %d: from and to are required", i)
		}
	}
	return &fx, nil
}

// Apply writes the fixture. Profiles are upserted; requests go through the
// lifecycle rules and rejected ones are reported as skipped.
func (s *Seeder) Apply(ctx context.Context, fx *Fixture) (Result, error) {
	var res Result
	for _, fp := range fx.Profiles {
		p := &models.Profile{
			UserID:       fp.UserID,
			DisplayName:  fp.DisplayName,
			ProfileImage: fp.Avatar,
			Bio:          fp.Bio,
			Location:     fp.Location,
			Interests:    strings.Join(fp.Interests, ","),
		}
		if err := s.profiles.Upsert(ctx, p); err != nil {
			return res, fmt.Errorf("fixture profile %d: %w", fp.UserID, err)
		}
		res.Profiles++
	}

	for _, fr := range fx.Requests {
		message := models.DefaultConnectMessage
		if fr.Message != nil {
			message = *fr.Message
		}
		if err := s.request(ctx, fr.From, fr.To, message, &res); err != nil {
			return res, err
		}
	}
	return res, nil
}
