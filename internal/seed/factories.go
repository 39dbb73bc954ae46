// Package seed provides helpers to create demo profiles and connection
// requests. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"

	"vibeconnect/internal/models"

	"github.com/brianvoe/gofakeit/v6"
)

var interestPool = []string{
	"hiking", "board games", "coffee", "climbing", "film", "jazz", "cooking",
	"photography", "running", "anime", "books", "travel", "linux", "gardening",
}

// Factory builds domain entities with realistic fake content.
type Factory struct {
	faker *gofakeit.Faker
	rng   *rand.Rand
}

// NewFactory creates a Factory. The same seed always yields the same data.
func NewFactory(seed int64) *Factory {
	return &Factory{
		faker: gofakeit.New(seed),
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// BuildProfile constructs a profile for userID without persisting it.
func (f *Factory) BuildProfile(userID uint, overrides ...func(*models.Profile)) *models.Profile {
	p := &models.Profile{
		UserID:       userID,
		DisplayName:  f.faker.FirstName() + " " + f.faker.LastName(),
		ProfileImage: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID()),
		Bio:          f.faker.Sentence(10),
		Location:     f.faker.City(),
		Interests:    strings.Join(f.pickInterests(3), ","),
	}
	// Roughly one in four users never uploads an avatar.
	if f.rng.Intn(4) == 0 {
		p.ProfileImage = ""
	}
	for _, override := range overrides {
		override(p)
	}
	return p
}

// BuildMessage returns an optional request note. About a third are empty.
func (f *Factory) BuildMessage() string {
	switch f.rng.Intn(3) {
	case 0:
		return ""
	case 1:
		return models.DefaultConnectMessage
	default:
		return fmt.Sprintf("Saw you're into %s too, want to meet up?", f.pickInterests(1)[0])
	}
}

func (f *Factory) pickInterests(n int) []string {
	idx := f.rng.Perm(len(interestPool))
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, interestPool[i])
	}
	return out
}
