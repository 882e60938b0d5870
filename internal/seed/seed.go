// Package seed loads the starting character roster from an embedded YAML
// file and writes it into a world store. Seeding is idempotent: roster
// entries carry stable IDs, so re-running updates in place instead of
// duplicating.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log"

	"gopkg.in/yaml.v3"

	"github.com/thornquist/loreweaver/internal/storage"
	"github.com/thornquist/loreweaver/pkg/types"
)

//go:embed roster.yaml
var rosterYAML []byte

type rosterFile struct {
	Characters []rosterCharacter `yaml:"characters"`
}

type rosterCharacter struct {
	ID                string   `yaml:"id"`
	Name              string   `yaml:"name"`
	Role              string   `yaml:"role"`
	Description       string   `yaml:"description"`
	PersonalityPrompt string   `yaml:"personality_prompt"`
	Backstory         string   `yaml:"backstory"`
	Location          string   `yaml:"location"`
	SpeechPatterns    []string `yaml:"speech_patterns"`
	KnowledgeDomains  []string `yaml:"knowledge_domains"`
	Mood              struct {
		State     string `yaml:"state"`
		Intensity int    `yaml:"intensity"`
	} `yaml:"mood"`
	Alignment string `yaml:"alignment"`
	Race      string `yaml:"race"`
	Level     int    `yaml:"level"`
	AvatarURL string `yaml:"avatar_url"`
}

// Roster parses the embedded roster into characters.
func Roster() ([]*types.Character, error) {
	var file rosterFile
	if err := yaml.Unmarshal(rosterYAML, &file); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	characters := make([]*types.Character, 0, len(file.Characters))
	for _, rc := range file.Characters {
		if rc.ID == "" || rc.Name == "" {
			return nil, fmt.Errorf("roster entry missing id or name: %+v", rc)
		}
		characters = append(characters, &types.Character{
			ID:                rc.ID,
			Name:              rc.Name,
			Role:              types.ParseRole(rc.Role),
			Description:       rc.Description,
			PersonalityPrompt: rc.PersonalityPrompt,
			Backstory:         rc.Backstory,
			Location:          rc.Location,
			SpeechPatterns:    rc.SpeechPatterns,
			KnowledgeDomains:  rc.KnowledgeDomains,
			CurrentMood: types.Mood{
				State:     rc.Mood.State,
				Intensity: rc.Mood.Intensity,
			},
			Alignment: rc.Alignment,
			Race:      rc.Race,
			Level:     rc.Level,
			AvatarURL: rc.AvatarURL,
			IsActive:  true,
		})
	}
	return characters, nil
}

// Characters writes the embedded roster into the store. Existing entries are
// updated in place.
func Characters(ctx context.Context, store storage.CharacterStore) ([]*types.Character, error) {
	characters, err := Roster()
	if err != nil {
		return nil, err
	}

	for _, character := range characters {
		if err := store.StoreCharacter(ctx, character); err != nil {
			return nil, fmt.Errorf("failed to seed character %q: %w", character.Name, err)
		}
		log.Printf("seed: character %s (%s) ready", character.Name, character.ID)
	}
	return characters, nil
}
