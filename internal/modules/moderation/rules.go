package moderation

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/Tyr597972/DiscordBot/internal/modules/moderation/domain"
	"gopkg.in/yaml.v3"
)

//go:embed default_rules.yaml
var defaultRulesYAML []byte

// Rules is the moderation rule set: what to catch, what to say and how hard
// to punish.
type Rules struct {
	BannedTerms []string        `yaml:"banned_terms"`
	Taunts      []string        `yaml:"taunts"`
	FollowUp    string          `yaml:"follow_up"`
	Ladder      []time.Duration `yaml:"ladder"`
}

// DefaultRules returns the built-in rule set.
func DefaultRules() (Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(defaultRulesYAML, &rules); err != nil {
		return Rules{}, fmt.Errorf("failed to parse default rules: %w", err)
	}
	return rules, nil
}

// LoadRules reads the rule file at path over the built-in rules. Keys absent
// from the file keep their default. An empty path or a missing file yields
// the defaults.
func LoadRules(path string) (Rules, error) {
	rules, err := DefaultRules()
	if err != nil {
		return Rules{}, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Rules{}, fmt.Errorf("failed to read rules file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &rules); err != nil {
				return Rules{}, fmt.Errorf("failed to parse rules file %s: %w", path, err)
			}
		}
	}

	if err := rules.validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

func (r Rules) validate() error {
	if len(r.BannedTerms) == 0 {
		return errors.New("rules: banned_terms must not be empty")
	}
	for _, term := range r.BannedTerms {
		if strings.TrimSpace(term) == "" {
			return errors.New("rules: banned_terms must not contain blank entries")
		}
	}
	if _, err := domain.NewLadder(r.Ladder); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	return nil
}
