package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ericogr/chimera-arena/internal/game"
)

const (
	defaultAddress         = ":8080"
	defaultRoundTimeout    = 60 * time.Second
	defaultIdleTimeout     = 30 * time.Minute
	defaultFinishedGrace   = 5 * time.Minute
	defaultMissedForfeit   = 3
	maxTeamSize            = 3
	maxElementsPerCreature = 2
)

type creatureEntry struct {
	ID        string         `json:"id" yaml:"id"`
	Name      string         `json:"name" yaml:"name"`
	Elements  []game.Element `json:"elements" yaml:"elements"`
	HitPoints int            `json:"hit_points" yaml:"hit_points"`
	Attack    int            `json:"attack" yaml:"attack"`
	Defense   int            `json:"defense" yaml:"defense"`
	Speed     int            `json:"speed" yaml:"speed"`
	Energy    int            `json:"energy" yaml:"energy"`
	Deck      []string       `json:"deck" yaml:"deck"`
}

type rawConfig struct {
	CardList     []game.Card     `json:"card_list" yaml:"card_list"`
	CreatureList []creatureEntry `json:"creature_list" yaml:"creature_list"`
	Server       *struct {
		Address string `json:"address" yaml:"address"`
	} `json:"server" yaml:"server"`
	Battle *struct {
		RoundTimeout             string `json:"round_timeout" yaml:"round_timeout"`
		IdleTimeout              string `json:"idle_timeout" yaml:"idle_timeout"`
		FinishedGrace            string `json:"finished_grace" yaml:"finished_grace"`
		ForfeitAfterMissedRounds int    `json:"forfeit_after_missed_rounds" yaml:"forfeit_after_missed_rounds"`
		TeamSize                 int    `json:"team_size" yaml:"team_size"`
	} `json:"battle" yaml:"battle"`
}

// LoadedConfig contains the card and creature catalog to seed plus the
// server and battle settings.
type LoadedConfig struct {
	Cards         []game.Card
	Creatures     []game.CreatureTemplate
	ServerAddress string

	RoundTimeout             time.Duration
	IdleTimeout              time.Duration
	FinishedGrace            time.Duration
	ForfeitAfterMissedRounds int
	TeamSize                 int
}

// LoadConfig reads the catalog file at path. JSON is the default; files
// ending in .yaml or .yml are parsed as YAML. It requires the keys
// `card_list` and `creature_list`.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &rc)
	default:
		err = json.Unmarshal(b, &rc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg, err := build(rc)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func build(rc rawConfig) (*LoadedConfig, error) {
	if len(rc.CardList) == 0 {
		return nil, fmt.Errorf("card_list is empty (provide 'card_list' array)")
	}
	if len(rc.CreatureList) == 0 {
		return nil, fmt.Errorf("creature_list is empty (provide 'creature_list' array)")
	}

	cardIDs := make(map[string]struct{}, len(rc.CardList))
	for _, c := range rc.CardList {
		if err := validateCard(c); err != nil {
			return nil, err
		}
		if _, exists := cardIDs[c.ID]; exists {
			return nil, fmt.Errorf("duplicate card id '%s'", c.ID)
		}
		cardIDs[c.ID] = struct{}{}
	}

	creatures := make([]game.CreatureTemplate, 0, len(rc.CreatureList))
	ids := make(map[string]struct{}, len(rc.CreatureList))
	names := make(map[string]struct{}, len(rc.CreatureList))
	for _, e := range rc.CreatureList {
		if strings.TrimSpace(e.ID) == "" {
			return nil, fmt.Errorf("creature entry missing 'id'")
		}
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("creature '%s' missing 'name'", e.ID)
		}
		if _, exists := ids[e.ID]; exists {
			return nil, fmt.Errorf("duplicate creature id '%s'", e.ID)
		}
		ids[e.ID] = struct{}{}
		ln := strings.ToLower(strings.TrimSpace(e.Name))
		if _, exists := names[ln]; exists {
			return nil, fmt.Errorf("duplicate creature name '%s'", e.Name)
		}
		names[ln] = struct{}{}
		if e.HitPoints <= 0 || e.Energy < 0 || e.Attack < 0 || e.Defense < 0 || e.Speed < 0 {
			return nil, fmt.Errorf("creature '%s' has invalid stats", e.ID)
		}
		if len(e.Elements) == 0 || len(e.Elements) > maxElementsPerCreature {
			return nil, fmt.Errorf("creature '%s' must have one or two elements", e.ID)
		}
		for _, el := range e.Elements {
			if !el.Valid() {
				return nil, fmt.Errorf("creature '%s' has unknown element '%s'", e.ID, el)
			}
		}
		if len(e.Deck) == 0 {
			return nil, fmt.Errorf("creature '%s' has an empty deck", e.ID)
		}
		for _, cid := range e.Deck {
			if _, ok := cardIDs[cid]; !ok {
				return nil, fmt.Errorf("creature '%s' references unknown card '%s'", e.ID, cid)
			}
		}
		creatures = append(creatures, game.CreatureTemplate{
			TemplateID: e.ID,
			Name:       e.Name,
			Elements:   e.Elements,
			HitPoints:  e.HitPoints,
			Attack:     e.Attack,
			Defense:    e.Defense,
			Speed:      e.Speed,
			Energy:     e.Energy,
			Deck:       e.Deck,
		})
	}

	out := &LoadedConfig{
		Cards:                    rc.CardList,
		Creatures:                creatures,
		ServerAddress:            defaultAddress,
		RoundTimeout:             defaultRoundTimeout,
		IdleTimeout:              defaultIdleTimeout,
		FinishedGrace:            defaultFinishedGrace,
		ForfeitAfterMissedRounds: defaultMissedForfeit,
		TeamSize:                 maxTeamSize,
	}
	if rc.Server != nil && rc.Server.Address != "" {
		out.ServerAddress = rc.Server.Address
	}
	if bs := rc.Battle; bs != nil {
		var err error
		if out.RoundTimeout, err = parseDuration("round_timeout", bs.RoundTimeout, out.RoundTimeout); err != nil {
			return nil, err
		}
		if out.IdleTimeout, err = parseDuration("idle_timeout", bs.IdleTimeout, out.IdleTimeout); err != nil {
			return nil, err
		}
		if out.FinishedGrace, err = parseDuration("finished_grace", bs.FinishedGrace, out.FinishedGrace); err != nil {
			return nil, err
		}
		if bs.ForfeitAfterMissedRounds > 0 {
			out.ForfeitAfterMissedRounds = bs.ForfeitAfterMissedRounds
		}
		if bs.TeamSize > 0 {
			if bs.TeamSize > maxTeamSize {
				return nil, fmt.Errorf("team_size must be at most %d", maxTeamSize)
			}
			out.TeamSize = bs.TeamSize
		}
	}
	return out, nil
}

func parseDuration(key, v string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(v) == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s '%s'", key, v)
	}
	return d, nil
}

// validateCard checks a single card definition. A card may not mix
// single-enemy and single-ally selectors because one action carries only one
// target index.
func validateCard(c game.Card) error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("card entry missing 'id'")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("card '%s' missing 'name'", c.ID)
	}
	if !c.Element.Valid() {
		return fmt.Errorf("card '%s' has unknown element '%s'", c.ID, c.Element)
	}
	if c.EnergyCost < 0 {
		return fmt.Errorf("card '%s' has negative energy_cost", c.ID)
	}
	if len(c.Effects) == 0 {
		return fmt.Errorf("card '%s' has no effects", c.ID)
	}
	var single game.TargetType
	for i, e := range c.Effects {
		if !e.Kind.Valid() {
			return fmt.Errorf("card '%s' effect %d: unknown kind '%s'", c.ID, i, e.Kind)
		}
		if !e.Target.Valid() {
			return fmt.Errorf("card '%s' effect %d: unknown target '%s'", c.ID, i, e.Target)
		}
		if e.Magnitude < 0 || e.Duration < 0 {
			return fmt.Errorf("card '%s' effect %d: negative magnitude or duration", c.ID, i)
		}
		if e.Kind == game.EffectBuff || e.Kind == game.EffectDebuff {
			if _, ok := game.StatusKindForStat(e.Stat); !ok {
				return fmt.Errorf("card '%s' effect %d: unknown stat '%s'", c.ID, i, e.Stat)
			}
		}
		if e.Target.NeedsIndex() {
			if single != "" && single != e.Target {
				return fmt.Errorf("card '%s' mixes %s and %s targets", c.ID, single, e.Target)
			}
			single = e.Target
		}
	}
	return nil
}
