package game

import (
	"sort"
	"time"

	"gorm.io/gorm"
)

// CardRecord persists a card definition. Effects are stored as a JSON
// column; the in-memory Card is rebuilt from it on load.
type CardRecord struct {
	gorm.Model
	CardID          string  `gorm:"uniqueIndex;size:64"`
	Name            string  `gorm:"size:64"`
	Description     string  `gorm:"size:256"`
	Element         Element `gorm:"size:16"`
	EnergyCost      int
	AttackModifier  float64
	DefenseModifier float64
	Effects         []CardEffect `gorm:"serializer:json"`
}

// TableName keeps card definitions in `card_catalog`.
func (CardRecord) TableName() string { return "card_catalog" }

func (r CardRecord) ToCard() Card {
	return Card{
		ID:              r.CardID,
		Name:            r.Name,
		Description:     r.Description,
		Element:         r.Element,
		EnergyCost:      r.EnergyCost,
		AttackModifier:  r.AttackModifier,
		DefenseModifier: r.DefenseModifier,
		Effects:         append([]CardEffect(nil), r.Effects...),
	}
}

func CardRecordFrom(c Card) CardRecord {
	return CardRecord{
		CardID:          c.ID,
		Name:            c.Name,
		Description:     c.Description,
		Element:         c.Element,
		EnergyCost:      c.EnergyCost,
		AttackModifier:  c.AttackModifier,
		DefenseModifier: c.DefenseModifier,
		Effects:         append([]CardEffect(nil), c.Effects...),
	}
}

// CreatureTemplate is the static definition combatants are built from.
type CreatureTemplate struct {
	gorm.Model
	TemplateID string    `json:"id" gorm:"uniqueIndex;size:64"`
	Name       string    `json:"name" gorm:"size:64"`
	Elements   []Element `json:"elements" gorm:"serializer:json"`
	HitPoints  int       `json:"hit_points"`
	Attack     int       `json:"attack"`
	Defense    int       `json:"defense"`
	Speed      int       `json:"speed"`
	Energy     int       `json:"energy"`
	Deck       []string  `json:"deck" gorm:"serializer:json"`
}

func (CreatureTemplate) TableName() string { return "creature_templates" }

// NewCombatant builds a fresh combatant from the template.
func (t CreatureTemplate) NewCombatant(id string) Combatant {
	return Combatant{
		ID:          id,
		TemplateID:  t.TemplateID,
		Name:        t.Name,
		Elements:    append([]Element(nil), t.Elements...),
		HP:          t.HitPoints,
		MaxHP:       t.HitPoints,
		Speed:       t.Speed,
		BaseAttack:  t.Attack,
		BaseDefense: t.Defense,
		Energy:      t.Energy,
		MaxEnergy:   t.Energy,
		Deck:        append([]string(nil), t.Deck...),
	}
}

// BattleRecord is the persisted history entry of a finished battle.
type BattleRecord struct {
	gorm.Model
	BattleID   string `gorm:"uniqueIndex;size:64"`
	Side1      string `gorm:"index;size:128"`
	Side2      string `gorm:"index;size:128"`
	MatchupKey string `gorm:"index;size:260"`
	Mode       Mode   `gorm:"size:8"`
	StakeTier  string `gorm:"size:32"`
	Winner     string `gorm:"size:128"`
	Draw       bool
	EndReason  EndReason `gorm:"size:16"`
	Rounds     int
	StartedAt  time.Time
	FinishedAt time.Time
	FinalRound *RoundResult `gorm:"serializer:json"`
}

func (BattleRecord) TableName() string { return "battle_history" }

// Participants returns both addresses sorted, the order used for
// matchup keys.
func (r *BattleRecord) Participants() []string {
	p := []string{r.Side1, r.Side2}
	sort.Strings(p)
	return p
}

// PlayerStats stores aggregate results per wallet address.
type PlayerStats struct {
	gorm.Model
	Address       string `gorm:"uniqueIndex;size:128"`
	BattlesPlayed int
	Wins          int
	Losses        int
	Draws         int
	Forfeits      int
}

func (PlayerStats) TableName() string { return "player_profiles" }
