// Package content loads lot layouts and scene cards from JSON. The default
// Deadwood lot and deck are embedded.
package content

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/text/cases"

	"github.com/appengine-ltd/deadwood/internal/game"
)

const (
	BoardFile = "board.json"
	CardsFile = "cards.json"

	formatVersion = 1
)

//go:embed data/*.json
var embedded embed.FS

var (
	ErrFormatVersion = errors.New("unsupported content format version")
	ErrDuplicateRole = errors.New("duplicate role name")
	ErrBadBudget     = errors.New("budget out of range")
	ErrBadShots      = errors.New("scene needs at least one shot")
	ErrBadRoleRank   = errors.New("role rank out of range")
	ErrNoCards       = errors.New("deck has no cards")
	ErrBlankName     = errors.New("name is required")
)

type roomRecord struct {
	Name     string   `json:"name"`
	Scene    bool     `json:"scene,omitempty"`
	Adjacent []string `json:"adjacent"`
}

type boardRecord struct {
	FormatVersion int          `json:"format_version"`
	Start         string       `json:"start"`
	Office        string       `json:"office,omitempty"`
	Rooms         []roomRecord `json:"rooms"`
}

type roleRecord struct {
	Name string `json:"name"`
	Line string `json:"line,omitempty"`
	Rank int    `json:"rank"`
}

type amountRecord struct {
	Dollars int `json:"dollars,omitempty"`
	Credits int `json:"credits,omitempty"`
}

type payoutRecord struct {
	OnCardSuccess *amountRecord `json:"on_card_success,omitempty"`
	OnCardFailure *amountRecord `json:"on_card_failure,omitempty"`
	ExtraSuccess  *amountRecord `json:"extra_success,omitempty"`
	ExtraFailure  *amountRecord `json:"extra_failure,omitempty"`
}

type cardRecord struct {
	Name        string        `json:"name"`
	Number      int           `json:"number"`
	Description string        `json:"description,omitempty"`
	Budget      int           `json:"budget"`
	Shots       int           `json:"shots"`
	Roles       []roleRecord  `json:"roles"`
	Payouts     *payoutRecord `json:"payouts,omitempty"`
}

type cardsRecord struct {
	FormatVersion int          `json:"format_version"`
	Cards         []cardRecord `json:"cards"`
	Extras        []roleRecord `json:"extras"`
}

// Set is everything a board needs from content: the lot layout, the scene
// deck and the extras available on every active set.
type Set struct {
	Lot    game.LotDef
	Scenes []*game.Scene
	Extras []*game.Role
}

// Default returns the embedded Deadwood lot and deck.
func Default() (Set, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return Set{}, err
	}
	return Load(sub)
}

// LoadDir reads board.json and cards.json from a directory on disk.
func LoadDir(dir string) (Set, error) {
	return Load(os.DirFS(dir))
}

func Load(fsys fs.FS) (Set, error) {
	var board boardRecord
	if err := readJSON(fsys, BoardFile, &board); err != nil {
		return Set{}, err
	}
	var cards cardsRecord
	if err := readJSON(fsys, CardsFile, &cards); err != nil {
		return Set{}, err
	}
	return build(board, cards)
}

// LoadLot builds the lot described by the set and validates its topology.
func (s Set) LoadLot() (*game.Lot, error) {
	lot, err := game.NewLot(s.Lot)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", BoardFile, err)
	}
	return lot, nil
}

func readJSON(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func build(board boardRecord, cards cardsRecord) (Set, error) {
	if board.FormatVersion != formatVersion {
		return Set{}, fmt.Errorf("%s: %w: %d", BoardFile, ErrFormatVersion, board.FormatVersion)
	}
	if cards.FormatVersion != formatVersion {
		return Set{}, fmt.Errorf("%s: %w: %d", CardsFile, ErrFormatVersion, cards.FormatVersion)
	}

	var set Set
	set.Lot = game.LotDef{Start: board.Start, Office: board.Office}
	for _, r := range board.Rooms {
		set.Lot.Rooms = append(set.Lot.Rooms, game.RoomDef{
			Name:     r.Name,
			Scene:    r.Scene,
			Adjacent: append([]string(nil), r.Adjacent...),
		})
	}

	if len(cards.Cards) == 0 {
		return Set{}, fmt.Errorf("%s: %w", CardsFile, ErrNoCards)
	}
	seen := map[string]string{}
	fold := cases.Fold()
	claim := func(owner string, r roleRecord) error {
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("%s: role in %s: %w", CardsFile, owner, ErrBlankName)
		}
		if r.Rank < 1 || r.Rank > game.MaxRank {
			return fmt.Errorf("%s: %s in %s: %w: %d", CardsFile, r.Name, owner, ErrBadRoleRank, r.Rank)
		}
		key := strings.Join(strings.Fields(fold.String(r.Name)), " ")
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%s: %w: %s in %s and %s", CardsFile, ErrDuplicateRole, r.Name, prev, owner)
		}
		seen[key] = owner
		return nil
	}

	for _, c := range cards.Cards {
		if strings.TrimSpace(c.Name) == "" {
			return Set{}, fmt.Errorf("%s: card %d: %w", CardsFile, c.Number, ErrBlankName)
		}
		if c.Budget < 1 || c.Budget > 6 {
			return Set{}, fmt.Errorf("%s: %s: %w: %d", CardsFile, c.Name, ErrBadBudget, c.Budget)
		}
		if c.Shots < 1 {
			return Set{}, fmt.Errorf("%s: %s: %w", CardsFile, c.Name, ErrBadShots)
		}
		roles := make([]*game.Role, 0, len(c.Roles))
		for _, r := range c.Roles {
			if err := claim(c.Name, r); err != nil {
				return Set{}, err
			}
			roles = append(roles, &game.Role{Name: r.Name, Line: r.Line, Rank: r.Rank})
		}
		scene := game.NewScene(c.Name, c.Budget, c.Shots, roles)
		scene.Number = c.Number
		scene.Description = c.Description
		if c.Payouts != nil {
			scene.Payouts = c.Payouts.apply(scene.Payouts)
		}
		set.Scenes = append(set.Scenes, scene)
	}

	for _, r := range cards.Extras {
		if err := claim("extras", r); err != nil {
			return Set{}, err
		}
		set.Extras = append(set.Extras, game.NewExtra(r.Name, r.Line, r.Rank))
	}
	return set, nil
}

func (p payoutRecord) apply(base game.PayoutSchedule) game.PayoutSchedule {
	set := func(dst *game.Amount, src *amountRecord) {
		if src != nil {
			*dst = game.Amount{Dollars: src.Dollars, Credits: src.Credits}
		}
	}
	set(&base.OnCardSuccess, p.OnCardSuccess)
	set(&base.OnCardFailure, p.OnCardFailure)
	set(&base.ExtraSuccess, p.ExtraSuccess)
	set(&base.ExtraFailure, p.ExtraFailure)
	return base
}
