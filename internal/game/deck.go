package game

// Deck is the shuffled pool of scene cards for one game. Cards are drawn
// from the top and never returned.
type Deck struct {
	cards []*Scene
}

func NewDeck(scenes []*Scene, dice Dice) *Deck {
	cards := make([]*Scene, 0, len(scenes))
	for _, s := range scenes {
		if s != nil {
			cards = append(cards, s)
		}
	}
	dice.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return &Deck{cards: cards}
}

func (d *Deck) Draw() (*Scene, bool) {
	if len(d.cards) == 0 {
		return nil, false
	}
	top := d.cards[0]
	d.cards[0] = nil
	d.cards = d.cards[1:]
	return top, true
}

func (d *Deck) Remaining() int {
	return len(d.cards)
}
