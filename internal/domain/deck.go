package domain

// The card screen cycles through a standard 52-card deck. Codes are value
// followed by suit letter, e.g. "AH" or "10S".

var (
	deckSuits  = []string{"H", "D", "C", "S"}
	deckValues = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

	suitNames = map[string]string{
		"H": "Hearts",
		"D": "Diamonds",
		"C": "Clubs",
		"S": "Spades",
	}
	valueNames = map[string]string{
		"A": "Ace",
		"J": "Jack",
		"Q": "Queen",
		"K": "King",
	}
)

// Deck returns the full deck in a fixed order.
func Deck() []string {
	cards := make([]string, 0, len(deckSuits)*len(deckValues))
	for _, suit := range deckSuits {
		for _, value := range deckValues {
			cards = append(cards, value+suit)
		}
	}
	return cards
}

// DescribeCard pretty-prints a card code ("QH" becomes "Queen of Hearts").
// Unknown codes come back verbatim: submitted card values are deliberately
// not validated against the deck.
func DescribeCard(code string) string {
	if len(code) < 2 {
		return code
	}
	suit, ok := suitNames[code[len(code)-1:]]
	if !ok {
		return code
	}
	value := code[:len(code)-1]
	if name, ok := valueNames[value]; ok {
		value = name
	} else if !isDeckValue(value) {
		return code
	}
	return value + " of " + suit
}

func isDeckValue(v string) bool {
	for _, dv := range deckValues {
		if dv == v {
			return true
		}
	}
	return false
}
