package models

// Card is a card record from the YGOPRODeck card database API.
type Card struct {
	ID         int          `json:"id"`
	Name       string       `json:"name"`
	Type       string       `json:"type"`
	Desc       string       `json:"desc"`
	Atk        *int         `json:"atk,omitempty"`
	Def        *int         `json:"def,omitempty"`
	Level      *int         `json:"level,omitempty"`
	Race       string       `json:"race"`
	Attribute  string       `json:"attribute,omitempty"`
	CardSets   []CardSet    `json:"card_sets,omitempty"`
	CardPrices []CardPrices `json:"card_prices,omitempty"`
	CardImages []CardImage  `json:"card_images,omitempty"`
}

// CardSet is one printing of a card within a set.
type CardSet struct {
	SetName   string `json:"set_name"`
	SetCode   string `json:"set_code"`
	SetRarity string `json:"set_rarity"`
	SetPrice  string `json:"set_price"`
}

// CardPrices carries price fields across marketplaces. The API returns these
// as strings; consumers parse and discard zero values.
type CardPrices struct {
	CardmarketPrice   string `json:"cardmarket_price"`
	TcgplayerPrice    string `json:"tcgplayer_price"`
	EbayPrice         string `json:"ebay_price"`
	AmazonPrice       string `json:"amazon_price"`
	CoolstuffincPrice string `json:"coolstuffinc_price"`
}

type CardImage struct {
	ID            int    `json:"id"`
	ImageURL      string `json:"image_url"`
	ImageURLSmall string `json:"image_url_small"`
}

// CardSetInfo is a set membership with the release year derived from the
// set code.
type CardSetInfo struct {
	Name   string `json:"name"`
	Rarity string `json:"rarity"`
	Year   string `json:"year"`
}

// CardSearchResult is a card database hit enriched with the lowest
// marketplace price, distinct rarities, and set memberships with years.
type CardSearchResult struct {
	Card        Card          `json:"card"`
	LowestPrice float64       `json:"lowest_price"`
	Rarities    []string      `json:"rarities"`
	Sets        []CardSetInfo `json:"sets"`
}
