package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/cardwatch/cardwatch/internal/metrics"
	"github.com/cardwatch/cardwatch/internal/models"
)

const (
	ygoProDeckBaseURL    = "https://db.ygoprodeck.com/api/v7/cardinfo.php"
	cardLookupTimeout    = 10 * time.Second
	cardLookupCacheSize  = 100
	defaultSearchResults = 10
)

// spellingCorrections maps common misspellings to the names the card
// database knows.
var spellingCorrections = map[string]string{
	"harpy":              "harpie",
	"harpy lady":         "harpie lady",
	"harpy lady sisters": "harpie lady sisters",
	"blue eyes":          "blue-eyes",
	"blue eye":           "blue-eyes",
	"red eyes":           "red-eyes",
	"red eye":            "red-eyes",
}

// setYears maps set code prefixes to release years for display.
var setYears = map[string]string{
	"LOB": "2002", "MRD": "2002",
	"SDK": "2003", "SKE": "2003", "YSD": "2003", "SDD": "2003",
	"PGD": "2004", "DLN": "2004", "DDC": "2004", "TKN": "2004",
	"TLG": "2005", "DR1": "2005", "DR2": "2005", "DR3": "2005", "DR4": "2005",
	"CT2": "2005", "MFC": "2005", "STAX": "2005",
	"DRS": "2006", "FET": "2006", "RDS": "2006", "STON": "2006", "FOTB": "2006",
	"GLD": "2007", "CRV": "2007", "TSHD": "2007",
	"SOC": "2008", "SOI": "2008", "SOD": "2008", "DT": "2008",
	"LOD": "2009", "LCJW": "2009",
	"YS11": "2011",
	"PGLD": "2014", "YSYR": "2014", "SDMY": "2014",
	"SS01": "2016", "MVP1": "2016",
	"SS02": "2017",
	"SS03": "2018", "LEDD": "2018",
	"SS04": "2019", "SS05": "2019", "LDS1": "2019",
	"SS06": "2020", "LART": "2020", "LDS2": "2020",
	"SS07": "2021", "LDS3": "2021",
	"SS08": "2022", "MP22": "2022", "RA01": "2022", "GFP1": "2022",
	"MAMA": "2022", "LED6": "2022", "LDS4": "2022",
	"SS09": "2023", "MP23": "2023", "RA02": "2023", "GFP2": "2023", "YGLD": "2023",
	"SS10": "2024", "MP24": "2024", "RA03": "2024", "RA04": "2024",
}

// CardDatabaseService queries the YGOPRODeck card database. Responses are
// cached in an LRU and requests pass through a client-side rate limiter
// (YGOPRODeck asks for at most 20 req/s).
type CardDatabaseService struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
	cache   *lru.Cache[string, []models.Card]
}

func NewCardDatabaseService() *CardDatabaseService {
	cache, _ := lru.New[string, []models.Card](cardLookupCacheSize)
	return &CardDatabaseService{
		client: &http.Client{
			Timeout: cardLookupTimeout,
		},
		baseURL: ygoProDeckBaseURL,
		limiter: rate.NewLimiter(15, 1),
		cache:   cache,
	}
}

type cardInfoResponse struct {
	Data []models.Card `json:"data"`
}

// SearchCards looks up cards by name, trying a fuzzy match first and falling
// back to an exact-name query when the fuzzy one fails. A name the database
// does not know yields an empty slice, not an error.
func (s *CardDatabaseService) SearchCards(ctx context.Context, query string, num int) ([]models.Card, error) {
	if num <= 0 {
		num = defaultSearchResults
	}
	corrected := correctSpelling(query)

	cacheKey := fmt.Sprintf("%s|%d", corrected, num)
	if cards, ok := s.cache.Get(cacheKey); ok {
		metrics.CardLookupCacheHits.Inc()
		return cards, nil
	}

	cards, err := s.fetchCards(ctx, "fname", corrected, num)
	if err != nil {
		// The fuzzy endpoint rejects some inputs the exact one accepts.
		cards, err = s.fetchCards(ctx, "name", corrected, num)
		if err != nil {
			metrics.UpstreamErrorsTotal.WithLabelValues("ygoprodeck").Inc()
			return nil, err
		}
	}

	s.cache.Add(cacheKey, cards)
	return cards, nil
}

func (s *CardDatabaseService) fetchCards(ctx context.Context, nameParam, query string, num int) ([]models.Card, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set(nameParam, query)
	params.Set("num", strconv.Itoa(num))
	params.Set("offset", "0")
	reqURL := fmt.Sprintf("%s?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	metrics.UpstreamLatency.WithLabelValues("ygoprodeck").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to query card database: %w", err)
	}
	defer resp.Body.Close()

	// The API answers 400 with an error envelope when nothing matches.
	if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound {
		return []models.Card{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("card database returned status %d", resp.StatusCode)
	}

	var envelope cardInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode card database response: %w", err)
	}
	return envelope.Data, nil
}

// SearchWithPrices looks up cards and derives the lowest marketplace price,
// distinct rarities, and set memberships with release years for each hit.
func (s *CardDatabaseService) SearchWithPrices(ctx context.Context, query string) ([]models.CardSearchResult, error) {
	cards, err := s.SearchCards(ctx, query, defaultSearchResults)
	if err != nil {
		return nil, err
	}

	results := make([]models.CardSearchResult, len(cards))
	for i, card := range cards {
		results[i] = models.CardSearchResult{
			Card:        card,
			LowestPrice: lowestMarketplacePrice(card),
			Rarities:    distinctRarities(card),
			Sets:        setsWithYears(card),
		}
	}
	return results, nil
}

func correctSpelling(query string) string {
	lower := strings.ToLower(strings.TrimSpace(query))
	if corrected, ok := spellingCorrections[lower]; ok {
		return corrected
	}
	for wrong, right := range spellingCorrections {
		if strings.Contains(lower, wrong) {
			return strings.Replace(lower, wrong, right, 1)
		}
	}
	return query
}

// lowestMarketplacePrice returns the smallest positive price across the
// marketplaces in the card's first price record, or 0 when none parse.
func lowestMarketplacePrice(card models.Card) float64 {
	if len(card.CardPrices) == 0 {
		return 0
	}
	p := card.CardPrices[0]
	candidates := []string{
		p.CardmarketPrice,
		p.TcgplayerPrice,
		p.EbayPrice,
		p.AmazonPrice,
		p.CoolstuffincPrice,
	}

	lowest := 0.0
	for _, c := range candidates {
		v, err := strconv.ParseFloat(c, 64)
		if err != nil || v <= 0 {
			continue
		}
		if lowest == 0 || v < lowest {
			lowest = v
		}
	}
	return lowest
}

func distinctRarities(card models.Card) []string {
	seen := make(map[string]bool)
	var rarities []string
	for _, set := range card.CardSets {
		if set.SetRarity == "" || seen[set.SetRarity] {
			continue
		}
		seen[set.SetRarity] = true
		rarities = append(rarities, set.SetRarity)
	}
	return rarities
}

func setsWithYears(card models.Card) []models.CardSetInfo {
	sets := make([]models.CardSetInfo, 0, len(card.CardSets))
	for _, set := range card.CardSets {
		sets = append(sets, models.CardSetInfo{
			Name:   set.SetName,
			Rarity: set.SetRarity,
			Year:   yearFromSetCode(set.SetCode),
		})
	}
	return sets
}

// yearFromSetCode derives a release year from a set code like "MRD-EN008".
func yearFromSetCode(setCode string) string {
	for code, year := range setYears {
		if strings.HasPrefix(setCode, code) {
			return year
		}
	}

	// Codes like "MP22-EN268" carry a two-digit year in the prefix.
	if idx := strings.Index(setCode, "-"); idx > 0 {
		prefix := setCode[:idx]
		for i := 0; i+1 < len(prefix); i++ {
			if prefix[i] >= '0' && prefix[i] <= '9' && prefix[i+1] >= '0' && prefix[i+1] <= '9' {
				if yr, err := strconv.Atoi(prefix[i : i+2]); err == nil && yr >= 22 && yr <= 30 {
					return "20" + prefix[i:i+2]
				}
				break
			}
		}
	}
	return "Unknown"
}

// FormatCardSummary renders a one-entry search result line for the shell.
func FormatCardSummary(result models.CardSearchResult, index int) string {
	price := "N/A"
	if result.LowestPrice > 0 {
		price = fmt.Sprintf("$%.2f", result.LowestPrice)
	}

	rarities := "Unknown"
	if len(result.Rarities) > 0 {
		shown := result.Rarities
		if len(shown) > 3 {
			shown = shown[:3]
		}
		rarities = strings.Join(shown, ", ")
	}

	yearSet := make(map[string]bool)
	var years []string
	for _, set := range result.Sets {
		if set.Year == "Unknown" || yearSet[set.Year] {
			continue
		}
		yearSet[set.Year] = true
		years = append(years, set.Year)
	}
	sort.Strings(years)
	yearStr := ""
	if len(years) > 0 {
		yearStr = fmt.Sprintf(" [%s]", strings.Join(years, ", "))
	}

	return fmt.Sprintf("%d. %s%s\n   Type: %s | Est. Price: %s | Rarities: %s",
		index+1, result.Card.Name, yearStr, result.Card.Type, price, rarities)
}

// FormatCardDetail renders a full card view for the shell.
func FormatCardDetail(result models.CardSearchResult) string {
	var b strings.Builder
	card := result.Card

	fmt.Fprintf(&b, "%s\n", card.Name)
	b.WriteString("----------------------------\n")
	fmt.Fprintf(&b, "Type: %s\n", card.Type)
	fmt.Fprintf(&b, "ATK: %s | DEF: %s\n", intOrNA(card.Atk), intOrNA(card.Def))
	fmt.Fprintf(&b, "Level: %s | Race: %s\n", intOrNA(card.Level), card.Race)
	attr := card.Attribute
	if attr == "" {
		attr = "N/A"
	}
	fmt.Fprintf(&b, "Attribute: %s\n", attr)
	fmt.Fprintf(&b, "\nCurrent Lowest Price: $%.2f\n", result.LowestPrice)

	b.WriteString("\nRarities:\n")
	for _, r := range result.Rarities {
		fmt.Fprintf(&b, "  - %s\n", r)
	}

	// Group sets by year, oldest first.
	byYear := make(map[string][]models.CardSetInfo)
	for _, set := range result.Sets {
		byYear[set.Year] = append(byYear[set.Year], set)
	}
	years := make([]string, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Strings(years)

	b.WriteString("\nAvailable Sets by Year:\n")
	if len(years) == 0 {
		b.WriteString("  No set info available\n")
	}
	for _, year := range years {
		fmt.Fprintf(&b, "\n  %s:\n", year)
		sets := byYear[year]
		shown := sets
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, set := range shown {
			fmt.Fprintf(&b, "    - %s (%s)\n", set.Name, set.Rarity)
		}
		if len(sets) > 5 {
			fmt.Fprintf(&b, "    ... and %d more\n", len(sets)-5)
		}
	}

	return b.String()
}

func intOrNA(v *int) string {
	if v == nil {
		return "N/A"
	}
	return strconv.Itoa(*v)
}
