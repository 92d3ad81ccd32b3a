package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cardwatch/cardwatch/internal/services"
	"github.com/cardwatch/cardwatch/internal/store"
)

// runShell is the menu-driven front end. Thin glue over the same components
// the subcommands use.
func (a *app) runShell(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Println(`
cardwatch
  1) Search cards
  2) View watchlist
  3) Add card to watchlist
  4) Remove card from watchlist
  5) Check prices now
  6) View price history
  7) View all prices
  8) Exit`)
		fmt.Print("> ")

		if !scanner.Scan() {
			return
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			a.shellSearch(ctx, scanner)
		case "2":
			a.runList()
		case "3":
			a.shellAdd(scanner)
		case "4":
			a.shellRemove(scanner)
		case "5":
			a.runCheck(ctx)
		case "6":
			a.shellHistory(scanner)
		case "7":
			a.runPrices()
		case "8":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown option")
		}
	}
}

func (a *app) shellSearch(ctx context.Context, scanner *bufio.Scanner) {
	query := prompt(scanner, "Card name: ")
	if query == "" {
		return
	}

	fmt.Println("Searching...")
	results, err := a.cardDB.SearchWithPrices(ctx, query)
	if err != nil {
		fmt.Printf("Search failed: %v\n", err)
		return
	}
	if len(results) == 0 {
		fmt.Println("No cards found.")
		return
	}

	for i, result := range results {
		fmt.Println(services.FormatCardSummary(result, i))
	}

	choice := prompt(scanner, "Select a card (number, empty to go back): ")
	if choice == "" {
		return
	}
	index, err := strconv.Atoi(choice)
	if err != nil || index < 1 || index > len(results) {
		fmt.Println("Invalid selection")
		return
	}
	selected := results[index-1]

	fmt.Println()
	fmt.Println(services.FormatCardDetail(selected))

	if answer := prompt(scanner, "Add to watchlist? [Y/n]: "); strings.EqualFold(answer, "n") {
		return
	}
	maxPrice := 100.0
	if priceStr := prompt(scanner, "Max price to pay ($) [100]: "); priceStr != "" {
		if v, err := strconv.ParseFloat(priceStr, 64); err == nil && v > 0 {
			maxPrice = v
		}
	}

	if err := store.AddToWatchlist(a.watchlist, selected.Card.Name, maxPrice); err != nil {
		fmt.Printf("Failed to add to watchlist: %v\n", err)
		return
	}
	fmt.Printf("Added %q with max price $%.2f\n", selected.Card.Name, maxPrice)
}

func (a *app) shellAdd(scanner *bufio.Scanner) {
	card := prompt(scanner, "Card name: ")
	if card == "" {
		return
	}
	maxPrice := 100.0
	if priceStr := prompt(scanner, "Max price to pay ($) [100]: "); priceStr != "" {
		if v, err := strconv.ParseFloat(priceStr, 64); err == nil && v > 0 {
			maxPrice = v
		}
	}

	if err := store.AddToWatchlist(a.watchlist, card, maxPrice); err != nil {
		fmt.Printf("Failed to add to watchlist: %v\n", err)
		return
	}
	fmt.Printf("Added %q with max price $%.2f\n", card, maxPrice)
}

func (a *app) shellRemove(scanner *bufio.Scanner) {
	card := prompt(scanner, "Card name: ")
	if card == "" {
		return
	}

	removed, err := store.RemoveFromWatchlist(a.watchlist, card)
	if err != nil {
		fmt.Printf("Failed to remove from watchlist: %v\n", err)
		return
	}
	if removed == nil {
		fmt.Printf("%q not found in watchlist\n", card)
		return
	}
	fmt.Printf("Removed %q from watchlist\n", removed.Card)
}

func (a *app) shellHistory(scanner *bufio.Scanner) {
	card := prompt(scanner, "Card name: ")
	if card == "" {
		return
	}
	a.runHistory([]string{card})
}

func prompt(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}
