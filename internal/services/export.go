package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cardwatch/cardwatch/internal/models"
)

// ExportReport writes the watchlist and price history to an .xlsx workbook
// with one sheet per store.
func ExportReport(path string, wf models.WatchlistFile, ph models.PriceHistory) error {
	f := excelize.NewFile()
	defer f.Close()

	const watchlistSheet = "Watchlist"
	if err := f.SetSheetName("Sheet1", watchlistSheet); err != nil {
		return fmt.Errorf("failed to set up workbook: %w", err)
	}

	headers := []string{"Card", "Max Price"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(watchlistSheet, cell, h); err != nil {
			return err
		}
	}
	for row, item := range wf.Watchlist {
		cardCell, _ := excelize.CoordinatesToCellName(1, row+2)
		priceCell, _ := excelize.CoordinatesToCellName(2, row+2)
		if err := f.SetCellValue(watchlistSheet, cardCell, item.Card); err != nil {
			return err
		}
		if err := f.SetCellValue(watchlistSheet, priceCell, item.MaxPrice); err != nil {
			return err
		}
	}

	const historySheet = "Price History"
	if _, err := f.NewSheet(historySheet); err != nil {
		return fmt.Errorf("failed to add history sheet: %w", err)
	}

	historyHeaders := []string{"Card", "Date", "Price", "Listings"}
	for col, h := range historyHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(historySheet, cell, h); err != nil {
			return err
		}
	}
	row := 2
	for card, rec := range ph {
		for _, entry := range rec.History {
			values := []interface{}{card, entry.Date, entry.Price, entry.Listings}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row)
				if err := f.SetCellValue(historySheet, cell, v); err != nil {
					return err
				}
			}
			row++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}
