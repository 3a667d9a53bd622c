package service

import "fmt"

// Seat layouts are derived, not stored: the catalog gives a total seat count
// and this service fits it into lettered rows of a fixed width (a 2x2 bus
// aisle gives 4 seats per row).  Row labels are single letters, which caps a
// layout at 26 rows, more than any coach in the catalog.

const maxRows = 26

// RowsFor computes how many rows a trip needs.  A zero or negative seat
// count falls back to defaultRows; otherwise the count is divided into full
// rows, rounding up so a partial last row still gets labels.
func RowsFor(totalSeatCount, seatsPerRow, defaultRows int) int {
	if seatsPerRow < 1 {
		seatsPerRow = 1
	}
	rows := defaultRows
	if totalSeatCount > 0 {
		rows = (totalSeatCount + seatsPerRow - 1) / seatsPerRow
	}
	if rows < 1 {
		rows = 1
	}
	if rows > maxRows {
		rows = maxRows
	}
	return rows
}

// RowLabel returns the letter for a zero-based row index: 0 -> "A".
func RowLabel(row int) string {
	return string(rune('A' + row))
}

// SeatLabels generates the full set of seat numbers for a layout in
// row-major order: "A1".."A4", "B1".. and so on.  The initializer inserts
// exactly this set, and the projector uses it to fill matrix positions that
// have no backing row.
func SeatLabels(totalRows, seatsPerRow int) []string {
	if totalRows > maxRows {
		totalRows = maxRows
	}
	labels := make([]string, 0, totalRows*seatsPerRow)
	for row := 0; row < totalRows; row++ {
		for col := 1; col <= seatsPerRow; col++ {
			labels = append(labels, fmt.Sprintf("%s%d", RowLabel(row), col))
		}
	}
	return labels
}
