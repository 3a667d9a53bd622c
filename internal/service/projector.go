package service

import (
	"fmt"
	"time"

	"github.com/iliyamo/bus-seat-inventory/internal/model"
)

// SeatCell is one position of the display matrix.
type SeatCell struct {
	SeatNumber string           `json:"seat_number"`
	Status     model.SeatStatus `json:"status"`
}

// BuildSeatMatrix assembles the row-major availability grid for a trip from
// its seat rows.  Status is derived per row at the given instant, so a lease
// that elapsed a second ago renders AVAILABLE even before the sweeper runs.
// Positions with no backing row are filled AVAILABLE: absence of a record
// means nobody has ever touched the seat.
//
// The matrix is display-only and may lag a concurrent lock by a moment; the
// lock manager's own transactional checks are the sole authority for
// granting a hold.
func BuildSeatMatrix(records []model.SeatRecord, totalRows, seatsPerRow int, now time.Time) [][]SeatCell {
	byNumber := make(map[string]*model.SeatRecord, len(records))
	for i := range records {
		byNumber[records[i].SeatNumber] = &records[i]
	}

	matrix := make([][]SeatCell, 0, totalRows)
	for row := 0; row < totalRows; row++ {
		cells := make([]SeatCell, 0, seatsPerRow)
		for col := 1; col <= seatsPerRow; col++ {
			cell := SeatCell{
				SeatNumber: fmt.Sprintf("%s%d", RowLabel(row), col),
				Status:     model.SeatAvailable,
			}
			if rec, ok := byNumber[cell.SeatNumber]; ok {
				cell.Status = rec.StatusAt(now)
			}
			cells = append(cells, cell)
		}
		matrix = append(matrix, cells)
	}
	return matrix
}
