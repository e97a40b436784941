package gallery

// Columns is the fixed number of cells per row.
const Columns = 3

// Size is the dimension of a cell. Cells are square.
type Size struct {
	Width  int
	Height int
}

// Layout computes the cell size for a container of the given width,
// with gap units between two columns.
func Layout(containerWidth, gap int) Size {
	if gap < 0 {
		gap = 0
	}

	width := (containerWidth - gap*(Columns-1)) / Columns
	if width < 0 {
		width = 0
	}

	return Size{Width: width, Height: width}
}

// Position returns the row and column of the cell at index.
func Position(index int) (row, col int) {
	return index / Columns, index % Columns
}

// Rows returns how many rows are needed for n cells.
func Rows(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + Columns - 1) / Columns
}
