package listview

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	name  string
	phone string
}

var rowFields = []FieldFunc[row]{
	func(r row) string { return r.name },
	func(r row) string { return r.phone },
}

func makeRows(n int) []row {
	rows := make([]row, n)
	for i := range rows {
		rows[i] = row{name: fmt.Sprintf("user-%02d", i), phone: fmt.Sprintf("555%04d", i)}
	}
	return rows
}

func TestDeriveFilteredPage_TwentyFiveUsers(t *testing.T) {
	rows := makeRows(25)

	page := DeriveFilteredPage(rows, "", 1, rowFields)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, rows[:10], page.Rows)

	last := DeriveFilteredPage(rows, "", 3, rowFields)
	assert.Equal(t, rows[20:], last.Rows)
}

func TestPaginator_SearchResetsPage(t *testing.T) {
	rows := makeRows(25)
	// 12 rows carry the marker "vip".
	for i := 0; i < 12; i++ {
		rows[i*2].name += "-VIP"
	}

	p := NewPaginator(rowFields...)
	p.SetSource(rows)
	require.True(t, p.Next())
	require.True(t, p.Next())
	assert.Equal(t, 3, p.Page().CurrentPage)

	p.SetSearchTerm("  vip ")
	assert.Equal(t, 1, p.Page().CurrentPage)
	assert.Equal(t, 2, p.Page().TotalPages)
	assert.Len(t, p.Page().Filtered, 12)
}

func TestPaginator_SourceChangeResetsPage(t *testing.T) {
	p := NewPaginator(rowFields...)
	p.SetSource(makeRows(30))
	p.Next()
	require.Equal(t, 2, p.Page().CurrentPage)

	p.SetSource(makeRows(30))
	assert.Equal(t, 1, p.Page().CurrentPage)
}

func TestPaginator_NavigationBounds(t *testing.T) {
	p := NewPaginator(rowFields...)
	p.SetSource(makeRows(15))

	assert.False(t, p.Previous())
	assert.Equal(t, 1, p.Page().CurrentPage)
	assert.True(t, p.Next())
	assert.False(t, p.Next())
	assert.Equal(t, 2, p.Page().CurrentPage)
	assert.Len(t, p.Page().Rows, 5)
}

func TestPaginator_EmptyResult(t *testing.T) {
	p := NewPaginator(rowFields...)
	p.SetSource(makeRows(5))
	p.SetSearchTerm("nobody")

	page := p.Page()
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Empty(t, page.Rows)
	assert.False(t, p.Next())
	assert.False(t, p.Previous())
}

func TestFilter_SubsetInOrder(t *testing.T) {
	rows := makeRows(40)
	for _, term := range []string{"", "1", "user-3", "5550", "zzz", "USER"} {
		filtered := Filter(rows, term, rowFields)
		j := 0
		for _, r := range filtered {
			for j < len(rows) && rows[j] != r {
				j++
			}
			require.Less(t, j, len(rows), "term %q produced a row out of order", term)
			j++
		}
	}
}

func TestMatches_CaseInsensitiveAnyField(t *testing.T) {
	r := row{name: "Asha Rao", phone: "98765"}
	assert.True(t, Matches(r, "ASHA", rowFields))
	assert.True(t, Matches(r, "876", rowFields))
	assert.True(t, Matches(r, "   ", rowFields))
	assert.False(t, Matches(r, "bob", rowFields))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0))
	assert.Equal(t, 1, TotalPages(1))
	assert.Equal(t, 1, TotalPages(10))
	assert.Equal(t, 2, TotalPages(11))
}

func TestDeriveFilteredPage_ClampsOutOfRangePage(t *testing.T) {
	page := DeriveFilteredPage(makeRows(12), "", 9, rowFields)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Len(t, page.Rows, 2)

	page = DeriveFilteredPage(makeRows(12), "", -3, rowFields)
	assert.Equal(t, 1, page.CurrentPage)
}
