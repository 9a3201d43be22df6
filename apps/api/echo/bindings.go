package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/tathmini/core/assignment"
)

var orderingParam = "ordering"

// Ordering binds the "ordering" query param to an assignment.Sort.
// A "-" prefix flips the direction. Only the first field is honored,
// the list sorts on a single column at a time.
type Ordering struct {
	Sort assignment.Sort
}

func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	field := strings.TrimSpace(strings.SplitN(val[0], ",", 2)[0])
	descending := strings.HasPrefix(field, "-")
	if descending {
		field = field[1:] // drop "-"
	}
	ord.Sort = assignment.Sort{Key: assignment.SortKey(field), Descending: descending}
}
