package forms

import (
	"regexp"
	"strconv"
)

var itemKeyRe = regexp.MustCompile(`^products\[(\d+)\]\[(name|quantity|note)\]$`)

// ItemsFromForm collects "products[i][field]" entries of a urlencoded form
// into ordered item values. Gaps become empty items so their index still
// shows up in errors. Indexes past MaxBatchItems are folded into a single
// extra item, which is enough to fail the batch size rule.
func ItemsFromForm(form map[string][]string) []Values {
	byIndex := map[int]Values{}
	maxIdx := -1
	for key, vals := range form {
		m := itemKeyRe.FindStringSubmatch(key)
		if m == nil || len(vals) == 0 {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if idx > MaxBatchItems {
			idx = MaxBatchItems
		}
		if byIndex[idx] == nil {
			byIndex[idx] = Values{}
		}
		byIndex[idx][m[2]] = vals[0]
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	items := make([]Values, 0, maxIdx+1)
	for i := 0; i <= maxIdx; i++ {
		if byIndex[i] == nil {
			items = append(items, Values{})
			continue
		}
		items = append(items, byIndex[i])
	}
	return items
}
