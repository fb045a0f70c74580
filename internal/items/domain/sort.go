package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseOrder accepts "", "asc" and "desc" in any case; "" means ascending.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// SortByNumber orders items by the numeric value of field, the way the admin
// table orders rows by idNum. Items whose field is missing or not a number go
// last in either direction; ties keep their input order.
func SortByNumber(items []Item, field string, order Order) {
	sort.SliceStable(items, func(i, j int) bool {
		a, aok := number(items[i].Fields[field])
		b, bok := number(items[j].Fields[field])
		switch {
		case !aok:
			return false
		case !bok:
			return true
		case order == Desc:
			return a > b
		default:
			return a < b
		}
	})
}

func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case int64:
		f = float64(n)
	case int:
		f = float64(n)
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
