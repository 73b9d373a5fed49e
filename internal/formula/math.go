package formula

import (
	"math"
	"strconv"
)

func mathPow(base, exp float64) float64 { return math.Pow(base, exp) }

func parseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }
