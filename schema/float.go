// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package schema

import (
	"errors"
	"math"
	"strconv"
)

const (
	floatNaN    = "nan"
	floatInf    = "inf"
	floatNegInf = "-inf"
)

// FormatFloat formats f so that ParseFloat returns it unchanged. Non-finite
// values are written as nan, inf and -inf; everything else is written in
// plain decimal notation with as few digits as possible.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return floatNaN
	case math.IsInf(f, 1):
		return floatInf
	case math.IsInf(f, -1):
		return floatNegInf
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}

// ParseFloat parses the output of FormatFloat, and any other decimal
// floating point text.
func ParseFloat(s string) (float64, error) {
	switch s {
	case "":
		return 0, errors.New("empty float literal")
	case floatNaN:
		return math.NaN(), nil
	case floatInf, "+" + floatInf:
		return math.Inf(1), nil
	case floatNegInf:
		return math.Inf(-1), nil
	}
	return strconv.ParseFloat(s, 64)
}
