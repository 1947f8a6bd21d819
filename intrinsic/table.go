// Package intrinsic holds the Fortran intrinsic procedure table used to
// recognise intrinsic function references and check their argument counts.
package intrinsic

import (
	"sort"
	"strconv"
	"strings"
)

// Unbounded is the maximum argument count of intrinsics such as MAX and MIN
// which accept any number of arguments above their minimum.
const Unbounded = -1

// Entry describes the admissible argument counts of an intrinsic.
type Entry struct {
	// Name is the upper-cased name that was looked up.
	Name string
	// Generic is the generic intrinsic Name resolves to. Equal to Name for generics.
	Generic string
	Min     int
	Max     int // Unbounded for no upper limit.
	// Specific is set when Name is a specific variant (DSIN, CCOS, ...) of Generic.
	Specific bool
}

type arity struct{ min, max int }

// generics maps every generic intrinsic to its argument count range.
var generics = map[string]arity{
	"ABS": {1, 1}, "ACHAR": {1, 2}, "ACOS": {1, 1}, "ACOSH": {1, 1},
	"ADJUSTL": {1, 1}, "ADJUSTR": {1, 1}, "AIMAG": {1, 1}, "AINT": {1, 2},
	"ALL": {1, 2}, "ALLOCATED": {1, 1}, "ANINT": {1, 2}, "ANY": {1, 2},
	"ASIN": {1, 1}, "ASINH": {1, 1}, "ASSOCIATED": {1, 2}, "ATAN": {1, 2},
	"ATAN2": {2, 2}, "ATANH": {1, 1},
	"BESSEL_J0": {1, 1}, "BESSEL_J1": {1, 1}, "BESSEL_JN": {2, 3},
	"BESSEL_Y0": {1, 1}, "BESSEL_Y1": {1, 1}, "BESSEL_YN": {2, 3},
	"BGE": {2, 2}, "BGT": {2, 2}, "BLE": {2, 2}, "BLT": {2, 2},
	"BIT_SIZE": {1, 1}, "BTEST": {2, 2},
	"CEILING": {1, 2}, "CHAR": {1, 2}, "CMPLX": {1, 3},
	"COMMAND_ARGUMENT_COUNT": {0, 0}, "CONJG": {1, 1}, "COS": {1, 1},
	"COSH": {1, 1}, "COUNT": {1, 3}, "CPU_TIME": {1, 1}, "CSHIFT": {2, 3},
	"DATE_AND_TIME": {0, 4}, "DBLE": {1, 1}, "DIGITS": {1, 1}, "DIM": {2, 2},
	"DOT_PRODUCT": {2, 2}, "DPROD": {2, 2}, "DSHIFTL": {3, 3}, "DSHIFTR": {3, 3},
	"EOSHIFT": {2, 4}, "EPSILON": {1, 1}, "ERF": {1, 1}, "ERFC": {1, 1},
	"ERFC_SCALED": {1, 1}, "EXECUTE_COMMAND_LINE": {1, 5}, "EXP": {1, 1},
	"EXPONENT": {1, 1}, "EXTENDS_TYPE_OF": {2, 2},
	"FINDLOC": {2, 6}, "FLOOR": {1, 2}, "FRACTION": {1, 1},
	"GAMMA": {1, 1}, "GET_COMMAND": {0, 3}, "GET_COMMAND_ARGUMENT": {1, 4},
	"GET_ENVIRONMENT_VARIABLE": {1, 5},
	"HUGE":                     {1, 1}, "HYPOT": {2, 2},
	"IACHAR": {1, 2}, "IALL": {1, 3}, "IAND": {2, 2}, "IANY": {1, 3},
	"IBCLR": {2, 2}, "IBITS": {3, 3}, "IBSET": {2, 2}, "ICHAR": {1, 2},
	"IEOR": {2, 2}, "INDEX": {2, 4}, "INT": {1, 2}, "IOR": {2, 2},
	"IPARITY": {1, 3}, "ISHFT": {2, 2}, "ISHFTC": {2, 3},
	"IS_IOSTAT_END": {1, 1}, "IS_IOSTAT_EOR": {1, 1},
	"KIND":   {1, 1},
	"LBOUND": {1, 3}, "LEADZ": {1, 1}, "LEN": {1, 2}, "LEN_TRIM": {1, 2},
	"LGE": {2, 2}, "LGT": {2, 2}, "LLE": {2, 2}, "LLT": {2, 2},
	"LOG": {1, 1}, "LOG10": {1, 1}, "LOG_GAMMA": {1, 1}, "LOGICAL": {1, 2},
	"MASKL": {1, 2}, "MASKR": {1, 2}, "MATMUL": {2, 2}, "MAX": {2, Unbounded},
	"MAXEXPONENT": {1, 1}, "MAXLOC": {1, 5}, "MAXVAL": {1, 3}, "MERGE": {3, 3},
	"MERGE_BITS": {3, 3}, "MIN": {2, Unbounded}, "MINEXPONENT": {1, 1},
	"MINLOC": {1, 5}, "MINVAL": {1, 3}, "MOD": {2, 2}, "MODULO": {2, 2},
	"MOVE_ALLOC": {2, 2}, "MVBITS": {5, 5},
	"NEAREST": {2, 2}, "NEW_LINE": {1, 1}, "NINT": {1, 2}, "NORM2": {1, 2},
	"NOT": {1, 1}, "NULL": {0, 1},
	"PACK": {2, 3}, "PARITY": {1, 2}, "POPCNT": {1, 1}, "POPPAR": {1, 1},
	"PRECISION": {1, 1}, "PRESENT": {1, 1}, "PRODUCT": {1, 3},
	"RADIX": {1, 1}, "RANDOM_NUMBER": {1, 1}, "RANDOM_SEED": {0, 3},
	"RANGE": {1, 1}, "REAL": {1, 2}, "REPEAT": {2, 2}, "RESHAPE": {2, 4},
	"RRSPACING":    {1, 1},
	"SAME_TYPE_AS": {2, 2}, "SCALE": {2, 2}, "SCAN": {2, 4},
	"SELECTED_CHAR_KIND": {1, 1}, "SELECTED_INT_KIND": {1, 1},
	"SELECTED_REAL_KIND": {0, 3}, "SET_EXPONENT": {2, 2}, "SHAPE": {1, 2},
	"SHIFTA": {2, 2}, "SHIFTL": {2, 2}, "SHIFTR": {2, 2}, "SIGN": {2, 2},
	"SIN": {1, 1}, "SINH": {1, 1}, "SIZE": {1, 3}, "SPACING": {1, 1},
	"SPREAD": {3, 3}, "SQRT": {1, 1}, "STORAGE_SIZE": {1, 2}, "SUM": {1, 3},
	"SYSTEM_CLOCK": {0, 3},
	"TAN":          {1, 1}, "TANH": {1, 1}, "TINY": {1, 1}, "TRAILZ": {1, 1},
	"TRANSFER": {2, 3}, "TRANSPOSE": {1, 1}, "TRIM": {1, 1},
	"UBOUND": {1, 3}, "UNPACK": {3, 3},
	"VERIFY": {2, 4},
}

// specifics maps Fortran 77 specific names to the generic whose arity they share.
var specifics = map[string]string{
	"ALOG": "LOG", "CLOG": "LOG", "DLOG": "LOG",
	"ALOG10": "LOG10", "DLOG10": "LOG10",
	"AMAX0": "MAX", "AMAX1": "MAX", "DMAX1": "MAX", "MAX0": "MAX", "MAX1": "MAX",
	"AMIN0": "MIN", "AMIN1": "MIN", "DMIN1": "MIN", "MIN0": "MIN", "MIN1": "MIN",
	"AMOD": "MOD", "DMOD": "MOD",
	"CABS": "ABS", "DABS": "ABS", "IABS": "ABS",
	"CCOS": "COS", "DCOS": "COS",
	"CEXP": "EXP", "DEXP": "EXP",
	"CSIN": "SIN", "DSIN": "SIN",
	"CSQRT": "SQRT", "DSQRT": "SQRT",
	"DACOS": "ACOS", "DASIN": "ASIN", "DATAN": "ATAN", "DATAN2": "ATAN2",
	"DCOSH": "COSH", "DSINH": "SINH", "DTAN": "TAN", "DTANH": "TANH",
	"DDIM": "DIM", "IDIM": "DIM",
	"DINT": "AINT", "DNINT": "ANINT", "IDNINT": "NINT",
	"DSIGN": "SIGN", "ISIGN": "SIGN",
	"FLOAT": "REAL", "SNGL": "REAL",
	"IFIX": "INT", "IDINT": "INT",
}

// Lookup returns the table entry for name. Lookup is case-insensitive.
func Lookup(name string) (Entry, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if a, ok := generics[upper]; ok {
		return Entry{Name: upper, Generic: upper, Min: a.min, Max: a.max}, true
	}
	if g, ok := specifics[upper]; ok {
		a := generics[g]
		return Entry{Name: upper, Generic: g, Min: a.min, Max: a.max, Specific: true}, true
	}
	return Entry{}, false
}

// IsIntrinsic reports whether name is a generic or specific intrinsic name.
func IsIntrinsic(name string) bool {
	_, ok := Lookup(name)
	return ok
}

// Validate checks argc against the arity of intrinsic name. It returns
// an *ArityError on mismatch and a plain error for unknown names.
func Validate(name string, argc int) error {
	e, ok := Lookup(name)
	if !ok {
		return &UnknownError{Name: name}
	}
	return e.Check(argc)
}

// Check returns an *ArityError if argc is outside the entry's range.
func (e Entry) Check(argc int) error {
	if argc < e.Min || (e.Max != Unbounded && argc > e.Max) {
		return &ArityError{Name: e.Name, Min: e.Min, Max: e.Max, Found: argc}
	}
	return nil
}

// Names returns the generic intrinsic names in sorted order.
func Names() []string {
	names := make([]string, 0, len(generics))
	for name := range generics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ArityError reports an intrinsic reference with the wrong number of arguments.
type ArityError struct {
	Name  string
	Min   int
	Max   int
	Found int
}

func (e *ArityError) Error() string {
	return string(e.AppendString(nil))
}

// AppendString appends the error message to dst.
func (e *ArityError) AppendString(dst []byte) []byte {
	dst = append(dst, "Intrinsic '"...)
	dst = append(dst, e.Name...)
	dst = append(dst, "' expects "...)
	switch {
	case e.Max == Unbounded:
		dst = append(dst, "at least "...)
		dst = strconv.AppendInt(dst, int64(e.Min), 10)
		dst = append(dst, " args"...)
	case e.Min == e.Max:
		dst = strconv.AppendInt(dst, int64(e.Min), 10)
		dst = append(dst, " arg(s)"...)
	default:
		dst = append(dst, "between "...)
		dst = strconv.AppendInt(dst, int64(e.Min), 10)
		dst = append(dst, " and "...)
		dst = strconv.AppendInt(dst, int64(e.Max), 10)
		dst = append(dst, " args"...)
	}
	dst = append(dst, " but found "...)
	dst = strconv.AppendInt(dst, int64(e.Found), 10)
	return append(dst, '.')
}

// UnknownError is returned by Validate for names missing from the table.
type UnknownError struct {
	Name string
}

func (e *UnknownError) Error() string {
	return "intrinsic: unknown intrinsic " + strconv.Quote(e.Name)
}
