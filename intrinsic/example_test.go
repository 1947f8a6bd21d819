package intrinsic_test

import (
	"fmt"

	"github.com/soypat/go-fparser/intrinsic"
)

func ExampleLookup() {
	e, ok := intrinsic.Lookup("dsqrt")
	fmt.Println(ok, e.Name, e.Generic, e.Specific, e.Min, e.Max)
	// Output:
	// true DSQRT SQRT true 1 1
}

func ExampleValidate() {
	fmt.Println(intrinsic.Validate("MATMUL", 1))
	fmt.Println(intrinsic.Validate("min", 1))
	fmt.Println(intrinsic.Validate("PRODUCT", 2))
	// Output:
	// Intrinsic 'MATMUL' expects 2 arg(s) but found 1.
	// Intrinsic 'MIN' expects at least 2 args but found 1.
	// <nil>
}
