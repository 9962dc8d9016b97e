package vm

import "strconv"

// itoa and ftoa format printi/printf's output. spec.md explicitly leaves
// print's exact textual formatting out of scope (an I/O plumbing detail,
// not part of the instruction semantics), so these use Go's ordinary
// decimal formatting rather than inventing a bespoke one.
func itoa(i int64) string {
	return strconv.FormatInt(i, 10)
}

func ftoa(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}
