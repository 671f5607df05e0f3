//go:build !linux && !darwin

package moving

// freeBytes reports -1 on platforms without a Statfs binding, which skips the
// space check and lets the move primitive surface any shortage.
func freeBytes(path string) int64 {
	return -1
}

// writable is assumed on platforms without an access(2) binding; the move
// primitive surfaces permission failures instead.
func writable(path string) bool {
	return true
}
