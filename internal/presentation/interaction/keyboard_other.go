//go:build !linux && !darwin

package interaction

func enableRawMode(int) (func() error, error) {
	return nil, ErrRawModeUnsupported
}
