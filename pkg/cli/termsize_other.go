//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package cli

func terminalSize() (int, int, bool) {
	return 0, 0, false
}
