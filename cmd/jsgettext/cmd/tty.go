package cmd

import "os"

// isTTY returns true if f is connected to a terminal.
func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func isStderrTTY() bool { return isTTY(os.Stderr) }

// resolveColor determines whether to use color based on the --color value
// ("auto", "always" or "never") and, for auto, whether the stream is a
// terminal. NO_COLOR in the environment turns auto off.
func resolveColor(mode string, tty func() bool) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			return false
		}
		return tty()
	}
}
