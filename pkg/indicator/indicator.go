package indicator

// DefaultWindow is applied by the configuration layer when a window is
// omitted. The constructors themselves reject non-positive windows: an
// explicit bad value is a configuration mistake, not a request for the
// default.
const DefaultWindow = 10

func windowOrDefault(window int) int {
	if window == 0 {
		return DefaultWindow
	}

	return window
}
