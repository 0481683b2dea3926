package launcher

import "strings"

// Options are the launcher's own flags, recognized only before the first
// pass-through argument.
type Options struct {
	Pause  string
	Python string
}

// SplitArgs separates the launcher options from the arguments forwarded to
// the delegated script. The first argument the launcher does not recognize,
// or a literal `--`, starts the pass-through block; everything from there on
// is forwarded unmodified.
func SplitArgs(args []string) (options Options, passThrough []string) {
	for argIndex := 0; argIndex < len(args); argIndex++ {
		arg := args[argIndex]
		switch {
		case arg == "--":
			passThrough = append(passThrough, args[argIndex+1:]...)
			return
		case arg == "--no-pause":
			options.Pause = "never"
		case strings.HasPrefix(arg, "--pause="):
			options.Pause = strings.TrimPrefix(arg, "--pause=")
		case arg == "--pause" && argIndex+1 < len(args):
			argIndex++
			options.Pause = args[argIndex]
		case strings.HasPrefix(arg, "--python="):
			options.Python = strings.TrimPrefix(arg, "--python=")
		case arg == "--python" && argIndex+1 < len(args):
			argIndex++
			options.Python = args[argIndex]
		default:
			passThrough = append(passThrough, args[argIndex:]...)
			return
		}
	}
	return
}
